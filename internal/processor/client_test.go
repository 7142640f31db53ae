package processor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateCheckoutSession(t *testing.T) {
	t.Run("sends amount, auth and reservation metadata", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":             "cs_1",
				"url":            "https://pay.example.test/cs_1",
				"status":         "open",
				"payment_status": "unpaid",
				"amount_total":   7500,
				"currency":       "eur",
				"metadata":       map[string]string{"reservation_id": "42"},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sk_test", 5*time.Second)
		sess, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{
			AmountCents:   7500,
			Currency:      "eur",
			Description:   "PSG vs OM – 3 x category A",
			ReservationID: 42,
			SuccessURL:    "https://tickets.example.test/ok",
			CancelURL:     "https://tickets.example.test/ko",
		})
		if err != nil {
			t.Fatalf("CreateCheckoutSession: %v", err)
		}
		if gotAuth != "Bearer sk_test" {
			t.Errorf("unexpected Authorization header %q", gotAuth)
		}
		if gotBody["amount_total"].(float64) != 7500 {
			t.Errorf("unexpected amount %v", gotBody["amount_total"])
		}
		meta, _ := gotBody["metadata"].(map[string]any)
		if meta["reservation_id"] != "42" {
			t.Errorf("expected reservation metadata, got %v", meta)
		}
		if sess.URL != "https://pay.example.test/cs_1" {
			t.Errorf("unexpected session URL %q", sess.URL)
		}
		if rid, ok := sess.ReservationID(); !ok || rid != 42 {
			t.Errorf("expected correlated reservation 42, got %d ok=%v", rid, ok)
		}
	})

	t.Run("5xx maps to ErrUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sk_test", 5*time.Second)
		if _, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("unreachable host maps to ErrUnavailable", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "sk_test", time.Second)
		if _, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("timeout maps to ErrUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sk_test", 50*time.Millisecond)
		if _, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestGetCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/checkout/sessions/cs_1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_1",
			"status":         "complete",
			"payment_status": "paid",
			"amount_total":   7500,
			"payment_method": "card",
			"metadata":       map[string]string{"reservation_id": "42"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", 5*time.Second)
	sess, err := c.GetCheckoutSession(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("GetCheckoutSession: %v", err)
	}
	if sess.PaymentStatus != PaymentStatusPaid {
		t.Errorf("expected paid status, got %q", sess.PaymentStatus)
	}
	if sess.AmountTotal != 7500 || sess.PaymentMethod != "card" {
		t.Errorf("unexpected session %+v", sess)
	}
}
