package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/payment"
	"github.com/matchtix/stadium-ticketing/internal/processor"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

const webhookTestSecret = "whsec_test"

// In-memory stands-ins for the repository layer, mirroring its contract:
// unknown ids return the repository sentinels and the payment insert is
// first-writer-wins per reservation.

type memReservations struct{ byID map[uint64]*model.Reservation }

func (m *memReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	return r, nil
}

type memProgrammes struct{ byID map[uint64]*model.Programme }

func (m *memProgrammes) GetByID(_ context.Context, id uint64) (*model.Programme, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrProgrammeNotFound
	}
	return p, nil
}

type memPayments struct{ byRes map[uint64]*model.Payment }

func (m *memPayments) Insert(_ context.Context, p *model.Payment) error {
	if _, exists := m.byRes[p.ReservationID]; exists {
		return repository.ErrDuplicatePayment
	}
	cp := *p
	m.byRes[p.ReservationID] = &cp
	return nil
}

func (m *memPayments) GetByReservation(_ context.Context, reservationID uint64) (*model.Payment, error) {
	p, ok := m.byRes[reservationID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

type nopGateway struct{}

func (nopGateway) CreateCheckoutSession(context.Context, processor.CheckoutParams) (*processor.CheckoutSession, error) {
	return nil, processor.ErrUnavailable
}
func (nopGateway) GetCheckoutSession(context.Context, string) (*processor.CheckoutSession, error) {
	return nil, processor.ErrUnavailable
}

func newWebhookFixture() (*memPayments, *WebhookHandler) {
	reservations := &memReservations{byID: map[uint64]*model.Reservation{
		42: {ID: 42, UserID: 10, ProgrammeID: 7, Category: model.CategoryA, Quantity: 3, UnitPriceCents: 2500, TotalAmountCents: 7500},
	}}
	programmes := &memProgrammes{byID: map[uint64]*model.Programme{
		7: {ID: 7, Equipe1: "PSG", Equipe2: "OM", PriceACents: 2500, PriceBCents: 1500},
	}}
	payments := &memPayments{byRes: map[uint64]*model.Payment{}}
	svc := payment.NewService(reservations, programmes, payments, nopGateway{}, "eur", "https://tickets.example.test")
	// Reserv and Publish stay nil: the handler only consults them after a
	// row was created and a publisher is configured.
	return payments, &WebhookHandler{Payments: svc, Secret: webhookTestSecret}
}

func completedEventBody(reservationID uint64) []byte {
	body := fmt.Sprintf(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_status":"paid","amount_total":7500,"payment_method":"card","metadata":{"reservation_id":"%d"}}}}`, reservationID)
	return []byte(body)
}

func postWebhook(t *testing.T, h *WebhookHandler, body []byte, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if header != "" {
		req.Header.Set(processor.SignatureHeader, header)
	}
	rec := httptest.NewRecorder()
	if err := h.Handle(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	return rec
}

func TestWebhookHandle(t *testing.T) {
	t.Run("valid event records the payment", func(t *testing.T) {
		payments, h := newWebhookFixture()
		body := completedEventBody(42)
		rec := postWebhook(t, h, body, processor.SignPayload(body, webhookTestSecret, time.Now()))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["created"] != true {
			t.Errorf("expected created=true, got %v", resp["created"])
		}
		p := payments.byRes[42]
		if p == nil || p.AmountCents != 7500 || p.ExternalRef != "cs_1" {
			t.Errorf("unexpected payment row %+v", p)
		}
	})

	t.Run("redelivery acknowledges without a second row", func(t *testing.T) {
		payments, h := newWebhookFixture()
		body := completedEventBody(42)
		sig := processor.SignPayload(body, webhookTestSecret, time.Now())

		postWebhook(t, h, body, sig)
		rec := postWebhook(t, h, body, sig)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["created"] != false {
			t.Errorf("expected created=false on redelivery, got %v", resp["created"])
		}
		if len(payments.byRes) != 1 {
			t.Errorf("expected 1 payment row, got %d", len(payments.byRes))
		}
	})

	t.Run("invalid signature is rejected before any state change", func(t *testing.T) {
		payments, h := newWebhookFixture()
		body := completedEventBody(42)
		rec := postWebhook(t, h, body, processor.SignPayload(body, "whsec_other", time.Now()))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if len(payments.byRes) != 0 {
			t.Errorf("expected no payment rows, got %d", len(payments.byRes))
		}
	})

	t.Run("missing signature header", func(t *testing.T) {
		_, h := newWebhookFixture()
		rec := postWebhook(t, h, completedEventBody(42), "")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown reservation yields 404", func(t *testing.T) {
		payments, h := newWebhookFixture()
		body := completedEventBody(999)
		rec := postWebhook(t, h, body, processor.SignPayload(body, webhookTestSecret, time.Now()))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if len(payments.byRes) != 0 {
			t.Errorf("expected no payment rows, got %d", len(payments.byRes))
		}
	})

	t.Run("irrelevant event types are acknowledged and ignored", func(t *testing.T) {
		payments, h := newWebhookFixture()
		body := []byte(`{"id":"evt_2","type":"checkout.session.expired","data":{"object":{"id":"cs_1","metadata":{"reservation_id":"42"}}}}`)
		rec := postWebhook(t, h, body, processor.SignPayload(body, webhookTestSecret, time.Now()))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if len(payments.byRes) != 0 {
			t.Errorf("expected no payment rows, got %d", len(payments.byRes))
		}
	})
}
