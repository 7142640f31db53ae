// Package processor is the integration point with the external payment
// service. The processor is opaque to this application: we create hosted
// checkout sessions for it, redirect the spectator to the URL it returns,
// and later learn the outcome either by re-fetching the session or through
// a signed webhook event. Credentials are injected at construction; there
// is no package-level API key state.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrUnavailable is returned when the processor cannot be reached, times
// out, or rejects a request. Callers surface it as ProcessorUnavailable;
// no local state is created when it occurs.
var ErrUnavailable = errors.New("payment processor unavailable")

// Session statuses reported by the processor.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// metadataReservationKey is the metadata field that correlates a checkout
// session back to the reservation it pays for. It is set by us at session
// creation and echoed back by the processor on fetches and webhook events,
// so confirmation never trusts a client-supplied reservation id.
const metadataReservationKey = "reservation_id"

// Client talks to the processor's HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a processor client. The timeout bounds every call,
// including session creation and revalidation fetches.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// CheckoutParams describes the session to create.
type CheckoutParams struct {
	AmountCents   int64  // total in minor units
	Currency      string // ISO currency code, lowercase
	Description   string // line shown on the hosted page
	ReservationID uint64 // attached as opaque session metadata
	SuccessURL    string // browser redirect target after payment
	CancelURL     string // browser redirect target on abandon
}

// CheckoutSession mirrors the processor's session object. Only the fields
// this application consumes are mapped.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"payment_method"`
	Metadata      map[string]string `json:"metadata"`
}

// ReservationID extracts the correlated reservation id from the session
// metadata. The boolean is false when the metadata is absent or malformed.
func (s *CheckoutSession) ReservationID() (uint64, bool) {
	raw, ok := s.Metadata[metadataReservationKey]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// CreateCheckoutSession starts a hosted checkout for the given amount.
// Any transport error or non-2xx response maps to ErrUnavailable so that
// the caller can report the processor as down without leaking details.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	body := map[string]any{
		"amount_total": p.AmountCents,
		"currency":     p.Currency,
		"description":  p.Description,
		"success_url":  p.SuccessURL,
		"cancel_url":   p.CancelURL,
		"metadata": map[string]string{
			metadataReservationKey: strconv.FormatUint(p.ReservationID, 10),
		},
	}
	var sess CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetCheckoutSession fetches a session by id. Used by the redirect-return
// path to revalidate that the session was actually paid before anything is
// persisted.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	var sess CheckoutSession
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+id, nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
