package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/payment"
	"github.com/matchtix/stadium-ticketing/internal/processor"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

// WebhookHandler receives signed payment events from the processor
// (Path B). Deliveries are at-least-once: the processor redelivers on any
// non-2xx response, so status codes here double as retry policy. 400 for
// bad signatures (never retryable), 404 for unknown reservations, 500 for
// transient store failures (the processor will retry), 200 otherwise.
type WebhookHandler struct {
	Payments *payment.Service
	Reserv   *repository.ReservationRepo
	Secret   string // shared webhook secret, injected at construction
	Publish  PaymentPublisher
}

// NewWebhookHandler constructs a WebhookHandler. The publisher may be nil.
func NewWebhookHandler(payments *payment.Service, reserv *repository.ReservationRepo, secret string, publish PaymentPublisher) *WebhookHandler {
	if payments == nil || reserv == nil {
		panic("nil dependency passed to NewWebhookHandler")
	}
	return &WebhookHandler{Payments: payments, Reserv: reserv, Secret: secret, Publish: publish}
}

// Handle processes POST /v1/payments/webhook. The raw body is kept
// unparsed until the signature over it verifies; re-encoding the JSON
// first would break verification. The response is written only after the
// idempotent insert attempt has completed, so an acknowledged event is a
// durable one.
func (h *WebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	ev, err := processor.ConstructEvent(body, c.Request().Header.Get(processor.SignatureHeader), h.Secret)
	if err != nil {
		// Either a forged/replayed delivery or a misconfigured secret;
		// both deserve an operator's attention.
		c.Logger().Warnf("webhook: signature verification failed from %s: %v", c.RealIP(), err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
	}

	if ev.Type != processor.EventCheckoutCompleted {
		// Irrelevant event types are acknowledged so the processor stops
		// redelivering them.
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	ctx := c.Request().Context()
	pay, created, err := h.Payments.ConfirmEvent(ctx, ev)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			c.Logger().Warnf("webhook: event %s references unknown reservation", ev.ID)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		// Transient store failure: answer 5xx so the processor redelivers.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}

	if created && h.Publish != nil {
		detail, derr := h.Reserv.GetDetail(ctx, pay.ReservationID)
		if derr != nil || detail == nil {
			detail = &repository.ReservationDetail{ID: pay.ReservationID}
		}
		h.Publish(c, detail, pay)
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true, "created": created})
}
