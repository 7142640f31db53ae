package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/payment"
	"github.com/matchtix/stadium-ticketing/internal/processor"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

// StartCheckout handles POST /v1/reservations/:id/checkout. It creates a
// hosted checkout session at the processor and returns the redirect URL.
// When the reservation is already paid the processor is never contacted
// and 409 is returned.
func (h *SpectatorHandler) StartCheckout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	sess, err := h.Payments.StartCheckout(c.Request().Context(), userID, resID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, payment.ErrAlreadyPaid):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already paid"})
		case errors.Is(err, processor.ErrUnavailable):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment processor unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start checkout"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id":   sess.ID,
		"checkout_url": sess.URL,
	})
}

// PaymentSuccess handles GET /v1/reservations/:id/payment-success, the
// redirect target after the spectator completes payment (Path A). The
// route requires the spectator's JWT: the processor redirect lands on the
// frontend, which re-issues this call with the stored token. The redirect
// itself proves nothing — anyone can open the URL — so the session is
// revalidated with the processor before a payment record is written.
// Responses mirror the verified outcome, not the redirect. A spectator
// who never returns (browser closed mid-redirect) is still covered by the
// webhook path.
func (h *SpectatorHandler) PaymentSuccess(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}

	pay, created, err := h.Payments.ConfirmReturn(c.Request().Context(), userID, resID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, payment.ErrSessionMismatch):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown checkout session"})
		case errors.Is(err, payment.ErrNotPaid):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment not completed"})
		case errors.Is(err, processor.ErrUnavailable):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment processor unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm payment"})
	}
	if created {
		h.publishRecorded(c, resID, pay)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": resID,
		"status":         "PAID",
		"amount_cents":   pay.AmountCents,
		"amount":         model.FormatCents(pay.AmountCents),
		"payment_ref":    pay.ExternalRef,
	})
}

// PaymentCancel handles GET /v1/reservations/:id/payment-cancel. The
// spectator abandoned checkout; the reservation simply stays unpaid and
// can be retried later. Nothing is persisted.
func (h *SpectatorHandler) PaymentCancel(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": resID,
		"status":         "UNPAID",
	})
}

// publishRecorded loads the joined detail for the event payload and hands
// it to the configured publisher. Best-effort by design.
func (h *SpectatorHandler) publishRecorded(c echo.Context, reservationID uint64, pay *model.Payment) {
	if h.Publish == nil {
		return
	}
	res, err := h.ReservationRepo.GetDetail(c.Request().Context(), reservationID)
	if err != nil || res == nil {
		// fall back to a minimal detail when the join cannot be loaded
		res = &repository.ReservationDetail{ID: reservationID}
	}
	h.Publish(c, res, pay)
}
