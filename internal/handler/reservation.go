package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/payment"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

// SpectatorHandler groups dependencies for spectator booking endpoints:
// creating reservations and browsing one's own history. The checkout and
// confirmation endpoints live in checkout.go on the same handler.
type SpectatorHandler struct {
	ProgrammeRepo   *repository.ProgrammeRepo
	ReservationRepo *repository.ReservationRepo
	Payments        *payment.Service
	Publish         PaymentPublisher
}

// PaymentPublisher is invoked after a payment row is created so that
// downstream consumers (ticket issuance, notifications) learn about it.
// Publishing is best-effort; failures are logged by the implementation and
// never fail the request.
type PaymentPublisher func(c echo.Context, res *repository.ReservationDetail, pay *model.Payment)

// NewSpectatorHandler constructs a SpectatorHandler. The publisher may be
// nil when no broker is configured.
func NewSpectatorHandler(programmeRepo *repository.ProgrammeRepo, reservationRepo *repository.ReservationRepo, payments *payment.Service, publish PaymentPublisher) *SpectatorHandler {
	if programmeRepo == nil || reservationRepo == nil || payments == nil {
		panic("nil dependency passed to NewSpectatorHandler")
	}
	return &SpectatorHandler{
		ProgrammeRepo:   programmeRepo,
		ReservationRepo: reservationRepo,
		Payments:        payments,
		Publish:         publish,
	}
}

// CreateReservation handles POST /v1/programmes/:id/reservations. The body
// carries the ticket category and quantity. The unit price is snapshotted
// from the programme here and drives all downstream checkout pricing.
// There is deliberately no capacity check: the venue's ticket count is not
// modelled, matching the original system.
func (h *SpectatorHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	programmeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || programmeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid programme id"})
	}
	var body struct {
		Category string `json:"category"`
		Quantity uint32 `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	category, ok := model.ParseCategory(body.Category)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be A or B"})
	}
	if body.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx := c.Request().Context()
	prog, err := h.ProgrammeRepo.GetByID(ctx, programmeID)
	if err != nil {
		if errors.Is(err, repository.ErrProgrammeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "programme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	total, err := payment.ResolvePrice(prog, category, body.Quantity)
	if err != nil {
		// category/quantity were validated above; reaching this means bad data
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	res := &model.Reservation{
		UserID:           userID,
		ProgrammeID:      programmeID,
		Category:         category,
		Quantity:         body.Quantity,
		UnitPriceCents:   total / int64(body.Quantity),
		TotalAmountCents: total,
	}
	if err := h.ReservationRepo.Create(ctx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id":     res.ID,
		"category":           res.Category,
		"quantity":           res.Quantity,
		"total_amount_cents": res.TotalAmountCents,
		"total_amount":       model.FormatCents(res.TotalAmountCents),
		"created_at":         res.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ListReservations handles GET /v1/my-reservations. It returns the
// spectator's reservation history, newest first, with payment state.
func (h *SpectatorHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetReservation handles GET /v1/reservations/:id for the owning
// spectator. Ownership is enforced in the repository query, so a foreign
// reservation simply reads as not found.
func (h *SpectatorHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.ReservationRepo.GetDetailForUser(c.Request().Context(), resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
