package handler // handler package contains programme management handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/repository"
)

// AgentHandler groups repositories used by agents to maintain the match
// catalogue and review reservations. JWT authentication and role checks
// happen in middleware; handlers only consume the typed identity.
type AgentHandler struct {
	ProgrammeRepo   *repository.ProgrammeRepo
	ReservationRepo *repository.ReservationRepo
}

// NewAgentHandler constructs an AgentHandler. All dependencies must be non-nil.
func NewAgentHandler(programmeRepo *repository.ProgrammeRepo, reservationRepo *repository.ReservationRepo) *AgentHandler {
	if programmeRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewAgentHandler")
	}
	return &AgentHandler{ProgrammeRepo: programmeRepo, ReservationRepo: reservationRepo}
}

// programmeBody is the JSON payload for creating or updating a programme.
// Prices arrive as decimal strings and are converted to cents at this edge.
type programmeBody struct {
	Equipe1  string `json:"equipe1"`
	Equipe2  string `json:"equipe2"`
	Stadium  string `json:"stadium"`
	Date     string `json:"date"` // RFC3339
	Division string `json:"division"`
	PriceA   string `json:"price_a"`
	PriceB   string `json:"price_b"`
}

// parseProgrammeBody validates the payload and builds a Programme. It
// returns a user-facing message when validation fails.
func parseProgrammeBody(body programmeBody) (*model.Programme, string) {
	equipe1 := strings.TrimSpace(body.Equipe1)
	equipe2 := strings.TrimSpace(body.Equipe2)
	stadium := strings.TrimSpace(body.Stadium)
	if equipe1 == "" || equipe2 == "" {
		return nil, "equipe1 and equipe2 are required"
	}
	if stadium == "" {
		return nil, "stadium is required"
	}
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(body.Date))
	if err != nil {
		return nil, "invalid date format"
	}
	priceA, err := model.ParseAmount(body.PriceA)
	if err != nil {
		return nil, "invalid price_a"
	}
	priceB, err := model.ParseAmount(body.PriceB)
	if err != nil {
		return nil, "invalid price_b"
	}
	return &model.Programme{
		Equipe1:     equipe1,
		Equipe2:     equipe2,
		Stadium:     stadium,
		Date:        date.UTC(),
		Division:    strings.TrimSpace(body.Division),
		PriceACents: priceA,
		PriceBCents: priceB,
	}, ""
}

// programmeResp shapes a programme for JSON responses, with prices as
// decimal strings alongside the raw cents.
func programmeResp(p *model.Programme) echo.Map {
	return echo.Map{
		"id":            p.ID,
		"equipe1":       p.Equipe1,
		"equipe2":       p.Equipe2,
		"stadium":       p.Stadium,
		"date":          p.Date.UTC().Format(time.RFC3339),
		"division":      p.Division,
		"price_a_cents": p.PriceACents,
		"price_b_cents": p.PriceBCents,
		"price_a":       model.FormatCents(p.PriceACents),
		"price_b":       model.FormatCents(p.PriceBCents),
	}
}

// CreateProgramme handles POST /v1/agent/programmes. The creating agent
// is recorded on the row.
func (h *AgentHandler) CreateProgramme(c echo.Context) error {
	agentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body programmeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	prog, msg := parseProgrammeBody(body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	prog.CreatedBy = &agentID
	if err := h.ProgrammeRepo.Create(c.Request().Context(), prog); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create programme"})
	}
	return c.JSON(http.StatusCreated, programmeResp(prog))
}

// UpdateProgramme handles PUT /v1/agent/programmes/:id. Existing reservations
// keep their snapshotted prices; edits only affect future bookings.
func (h *AgentHandler) UpdateProgramme(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid programme id"})
	}
	var body programmeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	prog, msg := parseProgrammeBody(body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	prog.ID = id
	if err := h.ProgrammeRepo.Update(c.Request().Context(), prog); err != nil {
		if errors.Is(err, repository.ErrProgrammeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "programme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update programme"})
	}
	fresh, err := h.ProgrammeRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusOK, programmeResp(prog))
	}
	return c.JSON(http.StatusOK, programmeResp(fresh))
}

// DeleteProgramme handles DELETE /v1/agent/programmes/:id.
func (h *AgentHandler) DeleteProgramme(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid programme id"})
	}
	if err := h.ProgrammeRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrProgrammeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "programme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete programme"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProgrammeReservations handles GET /v1/agent/programmes/:id/reservations.
// It returns all reservations for a programme with their payment state so
// agents can review sales.
func (h *AgentHandler) ListProgrammeReservations(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid programme id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ProgrammeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProgrammeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "programme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.ReservationRepo.ListByProgramme(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PublicHandler exposes unauthenticated browse endpoints.
type PublicHandler struct {
	ProgrammeRepo *repository.ProgrammeRepo
}

func NewPublicHandler(programmeRepo *repository.ProgrammeRepo) *PublicHandler {
	if programmeRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{ProgrammeRepo: programmeRepo}
}

// ListProgrammes handles GET /v1/programmes. Programmes are ordered by
// date, soonest first. This route sits behind the response cache.
func (h *PublicHandler) ListProgrammes(c echo.Context) error {
	items, err := h.ProgrammeRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load programmes"})
	}
	out := make([]echo.Map, 0, len(items))
	for i := range items {
		out = append(out, programmeResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
