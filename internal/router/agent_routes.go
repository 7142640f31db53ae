package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/handler"
	"github.com/matchtix/stadium-ticketing/internal/middleware"
)

// RegisterAgent registers agent-scoped endpoints under /v1/agent. All
// routes require a valid JWT and the AGENT or ADMIN role. Agents manage
// the programme catalogue and consult the reservations taken for each
// programme, including their payment status.
func RegisterAgent(e *echo.Echo, h *handler.AgentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/agent",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("AGENT", "ADMIN"),
	)
	g.POST("/programmes", h.CreateProgramme)
	g.PUT("/programmes/:id", h.UpdateProgramme)
	g.DELETE("/programmes/:id", h.DeleteProgramme)
	g.GET("/programmes/:id/reservations", h.ListProgrammeReservations)
}
