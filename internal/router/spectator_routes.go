package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/handler"
	"github.com/matchtix/stadium-ticketing/internal/middleware"
)

// RegisterSpectator registers spectator-scoped endpoints under /v1. All
// routes require a valid JWT and the SPECTATEUR role. Spectators can
// reserve tickets for a programme, start a checkout for a reservation,
// land on the payment return pages and view their own reservations.
func RegisterSpectator(e *echo.Echo, h *handler.SpectatorHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("SPECTATEUR"),
	)
	// Note: GET /v1/programmes is registered on the public router so that
	// guests can browse the match catalogue. Spectator-specific endpoints
	// begin here.
	g.POST("/programmes/:id/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)

	// Checkout and the two return legs of the hosted payment page. The
	// return legs sit behind JWT like the rest of the group: the processor
	// redirects the browser to the frontend, which calls them with the
	// spectator's token. The success leg revalidates the session with the
	// processor before any payment row is written; the cancel leg only
	// reports current status. The webhook covers spectators who never
	// come back from the redirect.
	g.POST("/reservations/:id/checkout", h.StartCheckout)
	g.GET("/reservations/:id/payment-success", h.PaymentSuccess)
	g.GET("/reservations/:id/payment-cancel", h.PaymentCancel)
}
