package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/handler"
	"github.com/matchtix/stadium-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while the profile endpoint lives under /v1 behind JWT validation.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints. The optional
// cache middleware (redis response cache) wraps the programme listing so
// that the catalogue — the most-read, least-changed data in the system —
// is served without hitting the database on every request.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/programmes", p.ListProgrammes, cache)
		return
	}
	e.GET("/v1/programmes", p.ListProgrammes)
}

// RegisterWebhook registers the processor webhook endpoint. It is
// unauthenticated by design — the processor is not a JWT holder — and
// authenticity rests entirely on the signature over the raw body. It is
// also exempt from rate limiting so that processor retry bursts after an
// outage are never throttled into a redelivery storm.
func RegisterWebhook(e *echo.Echo, w *handler.WebhookHandler) {
	e.POST("/v1/payments/webhook", w.Handle)
}
