package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/matchtix/stadium-ticketing/internal/config"
	"github.com/matchtix/stadium-ticketing/internal/database"
	"github.com/matchtix/stadium-ticketing/internal/handler"
	"github.com/matchtix/stadium-ticketing/internal/middleware"
	"github.com/matchtix/stadium-ticketing/internal/model"
	"github.com/matchtix/stadium-ticketing/internal/payment"
	"github.com/matchtix/stadium-ticketing/internal/processor"
	"github.com/matchtix/stadium-ticketing/internal/queue"
	"github.com/matchtix/stadium-ticketing/internal/repository"
	"github.com/matchtix/stadium-ticketing/internal/router"
	queuepub "github.com/matchtix/stadium-ticketing/internal/service"
)

func main() {
	// Load .env if present; real deployments set the variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	programmes := repository.NewProgrammeRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)

	// Payment processor client and the confirmation service both paths
	// (redirect return and webhook) converge on.
	gateway := processor.NewClient(cfg.ProcessorURL, cfg.ProcessorKey, cfg.ProcessorTimeout)
	paySvc := payment.NewService(reservations, programmes, payments, gateway, cfg.Currency, cfg.PublicBaseURL)

	// Publishing the recorded-payment event is best effort: the payment row
	// is already durable, so a broker outage must not fail the request.
	publish := func(c echo.Context, res *repository.ReservationDetail, pay *model.Payment) {
		ev := queue.PaymentRecordedEvent{
			ReservationID: pay.ReservationID,
			ProgrammeID:   res.ProgrammeID,
			Equipe1:       res.Equipe1,
			Equipe2:       res.Equipe2,
			Stadium:       res.Stadium,
			Category:      res.Category,
			Quantity:      res.Quantity,
			AmountCents:   pay.AmountCents,
			Method:        pay.Method,
			ExternalRef:   pay.ExternalRef,
			RecordedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queuepub.PublishPaymentRecorded(ctx, ev); err != nil {
			c.Logger().Warnf("payment event publish failed for reservation %d: %v", pay.ReservationID, err)
		}
	}

	// Background consumer writing the ticket-issuance trail.
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(programmes)
	agentH := handler.NewAgentHandler(programmes, reservations)
	spectatorH := handler.NewSpectatorHandler(programmes, reservations, paySvc, publish)
	webhookH := handler.NewWebhookHandler(paySvc, reservations, cfg.WebhookSecret, publish)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching. Both degrade to
	// no-ops when Redis is unreachable at startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := limiter(next)
		return func(c echo.Context) error {
			// Processor redeliveries must never be throttled into a retry storm.
			if c.Path() == "/v1/payments/webhook" {
				return next(c)
			}
			return limited(c)
		}
	})
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterSpectator(e, spectatorH, cfg.JWTSecret)
	router.RegisterAgent(e, agentH, cfg.JWTSecret)
	router.RegisterWebhook(e, webhookH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
