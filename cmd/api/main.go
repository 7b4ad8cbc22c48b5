package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/linkcard/linkcard-api/internal/config"
	"github.com/linkcard/linkcard-api/internal/domain/booking"
	"github.com/linkcard/linkcard-api/internal/domain/location"
	"github.com/linkcard/linkcard-api/internal/middleware"
	"github.com/linkcard/linkcard-api/internal/pkg/database"
	"github.com/linkcard/linkcard-api/internal/pkg/events"
	"github.com/linkcard/linkcard-api/internal/pkg/jwt"
	"github.com/linkcard/linkcard-api/internal/pkg/logger"
	"github.com/linkcard/linkcard-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting LinkCard booking API")

	if cfg.IsProduction() && cfg.JWTSecret == config.DefaultJWTSecret {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	publisher := newPublisher(cfg.RabbitMQURL)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event publisher")
		}
	}()

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	authMiddleware := middleware.Auth(jwtService)

	// ---------- Repositories ----------
	locationRepo := location.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// ---------- Services ----------
	locationService := location.NewService(locationRepo, location.NewRuleCache(rdb, cfg.RuleCacheTTL))
	sessionStore := booking.NewSessionStore(rdb, cfg.SessionTTL, cfg.SubmitLockTTL)
	bookingService := booking.NewService(bookingRepo, locationService, sessionStore, publisher)

	// ---------- Handlers ----------
	locationHandler := location.NewHandler(locationService)
	bookingHandler := booking.NewHandler(bookingService)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(20 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})
	r.Get("/ready", readinessHandler(db, rdb))

	mountAPIRoutes(r,
		locationHandler.Routes(authMiddleware, bookingHandler.ListForOwner),
		bookingHandler.PublicRoutes(),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited properly")
}

// mountAPIRoutes wires the owner and public routers under /api/v1
func mountAPIRoutes(r chi.Router, locationRoutes, publicRoutes http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/locations", locationRoutes)
		r.Mount("/public", publicRoutes)
	})
}

func newPublisher(url string) events.Publisher {
	if url == "" {
		log.Warn().Msg("RABBITMQ_URL not set, booking events are not published")
		return events.NopPublisher{}
	}
	p, err := events.NewRabbitPublisher(url)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to RabbitMQ, booking events are not published")
		return events.NopPublisher{}
	}
	return p
}

func readinessHandler(db *sqlx.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := database.PingPostgres(ctx, db); err != nil {
			response.Error(w, http.StatusServiceUnavailable, response.CodeNotReady, "database unavailable")
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				response.Error(w, http.StatusServiceUnavailable, response.CodeNotReady, "redis unavailable")
				return
			}
		}
		response.OK(w, map[string]string{"status": "ready"})
	}
}
