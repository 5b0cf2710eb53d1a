// Speaks API server.
//
// @title Speaks API
// @version 1.0
// @description Event discovery platform for Model UN conferences: browse and filter published events, bookmark and RSVP, follow organizers, and moderate listings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"speaks/config"
	"speaks/internal/adapters/auth"
	"speaks/internal/adapters/email"
	delivery "speaks/internal/delivery/http"
	"speaks/internal/delivery/http/controllers"
	"speaks/internal/delivery/http/middleware"
	"speaks/internal/repository/mongodb"
	"speaks/internal/repository/postgres"
	"speaks/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres
	if err := postgres.RunMigrations(cfg.DBUrl, "migrations"); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to postgres", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Mongo holds the moderation audit log.
	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("failed to connect to mongo", "err", err)
		os.Exit(1)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	// Redis backs the discovery response cache. The API degrades to uncached
	// reads when it is unreachable.
	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.Warn("invalid redis url, running without cache", "err", err)
	} else {
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, running without cache", "err", err)
			rdb = nil
		}
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	bookmarkRepo := postgres.NewBookmarkRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := mongodb.NewAuditLogRepository(mongoClient, cfg.MongoDB)

	// Adapters
	jwtCodec := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(12)
	mailer, err := email.NewMailer(logger, email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureSkip,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("failed to parse email templates", "err", err)
		os.Exit(1)
	}

	// Services
	timeout := cfg.ServiceTimeout
	emailService := services.NewEmailService(mailer, renderer)
	discoveryService := services.NewDiscoveryService(eventRepo, timeout)
	interactionService := services.NewInteractionService(eventRepo, bookmarkRepo, rsvpRepo, followRepo, userRepo, timeout)
	eventService := services.NewEventService(eventRepo, timeout)
	adminService := services.NewAdminService(eventRepo, userRepo, bookmarkRepo, rsvpRepo, auditRepo, emailService, logger, timeout)
	userService := services.NewUserService(userRepo, followRepo, hasher, jwtCodec, cfg.TokenExpiry, timeout)

	rateLimiter := middleware.NewRateLimiter(middleware.LimiterConfig{
		RPS:     cfg.ToggleRPS,
		Burst:   cfg.ToggleBurst,
		IdleTTL: 10 * time.Minute,
	})

	mux := delivery.NewRouter(delivery.RouterDeps{
		Discovery:   controllers.NewDiscoveryController(logger, discoveryService),
		Interaction: controllers.NewInteractionController(logger, interactionService),
		Event:       controllers.NewEventController(logger, eventService),
		Admin:       controllers.NewAdminController(logger, adminService),
		Auth:        controllers.NewAuthController(logger, userService),
		User:        controllers.NewUserController(logger, userService),
		Verifier:    jwtCodec,
		RateLimiter: rateLimiter,
		Redis:       rdb,
		CacheTTL:    cfg.CacheTTL,
	})

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
