package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"zapshift/docs"
	"zapshift/internal/auth"
	"zapshift/internal/cache"
	"zapshift/internal/checkout"
	"zapshift/internal/config"
	"zapshift/internal/db"
	"zapshift/internal/events"
	"zapshift/internal/handler"
	"zapshift/internal/router"
	"zapshift/internal/service"
)

// @title Zap Shift API
// @version 1.0
// @description Parcel delivery backend: users, rider applications, parcels and hosted checkout payments.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity token.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := log.New("zapshift")
	logger.SetLevel(log.INFO)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	decimal.MarshalJSONWithoutQuotes = true
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, closeStore, err := db.OpenStore(startCtx, cfg)
	cancel()
	if err != nil {
		logger.Fatalf("store init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warnj(log.JSON{"msg": "redis unavailable, role lookups go to the store", "error": err.Error()})
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		logger.Fatalf("identity provider init: %v", err)
	}

	var sink events.Sink = events.NopSink{}
	if cfg.AMQPURL != "" {
		sink = events.NewAMQPSink(cfg.AMQPURL)
	} else {
		logger.Info("AMQP_URL not set, domain events are discarded")
	}
	publisher := events.NewAsyncPublisher(sink, logger, 0)

	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, checkout calls will fail")
	}
	provider := checkout.NewStripe(cfg.StripeSecretKey)

	// Initialize services
	userService := service.NewUserService(store.Users, cacheClient, cfg.OwnerEmail, cfg.RoleCacheTTL, logger)
	riderService := service.NewRiderService(store, cacheClient, cfg.OwnerEmail, publisher, logger)
	parcelService := service.NewParcelService(store, userService, logger)
	paymentService := service.NewPaymentService(store, provider, userService, publisher, service.PaymentSettings{
		SiteDomain:     cfg.SiteDomain,
		Currency:       cfg.Currency,
		TrackingPrefix: cfg.TrackingPrefix,
	}, logger)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger

	// Register routes
	router.Register(e, cfg, router.Handlers{
		Users:    handler.NewUserHandler(userService),
		Riders:   handler.NewRiderHandler(riderService),
		Parcels:  handler.NewParcelHandler(parcelService),
		Payments: handler.NewPaymentHandler(paymentService),
		Health:   handler.NewHealthHandler(store),
	}, verifier, userService, logger)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server start: %v", err)
		}
	}()
	logger.Infoj(log.JSON{
		"msg":      "server started",
		"port":     cfg.ServerPort,
		"store":    cfg.StoreDriver,
		"identity": cfg.IdentityProvider,
		"swagger":  "http://localhost:" + cfg.ServerPort + "/swagger/index.html",
	})

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorj(log.JSON{"msg": "http shutdown", "error": err.Error()})
	}
	if err := publisher.Close(); err != nil {
		logger.Errorj(log.JSON{"msg": "event publisher close", "error": err.Error()})
	}
	_ = cacheClient.Close()
	if err := closeStore(shutdownCtx); err != nil {
		logger.Errorj(log.JSON{"msg": "store close", "error": err.Error()})
	}
}

func newVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	switch cfg.IdentityProvider {
	case "jwt":
		if cfg.JWTSecret == config.DefaultJWTSecret {
			return nil, config.ErrDefaultJWTSecret
		}
		return auth.NewJWTService(cfg.JWTSecret), nil
	case "firebase":
		return auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile)
	}
	return nil, errors.New("IDENTITY_PROVIDER must be firebase or jwt")
}
