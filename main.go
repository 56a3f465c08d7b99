package main

import (
	"activityhub-backend/config"
	"activityhub-backend/internal/api"
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/payment/epay"
	"activityhub-backend/internal/payment/stripe"
	"activityhub-backend/internal/services"
	"activityhub-backend/pkg/logger"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// @title activityhub-backend API
// @version 1.0
// @description Peer-to-peer activity marketplace: matching, payments, subscriptions and ratings.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L()

	services.Configure(cfg)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		lg.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := database.ConnectRedis(cfg); err != nil {
		lg.Warn("redis unavailable, running without cache and token denylist", zap.Error(err))
	}

	deps := api.Deps{}
	switch cfg.PaymentGateway {
	case "stripe":
		driver, err := stripe.NewDriver(stripe.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.StripeCurrency,
			SuccessURL:    cfg.PaymentReturnURL,
			CancelURL:     cfg.PaymentReturnURL,
		})
		if err != nil {
			lg.Warn("stripe gateway not configured, card payments disabled", zap.Error(err))
			break
		}
		services.SetGateway(driver)
		deps.Stripe = driver
	default:
		driver, err := epay.NewEpayDriver(epay.Config{
			URL:       cfg.EpayURL,
			PID:       cfg.EpayPID,
			Key:       cfg.EpayKey,
			NotifyURL: cfg.PaymentNotifyURL,
			ReturnURL: cfg.PaymentReturnURL,
		})
		if err != nil {
			lg.Warn("epay gateway not configured, card payments disabled", zap.Error(err))
			break
		}
		services.SetGateway(driver)
		deps.Epay = driver
	}

	if cfg.OSSBucketName != "" {
		storage, err := services.NewOSSStorage(cfg)
		if err != nil {
			lg.Warn("document storage not configured", zap.Error(err))
		} else {
			services.SetDocumentStorage(storage)
		}
	}

	sweeper := services.NewExpirySweeper(cfg.SweepInterval, 0)
	sweeper.Start()
	deps.Sweeper = sweeper

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(deps),
	}

	go func() {
		lg.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down")

	sweeper.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}
}
