package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/AradIT/sms-reconciler/internal/platform/config"
	"github.com/AradIT/sms-reconciler/internal/platform/database"
	"github.com/AradIT/sms-reconciler/internal/platform/logger"
	"github.com/AradIT/sms-reconciler/internal/platform/messagebroker"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/adapters/provider"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/app"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/repository/postgres"
	transporthttp "github.com/AradIT/sms-reconciler/internal/reconciler_service/transport/http"
)

const (
	serviceName     = "reconciler_service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)
	appLogger.Info("Starting service...")

	statusCallbackURL, err := cfg.StatusCallbackURL()
	if err != nil {
		appLogger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"nats_url", cfg.NATSUrl,
		"postgres_dsn_present", cfg.PostgresDSN != "",
		"provider_base_url", cfg.ProviderBaseURL,
		"max_fetch_retries", cfg.MaxFetchRetries,
		"fetch_retry_sleep", cfg.FetchRetrySleep,
		"auto_respond", cfg.AutoRespond,
		"port", cfg.ReconcilerServicePort,
		"metrics_port", cfg.ReconcilerServiceMetricsPort,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection pool initialized")

	natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("NATS connection initialized")

	// Repositories.
	messageRepo := postgres.NewPgMessageRepository(dbPool, appLogger)
	accountRepo := postgres.NewPgAccountRepository(dbPool, appLogger)
	currencyRepo := postgres.NewPgCurrencyRepository(dbPool, appLogger)
	apiVersionRepo := postgres.NewPgAPIVersionRepository(dbPool, appLogger)
	providerErrorRepo := postgres.NewPgProviderErrorRepository(dbPool, appLogger)
	messagingServiceRepo := postgres.NewPgMessagingServiceRepository(dbPool, appLogger)
	phoneNumberRepo := postgres.NewPgPhoneNumberRepository(dbPool, appLogger)
	actionRepo := postgres.NewPgActionRepository(dbPool, appLogger)
	responseRepo := postgres.NewPgResponseRepository(dbPool, appLogger)

	// Engine.
	providerClient := provider.NewHTTPClient(appLogger, cfg.ProviderBaseURL, cfg.ProviderAccountSID, cfg.ProviderAuthToken, nil)
	gateway := app.NewFetchGateway(providerClient, cfg.MaxFetchRetries, cfg.FetchRetrySleep, statusCallbackURL, appLogger)
	identity := app.NewIdentityCache(accountRepo, currencyRepo, apiVersionRepo, providerErrorRepo, messagingServiceRepo, gateway, appLogger)
	subscriptions := app.NewSubscriptionRegistry(phoneNumberRepo, appLogger)
	dispatcher := app.NewNATSDispatcher(natsClient, appLogger)
	reconciler := app.NewReconciler(messageRepo, identity, subscriptions, gateway, dispatcher, appLogger)
	responder := app.NewAutoResponder(actionRepo, responseRepo, subscriptions, gateway, reconciler, dispatcher, appLogger)

	// Webhook transport.
	validate := validator.New()
	webhookHandler := transporthttp.NewWebhookHandler(reconciler, responder, cfg.AutoRespond, appLogger, validate)

	router := chi.NewRouter()
	router.Use(chi_middleware.RequestID)
	router.Use(chi_middleware.RealIP)
	router.Use(chi_middleware.Recoverer)
	router.Post("/callbacks/sms/status", webhookHandler.HandleStatusCallback)
	router.Post("/callbacks/sms/inbound", webhookHandler.HandleInboundMessage)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ReconcilerServicePort),
		Handler: router,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ReconcilerServiceMetricsPort),
		Handler: metricsMux,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("Webhook server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics server listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-signalChan:
			appLogger.Info("Shutdown signal received", "signal", sig.String())
		case <-groupCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Webhook server shutdown failed", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", "error", err)
		}
		mainCancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Service stopped")
}
