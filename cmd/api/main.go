package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wisetee/orderline-backend/api/routes"
	"github.com/wisetee/orderline-backend/internal/agent"
	"github.com/wisetee/orderline-backend/internal/alerts"
	"github.com/wisetee/orderline-backend/internal/assistant"
	"github.com/wisetee/orderline-backend/internal/conversation"
	"github.com/wisetee/orderline-backend/internal/orders"
	"github.com/wisetee/orderline-backend/internal/payments"
	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/db"
	"github.com/wisetee/orderline-backend/pkg/logger"
	"github.com/wisetee/orderline-backend/pkg/metrics"
	"github.com/wisetee/orderline-backend/pkg/migrate"
	"github.com/wisetee/orderline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	agentMetrics := metrics.NewAgentMetrics(registry)

	primary, err := assistant.NewOpenAIBackend(cfg.OpenAI)
	if err != nil {
		logg.Error(context.Background(), "failed to create openai backend", err)
		os.Exit(1)
	}

	var secondary assistant.Backend
	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.NewGeminiBackend(cfg.Gemini)
		if err != nil {
			logg.Error(context.Background(), "failed to create gemini backend", err)
			os.Exit(1)
		}
		secondary = gemini
	} else {
		logg.Warn(context.Background(), "gemini key not configured, assistant fallback disabled")
	}

	responder, err := assistant.NewResponder(primary, secondary, logg, agentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create responder", err)
		os.Exit(1)
	}

	paymentRouter, err := payments.NewRouter(logg, agentMetrics,
		payments.NewBankProvider(cfg.Bank),
		payments.NewStripeProvider(cfg.Stripe),
		payments.NewPaystackProvider(cfg.Paystack),
		payments.NewPayPalProvider(cfg.PayPal),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment router", err)
		os.Exit(1)
	}

	ledger, err := orders.NewService(orders.NewRepository(dbClient.DB()), paymentRouter, logg, agentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	store := conversation.NewRedisStore(redisClient, cfg.Agent.MemorySize)
	dispatcher := alerts.NewDispatcher(cfg.Sendgrid, logg, agentMetrics)

	agentSvc, err := agent.NewService(responder, store, ledger, dispatcher, cfg.Agent, logg, agentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create agent service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, agentSvc, ledger, dispatcher, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
