package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"course-checkout/internal/checkout"
	"course-checkout/internal/client"
	"course-checkout/internal/config"
	"course-checkout/internal/repository"
	"course-checkout/internal/server"
	"course-checkout/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		os.Stderr.WriteString("No .env file found (ok in prod)\n")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		os.Stderr.WriteString("Failed to parse config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)

	db, err := client.InitSqliteClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init database")
	}

	orderClient := client.NewOrderClient(cfg.Orders.BaseURL)
	paymentClient := client.NewPaymentClient(cfg.Payments.BaseURL)

	checkoutRepo := repository.NewCheckoutRepository(db)

	checkoutService := service.NewCheckoutService(
		orderClient,
		paymentClient,
		checkoutRepo,
		checkout.Config{
			OrderCreateTimeout:   cfg.Orders.CreateTimeout,
			SessionCreateTimeout: cfg.Payments.SessionTimeout,
			PollInterval:         cfg.Checkout.PollInterval,
			PollMaxAttempts:      cfg.Checkout.PollMaxAttempts,
		},
		logger,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(checkoutService, cfg.Auth.JWTSecret, logger)

	logger.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info().Msg("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}

func newLogger(cfg config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
