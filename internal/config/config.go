package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL" envDefault:"checkout.db"`

	Auth     Auth           `envPrefix:"AUTH_"`
	Orders   OrderBackend   `envPrefix:"ORDER_BACKEND_"`
	Payments PaymentBackend `envPrefix:"PAYMENT_BACKEND_"`
	Checkout Checkout       `envPrefix:"CHECKOUT_"`
}

type OrderBackend struct {
	BaseURL       string        `env:"BASE_URL"`
	CreateTimeout time.Duration `env:"CREATE_TIMEOUT" envDefault:"45s"`
}

type PaymentBackend struct {
	BaseURL        string        `env:"BASE_URL"`
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"60s"`
}

type Checkout struct {
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"2500ms"`
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS" envDefault:"8"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
