package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	GRPCAddr        string
	EndpointPrefix  string
	GinMode         string
	LogLevel        string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	StripeKey       string
	PaymentTimeout  time.Duration
	DefaultCurrency string
	KafkaBrokers    []string
	ConsulAddr      string
	ServiceName     string
	ServiceHost     string
}

// Load reads the process environment. .env files are expected to be loaded
// beforehand by the caller.
func Load() (Config, error) {
	var errs []error
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is not set", key))
		}
		return v
	}
	duration := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return d
	}

	cfg := Config{
		DatabaseURL:     required("DATABASE_URL"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		GRPCAddr:        getenv("GRPC_ADDR", ":9090"),
		EndpointPrefix:  getenv("SERVICE_ENDPOINT_PREFIX", "/api"),
		GinMode:         os.Getenv("GIN_MODE"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		JWTSecret:       required("JWT_SECRET"),
		AccessTokenTTL:  duration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: duration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		StripeKey:       required("STRIPE_SECRET_KEY"),
		PaymentTimeout:  duration("PAYMENT_TIMEOUT", 10*time.Second),
		DefaultCurrency: strings.ToLower(getenv("DEFAULT_CURRENCY", "usd")),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		ConsulAddr:      os.Getenv("CONSUL_ADDR"),
		ServiceName:     getenv("SERVICE_NAME", "ecommerce"),
		ServiceHost:     getenv("SERVICE_HOST", "localhost"),
	}
	if cfg.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
