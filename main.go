package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/graph"
	"github.com/GodwinCyber/alx-project-nexus/handlers"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/cart"
	"github.com/GodwinCyber/alx-project-nexus/internal/catalog"
	"github.com/GodwinCyber/alx-project-nexus/internal/config"
	"github.com/GodwinCyber/alx-project-nexus/internal/consul"
	"github.com/GodwinCyber/alx-project-nexus/internal/health"
	"github.com/GodwinCyber/alx-project-nexus/internal/metrics"
	"github.com/GodwinCyber/alx-project-nexus/internal/orders"
	"github.com/GodwinCyber/alx-project-nexus/internal/payments"
	"github.com/GodwinCyber/alx-project-nexus/internal/reviews"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/kafka"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/internal/users"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", slog.String(logkey.ERROR, err.Error()))
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
	setupSlog(cfg.LogLevel)

	if err := startApp(cfg); err != nil {
		slog.Error("service stopped with error", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func setupSlog(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	})
	slog.SetDefault(slog.New(logHandler))
}

func startApp(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database + migrations
	slog.Info("connecting to postgres")
	pool, err := postgres.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrations(pool); err != nil {
		return err
	}

	// kafka
	var pub kafka.Publisher = kafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		k, err := kafka.NewConf(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer k.Close()
		pub = k
	} else {
		slog.Warn("KAFKA_BROKERS not set, domain events are dropped")
	}

	// domain services
	keys, err := auth.NewKeys(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}
	m := metrics.New()

	processor, err := payments.NewStripeProcessor(cfg.StripeKey, cfg.PaymentTimeout, "")
	if err != nil {
		return err
	}

	u, err := users.NewConf(pool, keys)
	if err != nil {
		return err
	}
	cat, err := catalog.NewConf(pool)
	if err != nil {
		return err
	}
	c, err := cart.NewConf(pool)
	if err != nil {
		return err
	}
	o, err := orders.NewConf(pool, pub, m)
	if err != nil {
		return err
	}
	p, err := payments.NewConf(pool, processor, pub, m, cfg.PaymentTimeout, cfg.DefaultCurrency)
	if err != nil {
		return err
	}
	rv, err := reviews.NewConf(pool)
	if err != nil {
		return err
	}

	schema, err := graph.NewSchema(graph.Services{
		Users:    u,
		Catalog:  cat,
		Carts:    c,
		Orders:   o,
		Payments: p,
		Reviews:  rv,
	})
	if err != nil {
		return fmt.Errorf("parse graphql schema: %w", err)
	}

	// grpc health server
	hc := health.NewConf(pool, cfg.ServiceName)
	grpcServer := grpc.NewServer()
	hc.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}
	go hc.Watch(ctx, 15*time.Second)

	// http server
	api := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		Handler:           handlers.API(cfg.EndpointPrefix, keys, schema, hc, m.Handler()),
	}

	serverErrors := make(chan error, 2)
	go func() {
		slog.Info("grpc health server started", slog.String("addr", cfg.GRPCAddr))
		serverErrors <- grpcServer.Serve(lis)
	}()
	go func() {
		slog.Info("http server started", slog.String("addr", cfg.HTTPAddr))
		serverErrors <- api.ListenAndServe()
	}()

	// consul
	if cfg.ConsulAddr != "" {
		deregister, err := registerWithConsul(cfg)
		if err != nil {
			slog.Error("consul registration failed", slog.String(logkey.ERROR, err.Error()))
		} else {
			defer deregister()
		}
	}

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hc.Shutdown()
	grpcServer.GracefulStop()
	if err := api.Shutdown(shutdownCtx); err != nil {
		_ = api.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	slog.Info("service stopped")
	return nil
}

func registerWithConsul(cfg config.Config) (func(), error) {
	_, portStr, err := net.SplitHostPort(cfg.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_ADDR: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_ADDR port: %w", err)
	}

	client, err := consul.NewClient(cfg.ConsulAddr)
	if err != nil {
		return nil, err
	}
	id, err := consul.RegisterService(client, cfg.ServiceName, cfg.ServiceHost, port)
	if err != nil {
		return nil, err
	}
	slog.Info("registered with consul", slog.String("service_id", id))
	return func() {
		if err := consul.Deregister(client, id); err != nil {
			slog.Error("consul deregistration failed", slog.String(logkey.ERROR, err.Error()))
		}
	}, nil
}
