package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Conf keeps the gRPC health status of the service in line with database reachability.
type Conf struct {
	db      Pinger
	service string
	server  *health.Server
}

func NewConf(db Pinger, service string) *Conf {
	return &Conf{db: db, service: service, server: health.NewServer()}
}

// Register attaches the health service to a gRPC server.
func (h *Conf) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Refresh pings the database and records the result for both the overall
// server status and the named service.
func (h *Conf) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	err := h.db.Ping(ctx)
	if err != nil {
		slog.Error("database ping failed", slog.String(logkey.ERROR, err.Error()))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(h.service, status)
	return err
}

// Watch refreshes the status on every tick until ctx is done.
func (h *Conf) Watch(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		_ = h.Refresh(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Check answers like a remote health client would.
func (h *Conf) Check(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: h.service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Shutdown flips every service to NOT_SERVING.
func (h *Conf) Shutdown() {
	h.server.Shutdown()
}
