package obs

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "directstay.v1.Pricing"

// GRPCHealth mirrors HTTP readiness onto the standard grpc.health.v1 service.
type GRPCHealth struct {
	Server   *grpc.Server
	Ready    func(context.Context) error
	Interval time.Duration
	Logger   *slog.Logger

	health *health.Server
}

func NewGRPCHealth(ready func(context.Context) error, logger *slog.Logger) *GRPCHealth {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return &GRPCHealth{Server: srv, Ready: ready, Interval: 10 * time.Second, Logger: logger, health: hs}
}

// Refresh evaluates readiness once and publishes the result.
func (g *GRPCHealth) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if g.Ready != nil {
		if err := g.Ready(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			if g.Logger != nil {
				g.Logger.Warn("readiness check failed", "error", err)
			}
		}
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch refreshes status until ctx is done, then marks the server as shutting down.
func (g *GRPCHealth) Watch(ctx context.Context) {
	interval := g.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	g.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			g.health.Shutdown()
			return
		case <-ticker.C:
			g.Refresh(ctx)
		}
	}
}

func (g *GRPCHealth) Health() healthpb.HealthServer {
	return g.health
}
