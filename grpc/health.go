// Package grpc serves the standard health protocol and server reflection.
package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "chatcrest.Engine"

// HealthServer mirrors the engine liveness into grpc.health.v1.
// It also runs as a supervised worker polling running.
type HealthServer struct {
	log      *slog.Logger
	server   *grpc.Server
	health   *health.Server
	running  func() bool
	interval time.Duration
}

func NewHealthServer(log *slog.Logger, running func() bool, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = time.Second
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(log)))
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	hs := &HealthServer{log: log, server: s, health: h, running: running, interval: interval}
	hs.SetServing(false)
	return hs
}

func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Run keeps the reported status in line with the engine until ctx ends.
func (h *HealthServer) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	last := false
	for {
		if current := h.running(); current != last {
			h.log.Info("Health status changed", "serving", current)
			h.SetServing(current)
			last = current
		}
		select {
		case <-ctx.Done():
			h.SetServing(false)
			return nil
		case <-ticker.C:
		}
	}
}

// Serve blocks until Stop is called.
func (h *HealthServer) Serve(listener net.Listener) error {
	if err := h.server.Serve(listener); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Stop reports NOT_SERVING to every watcher then drains in-flight calls.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
