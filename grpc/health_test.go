package grpc

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startHealth(t *testing.T, running func() bool) (*HealthServer, healthpb.HealthClient) {
	t.Helper()
	listener := bufconn.Listen(1 << 20)
	server := NewHealthServer(slog.Default(), running, 10*time.Millisecond)
	go func() { _ = server.Serve(listener) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})
	return server, healthpb.NewHealthClient(conn)
}

func status(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer_Follows_Engine(t *testing.T) {
	var running atomic.Bool
	server, client := startHealth(t, running.Load)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	// Given the engine has not started
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, client, ""))

	// When it starts
	running.Store(true)

	// Then both the overall and the named service report SERVING
	require.Eventually(t, func() bool {
		return status(t, client, "") == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, client, ServiceName))

	// When shutdown begins
	cancel()
	require.NoError(t, <-done)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, client, ""))
}

func TestHealthServer_Unknown_Service(t *testing.T) {
	_, client := startHealth(t, func() bool { return true })

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	require.Error(t, err)
}
