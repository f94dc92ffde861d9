package utilities

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// RegisterHealthServer registers the gRPC health check service and returns it so
// callers can flip the serving status on shutdown.
func RegisterHealthServer(grpcServer *grpc.Server) *health.Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return healthServer
}

// HealthServer is a gRPC server that only exposes the health service. It is the
// target of the Consul gRPC check.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	logger *zerolog.Logger
}

// NewHealthServer creates a HealthServer reporting SERVING.
func NewHealthServer(logger *zerolog.Logger) *HealthServer {
	server := grpc.NewServer()

	return &HealthServer{
		server: server,
		health: RegisterHealthServer(server),
		logger: logger,
	}
}

// Serve listens on addr and blocks until the server stops.
func (s *HealthServer) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.logger.Info().Str("addr", addr).Msg("grpc health server listening")

	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}

// Shutdown marks the service NOT_SERVING and stops the server gracefully.
func (s *HealthServer) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
	}
}
