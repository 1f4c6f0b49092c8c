package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewHealthServer returns a gRPC server exposing grpc.health.v1 (SERVING)
// and reflection for grpcurl.
func NewHealthServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)
	return grpcServer, hs
}

// ServeHealth listens on addr until ctx is done, then reports NOT_SERVING
// and stops gracefully.
func ServeHealth(ctx context.Context, addr string, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serveHealth(ctx, lis, logger)
}

func serveHealth(ctx context.Context, lis net.Listener, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer, hs := NewHealthServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("grpc.health.serving", "addr", lis.Addr().String())
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		hs.Shutdown()
		grpcServer.GracefulStop()
		logger.Info("grpc.health.stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}
