// Package healthserver exposes the standard gRPC health service so process
// supervisors can tell whether a long training run is still going.
package healthserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// TrainerService is the service name reported alongside the overall status
const TrainerService = "snake.Trainer"

// Server serves grpc.health.v1 on its own listener
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	lis        net.Listener
	logger     zerolog.Logger
}

// New listens on addr and registers the health service. Status starts as
// NOT_SERVING until SetServing(true) is called.
func New(addr string, logger zerolog.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{
		health: health.NewServer(),
		lis:    lis,
		logger: logger.With().Str("component", "health_server").Logger(),
	}
	s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.recoveryInterceptor,
	))
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(false)
	return s, nil
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.lis.Addr().String()
}

// Serve blocks serving requests until Stop is called
func (s *Server) Serve() error {
	s.logger.Info().Str("address", s.Addr()).Msg("Health server listening")
	if err := s.grpcServer.Serve(s.lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// SetServing flips the overall and trainer status
func (s *Server) SetServing(serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(TrainerService, st)
	s.logger.Debug().Str("status", st.String()).Msg("Health status changed")
}

// Stop marks the service as shutting down and stops the server
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.logger.Info().Msg("Health server stopped")
}

// loggingInterceptor logs all unary RPC calls
func (s *Server) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}

	s.logger.Debug().
		Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC call")
	return resp, err
}

// recoveryInterceptor catches panics and returns proper gRPC errors
func (s *Server) recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("method", info.FullMethod).
				Interface("panic", r).
				Msg("Recovered from panic in gRPC handler")
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}
