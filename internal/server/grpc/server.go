package grpcserver

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "treeindex.Views"

const probeInterval = 5 * time.Second

// HealthChecker reports whether storage can serve reads.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Server owns the gRPC server instance and the health state it reports.
type Server struct {
	checker HealthChecker
	health  *health.Server
	grpc    *grpc.Server
	lis     net.Listener
	logger  logpkg.Logger
}

// New constructs a gRPC server with the standard health service registered.
func New(checker HealthChecker, logger logpkg.Logger, opts ...grpc.ServerOption) *Server {
	logger = logger.WithComponent("grpc")
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary(logger))}, opts...)
	s := &Server{checker: checker, health: health.NewServer(), grpc: grpc.NewServer(opts...), logger: logger}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.probe(context.Background())
	return s
}

// probe maps one storage health check onto the served status.
func (s *Server) probe(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.checker.CheckHealth(ctx); err != nil {
		s.logger.WithError(err).Warn("health check failed")
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("grpc listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()

	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpc.GracefulStop()
			return nil
		case <-ticker.C:
			s.probe(ctx)
		case err := <-errCh:
			return err
		}
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func logUnary(logger logpkg.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.WithContext(ctx).Debug("rpc",
			logpkg.Str("method", info.FullMethod),
			logpkg.Str("code", status.Code(err).String()),
			logpkg.Duration("duration_ms", time.Since(start)),
		)
		return resp, err
	}
}
