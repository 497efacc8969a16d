package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ddvlanck/tree-index-1/internal/metrics"
	"github.com/ddvlanck/tree-index-1/internal/runtime"
	"github.com/ddvlanck/tree-index-1/internal/server/http/controllers"
	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

// New builds the HTTP server. reg may be nil, in which case /metrics is not
// served and requests are not counted.
func New(rt *runtime.Runtime, views *viewsvc.Service, reg *metrics.Registry, logger logpkg.Logger) *Server {
	logger = logger.WithComponent("http")
	mux := http.NewServeMux()

	var metricsHandler http.Handler
	var requests requestCounter
	if reg != nil {
		metricsHandler = reg.Handler()
		requests = reg.Metrics
	}
	controllers.NewControllerRegistry(rt, views, metricsHandler, logger).RegisterAllRoutes(mux)

	handler := requestID(accessLog(logger, requests, cors(mux)))
	return &Server{
		rt:     rt,
		logger: logger,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          logpkg.ToStdLogger(logger),
		},
	}
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Addr reports the bound address once ListenAndServe has started.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
