package serverrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	cfgpkg "github.com/ddvlanck/tree-index-1/internal/config"
	"github.com/ddvlanck/tree-index-1/internal/metrics"
	"github.com/ddvlanck/tree-index-1/internal/runtime"
	grpcserver "github.com/ddvlanck/tree-index-1/internal/server/grpc"
	httpserver "github.com/ddvlanck/tree-index-1/internal/server/http"
	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	pebblestore "github.com/ddvlanck/tree-index-1/internal/storage/pebble"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

type Options struct {
	Config cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
}

// LoadConfig reads path (optional) over the defaults and overlays the
// TREEINDEX_* environment.
func LoadConfig(path string) (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	if err := cfgpkg.FromEnv(&cfg); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, nil
}

// NewLogger builds the process logger from the log section.
func NewLogger(c cfgpkg.LogConfig) (logpkg.Logger, error) {
	return logpkg.ApplyConfig(&logpkg.Config{Level: c.Level, Format: c.Format})
}

// OpenRuntime opens the store under cfg.DataDir (or the OS default).
func OpenRuntime(cfg cfgpkg.Config, hook pebblestore.MetricsHook) (*runtime.Runtime, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = cfgpkg.DefaultDataDir()
	}
	mode, err := pebblestore.ParseFsyncMode(cfg.Fsync)
	if err != nil {
		return nil, err
	}
	return runtime.Open(runtime.Options{
		DataDir: filepath.Join(dataDir, "store"),
		Fsync:   mode,
		Config:  cfg,
		Metrics: hook,
	})
}

// Run starts the HTTP and gRPC servers and blocks until ctx is cancelled or
// a server fails.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		l, err := NewLogger(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
	}
	// Pebble logs through the standard library.
	logpkg.RedirectStdLog(logger)

	var reg *metrics.Registry
	var hook pebblestore.MetricsHook
	if cfg.MetricsEnabled {
		reg = metrics.NewRegistry()
		hook = reg.Metrics
	}
	rt, err := OpenRuntime(cfg, hook)
	if err != nil {
		return err
	}
	defer rt.Close()

	viewOpts := []viewsvc.Option{
		viewsvc.WithPager(viewsvc.Pager{SoftLimit: cfg.Paging.SoftLimit, HardLimit: cfg.Paging.HardLimit}),
		viewsvc.WithLogger(logger.WithComponent("views")),
	}
	if reg != nil {
		viewOpts = append(viewOpts, viewsvc.WithRecorder(reg.Metrics))
	}
	views := viewsvc.New(cfg.Domain, rt.ViewDeps(), viewOpts...)

	logger.Info("Starting tree index server",
		logpkg.Str("domain", cfg.Domain),
		logpkg.Str("http", cfg.HTTPAddr),
		logpkg.Str("grpc", cfg.GRPCAddr),
		logpkg.Bool("metrics", cfg.MetricsEnabled),
		logpkg.Int("soft_limit", cfg.Paging.SoftLimit),
		logpkg.Int("hard_limit", cfg.Paging.HardLimit),
	)

	hsrv := httpserver.New(rt, views, reg, logger)
	var gsrv *grpcserver.Server
	if cfg.GRPCAddr != "" {
		gsrv = grpcserver.New(rt, logger)
	}

	sctx, cancel := context.WithCancel(sctx)
	defer cancel()
	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)
	fail := func(name string, err error) {
		if err == nil || sctx.Err() != nil {
			return
		}
		errOnce.Do(func() { runErr = fmt.Errorf("%s: %w", name, err) })
		cancel()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		fail("http", hsrv.ListenAndServe(sctx, cfg.HTTPAddr))
	}()
	if gsrv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fail("grpc", gsrv.ListenAndServe(sctx, cfg.GRPCAddr))
		}()
	}

	<-sctx.Done()
	// Stop the servers before the deferred runtime close.
	hsrv.Close()
	if gsrv != nil {
		gsrv.Close()
	}
	wg.Wait()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.WithError(runErr).Error("server stopped")
		return runErr
	}
	logger.Info("server stopped")
	return nil
}
