package runtime

import (
	"context"
	"errors"

	"github.com/ddvlanck/tree-index-1/internal/catalog"
	cfgpkg "github.com/ddvlanck/tree-index-1/internal/config"
	"github.com/ddvlanck/tree-index-1/internal/eventstore"
	"github.com/ddvlanck/tree-index-1/internal/jsonld"
	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	pebblestore "github.com/ddvlanck/tree-index-1/internal/storage/pebble"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
	// Metrics observes storage reads and commits. Optional.
	Metrics pebblestore.MetricsHook
}

// Runtime wires storage, config, and facades for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	catalog *catalog.Catalog
	events  *eventstore.Store
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: opts.Fsync, Metrics: opts.Metrics})
	if err != nil {
		return nil, err
	}
	events, err := eventstore.New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Runtime{db: db, config: opts.Config, catalog: catalog.New(db), events: events}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Catalog returns the stream and fragmentation directory.
func (r *Runtime) Catalog() *catalog.Catalog { return r.catalog }

// Events returns the event and bucket store.
func (r *Runtime) Events() *eventstore.Store { return r.events }

// ViewDeps returns the storage collaborators of the view service.
func (r *Runtime) ViewDeps() viewsvc.Deps {
	return viewsvc.Deps{
		Streams:        r.catalog,
		Fragmentations: r.catalog,
		Events:         r.events,
		Buckets:        r.events,
		Payloads:       jsonld.NewConverter(),
	}
}

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
