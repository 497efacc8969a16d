// Package runtime wires storage, config, and facades into a single-node
// instance. It exposes Open/Close, basic health checks, and the catalog and
// event store the view service reads from.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	svc := viewsvc.New(cfg.Domain, rt.ViewDeps())
package runtime
