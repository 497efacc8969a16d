// Package httpserver serves the TREE views over HTTP.
//
// Routes:
//
//	GET /data/{stream}
//	GET /data/{stream}/{fragmentation}
//	GET /data/{stream}/{fragmentation}/{bucket}
//	GET /v1/healthz
//	GET /metrics (when a registry is given)
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	svc := viewsvc.New(rt.Config().Domain, rt.ViewDeps())
//	s := httpserver.New(rt, svc, metrics.NewRegistry(), logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
