// Package grpcserver hosts the gRPC endpoint of the index. It serves the
// standard grpc.health.v1 service, backed by the storage health check, so
// orchestrators can probe the node without going through HTTP.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s := grpcserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":9090")
package grpcserver
