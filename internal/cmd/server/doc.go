// Package serverrun exposes the Run entrypoint used by the CLI to start the
// tree index with its HTTP and gRPC servers, handling lifecycle and shutdown.
//
// Example:
//
//	cfg, _ := serverrun.LoadConfig("treeindex.yaml")
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, serverrun.Options{Config: cfg})
package serverrun
