package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	serverrun "github.com/ddvlanck/tree-index-1/internal/cmd/server"
	cfgpkg "github.com/ddvlanck/tree-index-1/internal/config"
	"github.com/ddvlanck/tree-index-1/internal/fixtures"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "treeindex",
		Short:         "TREE index server",
		Long:          "treeindex publishes event streams as TREE hypermedia views over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("TREEINDEX_CONFIG"), "Config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the HTTP and gRPC servers",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serverrun.Run(ctx, serverrun.Options{Config: cfg})
		},
	}
	f := serverStartCmd.Flags()
	f.String("http", "", "HTTP listen address")
	f.String("grpc", "", "gRPC listen address (empty string disables gRPC)")
	f.String("domain", "", "Public base URL used in every view address")
	f.Int("soft-limit", 0, "Events after which a page closes at the next timestamp change")
	f.Int("hard-limit", 0, "Absolute cap on events per page")
	f.String("fsync", "", "Fsync mode: always|interval|never")
	f.String("log-level", "", "Log level: debug|info|warn|error")
	f.String("log-format", "", "Log format: text|json")
	f.Bool("metrics", true, "Serve Prometheus metrics on /metrics")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	loadCmd := &cobra.Command{
		Use:   "load <fixture>",
		Short: "Load a JSON or YAML fixture into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := serverrun.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			rt, err := serverrun.OpenRuntime(cfg, nil)
			if err != nil {
				return err
			}
			defer rt.Close()
			sum, err := fixtures.LoadFile(cmd.Context(), args[0], rt.Catalog(), rt.Events())
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			logger.Info(fmt.Sprintf("loaded %s: %d streams, %d aliases, %d fragmentations, %d buckets, %d events",
				args[0], sum.Streams, sum.Aliases, sum.Fragmentations, sum.Buckets, sum.Events))
			return nil
		},
	}
	rootCmd.AddCommand(loadCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves file, then environment, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := serverrun.LoadConfig(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	str("data-dir", &cfg.DataDir)
	if flags.Lookup("http") != nil {
		str("http", &cfg.HTTPAddr)
		str("grpc", &cfg.GRPCAddr)
		str("domain", &cfg.Domain)
		str("fsync", &cfg.Fsync)
		str("log-level", &cfg.Log.Level)
		str("log-format", &cfg.Log.Format)
		num("soft-limit", &cfg.Paging.SoftLimit)
		num("hard-limit", &cfg.Paging.HardLimit)
		if flags.Changed("metrics") {
			cfg.MetricsEnabled, _ = flags.GetBool("metrics")
		}
	}
	return cfg, nil
}
