// Package config provides loading and environment overlay for the server
// configuration. It exposes a Default() baseline, Load for JSON and YAML
// files, a TREEINDEX_* environment overlay and Validate.
//
// Example:
//
//	cfg, err := config.Load("/etc/treeindex.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.FromEnv(&cfg); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
