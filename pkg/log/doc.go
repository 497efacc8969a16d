// Package log provides treeindex's structured logging facade and utilities.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Child loggers created with With
// share their parent's formatter, outputs and level. Slog returns a
// *slog.Logger backed by the same pipeline for libraries that want one.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"), log.Str("addr", ":8080"))
//	l.Info("server started")
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config supporting JSON
// or text formatting and an optional file output.
//
// # Interop
//
// To integrate with libraries writing to the standard library logger (Pebble
// does), use ToStdLogger or RedirectStdLog.
package log
