// Package metrics exports view, page, HTTP and storage metrics through a
// private Prometheus registry. *Metrics plugs into viewsvc as its Recorder
// and into the Pebble wrapper as its MetricsHook.
package metrics
