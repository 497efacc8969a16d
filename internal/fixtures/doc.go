// Package fixtures loads development data sets (streams, aliases,
// fragmentations, buckets and events) from YAML or JSON into the catalog
// and the event store. It backs the load command; serving stays read-only.
package fixtures
