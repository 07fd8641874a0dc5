// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime settings, metrics and debug introspection for virst.
//
// Provides concurrent-safe state handling primitives including:
//   - Snapshot config reads with change-driven reload listeners
//   - Gauges and counters for the ingest and frame paths
//   - Named debug probes with panic isolation
package control
