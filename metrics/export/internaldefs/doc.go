// Package internaldefs holds the shared metric name/help tables consumed by
// the Prometheus and OTel exporters, so the two stay in lockstep.
//
// # What this package must NOT do
//
//   - Be imported from outside metrics/export.
//   - Depend on any exporter SDK.
package internaldefs
