// Package otel provides OpenTelemetry metric exporter bindings for goShield
// counters and the validate-latency histogram.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// pipeline metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [goShield.Gate.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate gate state.
package otel
