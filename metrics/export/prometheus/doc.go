// Package prometheus renders goShield metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [goShield.Gate] and exposes an
// http.Handler that renders every pipeline counter and the validate-latency
// histogram. Counter names are prefixed goshield_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate gate state.
package prometheus
