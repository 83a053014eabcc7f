package internaldefs

import (
	goShield "github.com/MrEthical07/goShield"
)

// CounterDef binds one pipeline counter to its exposition name.
type CounterDef struct {
	ID   goShield.MetricID
	Name string
	Help string
}

// HistogramDef binds one pipeline histogram to its exposition name.
type HistogramDef struct {
	ID   goShield.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: goShield.MetricLoginSuccess, Name: "goshield_login_success_total", Help: "Sessions issued."},
	{ID: goShield.MetricLoginFailure, Name: "goshield_login_failure_total", Help: "Logins rejected by the token validator."},
	{ID: goShield.MetricLogout, Name: "goshield_logout_total", Help: "Logout operations."},
	{ID: goShield.MetricValidateSuccess, Name: "goshield_validate_success_total", Help: "Per-request session validations that passed."},
	{ID: goShield.MetricValidateFailure, Name: "goshield_validate_failure_total", Help: "Session validations that failed."},
	{ID: goShield.MetricTokenExpired, Name: "goshield_token_expired_total", Help: "Validations rejected for expiry."},
	{ID: goShield.MetricCSRFMissing, Name: "goshield_csrf_missing_total", Help: "Unsafe-method requests lacking a CSRF value."},
	{ID: goShield.MetricCSRFMismatch, Name: "goshield_csrf_mismatch_total", Help: "Unsafe-method requests with unequal CSRF values."},
	{ID: goShield.MetricRateLimited, Name: "goshield_rate_limited_total", Help: "Requests denied by the fixed-window limiter."},
	{ID: goShield.MetricUnauthenticated, Name: "goshield_unauthenticated_total", Help: "Requests presenting no credentials."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goShield.MetricValidateLatency, Name: "goshield_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds are the upper bounds of the eight fixed buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with names legal in OTel
// instrument identifiers.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms require.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
