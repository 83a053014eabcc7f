package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	goShield "github.com/MrEthical07/goShield"
)

type errorBody struct {
	Detail string `json:"detail"`
}

// WriteError writes the pipeline's JSON error shape. Every rejection maps
// to exactly one status and a machine-inspectable detail string.
func WriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: detail})
}

// retryAfterSeconds renders a Decision's RetryAfter as integer seconds,
// rounded up so the client never retries inside the same window.
func retryAfterSeconds(d goShield.Decision) string {
	secs := int64((d.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
