// Command goshield-demo runs the full security pipeline on :8080 backed by
// miniredis (no external Redis required) and an hs256 demo identity signer.
//
// Endpoints:
//
//	POST /auth/login       — JSON {"access_token":"..."}
//	POST /auth/logout      — requires X-CSRF-Token matching the csrf cookie
//	GET  /auth/me          — profile for the current session
//	GET  /auth/csrf-token  — pre-login CSRF bootstrap
//	POST /files/upload     — demo protected collaborator route (10/60s)
//	GET  /healthz, /metrics
//
// Run:
//
//	go run ./cmd/goshield-demo
//
// The process prints a freshly signed identity token on startup. Then:
//
//	# login (stores both cookies in the jar, echoes csrf_token in body)
//	curl -i -c jar.txt -X POST localhost:8080/auth/login \
//	  -H 'Content-Type: application/json' \
//	  -d '{"access_token":"<IDENTITY_TOKEN>"}'
//
//	# authenticated profile read
//	curl -i -b jar.txt localhost:8080/auth/me
//
//	# logout (CSRF value from the login response body)
//	curl -i -b jar.txt -c jar.txt -X POST localhost:8080/auth/logout \
//	  -H "X-CSRF-Token: <CSRF_TOKEN>"
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	goShield "github.com/MrEthical07/goShield"
	"github.com/MrEthical07/goShield/metrics/export/prometheus"
	"github.com/MrEthical07/goShield/server"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const identitySecret = "demo-identity-secret"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// ---------- infrastructure ----------
	mr, err := miniredis.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("miniredis start")
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	// ---------- gate ----------
	cfg := goShield.DefaultConfig()
	cfg.JWT.IdentityKey = []byte(identitySecret)
	cfg.Cookie.Secure = false // plain-HTTP demo only

	gate, err := goShield.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithProfileProvider(demoProfiles{}).
		WithAuditSink(zerologSink{log: log}).
		Build()
	if err != nil {
		log.Fatal().Err(err).Msg("gate build")
	}
	defer gate.Close()

	// ---------- routes ----------
	exporter := prometheus.NewPrometheusExporter(gate)
	srv := server.New(gate, server.WithMetricsHandler(exporter.Handler()))

	uploadPolicy := goShield.RoutePolicy{
		Name:    "file-upload",
		Method:  http.MethodPost,
		Pattern: "/files/upload",
		Access:  goShield.Protected,
		Limit:   goShield.LimitPolicy{Max: 10, Window: time.Minute},
	}
	if err := srv.Handle(uploadPolicy, http.HandlerFunc(uploadHandler)); err != nil {
		log.Fatal().Err(err).Msg("register upload route")
	}

	token, err := demoIdentityToken()
	if err != nil {
		log.Fatal().Err(err).Msg("mint demo identity token")
	}
	log.Info().Str("identity_token", token).Msg("demo identity token")
	log.Info().Msg("listening on :8080")

	if err := http.ListenAndServe(":8080", srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

// demoIdentityToken signs an identity token the way the platform's identity
// provider would.
func demoIdentityToken() (string, error) {
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"email": "alice@example.com",
		"role":  "student",
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(identitySecret))
}

func uploadHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"message":"upload accepted"}`))
}

// demoProfiles is a stand-in for the platform's profile store.
type demoProfiles struct{}

func (demoProfiles) GetProfile(_ context.Context, subject string) (goShield.Profile, error) {
	if subject != "user-1" {
		return goShield.Profile{}, fmt.Errorf("%w: %s", goShield.ErrProfileNotFound, subject)
	}
	return goShield.Profile{
		ID:          "user-1",
		Email:       "alice@example.com",
		Role:        "student",
		DisplayName: "Alice",
	}, nil
}

// zerologSink forwards audit events to the process logger.
type zerologSink struct {
	log zerolog.Logger
}

func (s zerologSink) Emit(_ context.Context, event goShield.AuditEvent) {
	s.log.Info().
		Str("event_type", event.EventType).
		Str("subject", event.Subject).
		Str("ip", event.IP).
		Str("route_class", event.RouteClass).
		Bool("success", event.Success).
		Str("error", event.Error).
		Msg("audit")
}
