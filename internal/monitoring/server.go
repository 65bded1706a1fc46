// Package monitoring serves the liveness, readiness and metrics endpoints of
// the geotag service.
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/meridian/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger checks that the photo database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusReporter exposes the state of the geotag polling loop.
type StatusReporter interface {
	Status() service.Status
}

// Options configure the monitoring server.
type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// readiness is the body of /readyz.
type readiness struct {
	Ready      bool       `json:"ready"`
	Running    bool       `json:"running"`
	PollFailed bool       `json:"poll_failed"`
	LastPoll   *time.Time `json:"last_poll,omitempty"`
}

// NewServer builds the monitoring server. It does not start listening.
func NewServer(
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb Pinger,
	geotag StatusReporter,
	opts Options,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler(log, dtb))
	mux.HandleFunc("/readyz", readyHandler(log, geotag))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      mux,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
}

// healthHandler answers 200 while the photo database responds to pings.
func healthHandler(log *slog.Logger, dtb Pinger) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(ctx); err != nil {
			log.WarnContext(ctx, "Database ping failed", "error", err)
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}

		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	}
}

// readyHandler answers 200 while the geotag loop is polling and its last
// fetch succeeded, 503 otherwise. The body carries the state either way.
func readyHandler(log *slog.Logger, geotag StatusReporter) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		state := geotag.Status()
		body := readiness{
			Ready:      state.Ready(),
			Running:    state.Running,
			PollFailed: state.PollFailed,
		}
		if !state.LastPoll.IsZero() {
			body.LastPoll = &state.LastPoll
		}

		status := http.StatusOK
		if !body.Ready {
			status = http.StatusServiceUnavailable
		}

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		if err := json.NewEncoder(writer).Encode(body); err != nil {
			log.ErrorContext(req.Context(), "failed to write reply", "error", err)
		}
	}
}
