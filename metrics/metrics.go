// Package metrics exposes Prometheus counters for command processing.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "buttonctl"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	commands       *prometheus.CounterVec
	watchEvents    *prometheus.CounterVec
	buttonsPresent prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Command passes by verb and outcome.",
		}, []string{"verb", "outcome"}),
		watchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Filesystem notifications seen for the command file.",
		}, []string{"op"}),
		buttonsPresent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buttons_present",
			Help:      "Identifiers currently recorded as placed in the document.",
		}),
	}

	m.registry.MustRegister(m.commands, m.watchEvents, m.buttonsPresent)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCommand counts one dispatched command.
func (m *Metrics) ObserveCommand(verb, outcome string) {
	m.commands.WithLabelValues(verb, outcome).Inc()
}

// ObserveWatchEvent counts one raw filesystem notification.
func (m *Metrics) ObserveWatchEvent(op string) {
	m.watchEvents.WithLabelValues(op).Inc()
}

// SetButtonsPresent records the size of the used-identifier set.
func (m *Metrics) SetButtonsPresent(n int) {
	m.buttonsPresent.Set(float64(n))
}

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", "error", err)
		}
	}()

	logger.Info("Metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
