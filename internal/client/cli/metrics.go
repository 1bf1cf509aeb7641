package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/courtbook/internal/logging"
)

func metricsHandler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

// startMetricsServer serves /metrics in the background and returns a
// function that shuts it down.
func startMetricsServer(addr string, g prometheus.Gatherer, log logging.Logger) func() error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metricsHandler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(context.Background(), "metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "metrics server stopped", "error", err)
		}
	}()

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
