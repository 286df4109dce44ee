package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const probeTimeout = 3 * time.Second

// RegistryProbe reports whether the coordination registry answers reads.
type RegistryProbe func(ctx context.Context) error

// NewServer creates the sidecar listener scrapers use when METRICS_LISTEN_ADDR
// is set. It serves the gatherer's metrics, a liveness check, and a readiness
// check that fails while probe does.
func NewServer(addr string, gatherer prometheus.Gatherer, probe RegistryProbe) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		if probe != nil {
			if err := probe(ctx); err != nil {
				http.Error(w, "registry: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
