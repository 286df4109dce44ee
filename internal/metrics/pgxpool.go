package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterRegistryPoolMetrics exposes the registry database pool statistics
// as Prometheus gauges labelled with the registry namespace.
func RegisterRegistryPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool, namespace string) {
	labels := prometheus.Labels{"namespace": namespace}
	gauge := func(name, help string, fn func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 {
			return fn(pool.Stat())
		})
	}

	reg.MustRegister(
		gauge("registry_pool_acquired_conns", "Number of currently acquired registry connections",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("registry_pool_max_conns", "Maximum number of registry connections",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
		gauge("registry_pool_total_conns", "Total number of registry connections",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("registry_pool_idle_conns", "Number of idle registry connections",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
	)
}
