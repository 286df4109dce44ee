package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusUpdatesTotal counts persisted enablement changes.
	StatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "governance_status_updates_total",
			Help: "Total number of enablement status writes to the registry",
		},
		[]string{"target", "status"},
	)

	// DisabledDataSources is the size of the disabled set seen by the most
	// recent replica listing.
	DisabledDataSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "governance_disabled_data_sources",
			Help: "Number of data sources marked disabled at the last replica listing",
		},
	)

	// SkippedSchemasTotal counts schemas that contributed no replica topology.
	SkippedSchemasTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "governance_skipped_schemas_total",
			Help: "Total number of schemas skipped while listing replica data sources",
		},
		[]string{"reason"},
	)
)
