package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewServer_Healthz(t *testing.T) {
	srv := NewServer(":0", prometheus.DefaultGatherer, nil)
	rec := httptest.NewRecorder()

	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNewServer_ExposesGovernanceMetrics(t *testing.T) {
	StatusUpdatesTotal.WithLabelValues("instance", "disabled").Inc()
	srv := NewServer(":0", prometheus.DefaultGatherer, nil)
	rec := httptest.NewRecorder()

	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "governance_status_updates_total")
}

func TestNewServer_ServesOnlyGivenGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{Name: "sidecar_only_gauge"}))
	srv := NewServer(":0", reg, nil)
	rec := httptest.NewRecorder()

	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sidecar_only_gauge")
	assert.NotContains(t, rec.Body.String(), "governance_status_updates_total")
}

func TestNewServer_Readyz(t *testing.T) {
	var gotDeadline bool
	srv := NewServer(":0", prometheus.DefaultGatherer, func(ctx context.Context) error {
		_, gotDeadline = ctx.Deadline()
		return nil
	})
	rec := httptest.NewRecorder()

	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotDeadline)
}

func TestNewServer_ReadyzRegistryDown(t *testing.T) {
	srv := NewServer(":0", prometheus.DefaultGatherer, func(context.Context) error {
		return errors.New("connection refused")
	})
	rec := httptest.NewRecorder()

	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := NewServer("127.0.0.1:9100", prometheus.DefaultGatherer, nil)

	assert.Equal(t, "127.0.0.1:9100", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}

func TestStatusUpdatesTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(StatusUpdatesTotal.WithLabelValues("replica_data_source", "enabled"))
	StatusUpdatesTotal.WithLabelValues("replica_data_source", "enabled").Inc()
	after := testutil.ToFloat64(StatusUpdatesTotal.WithLabelValues("replica_data_source", "enabled"))
	assert.Equal(t, before+1, after)
}
