package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

var (
	// FetchDuration tracks calls to the external metrics service
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "metrikenos_metrics_fetch_duration_seconds",
			Help: "Duration of external metrics fetches in seconds",
			Buckets: []float64{
				0.05, // 50ms
				0.1,  // 100ms
				0.25, // 250ms
				0.5,  // 500ms
				1.0,  // 1s
				2.5,  // 2.5s
				5.0,  // 5s
				10.0, // 10s
				30.0, // 30s
			},
		},
		[]string{"kind", "status"}, // publication|profile, success|failure
	)

	// RefreshItems counts publications processed by batch refreshes
	RefreshItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrikenos_refresh_items_total",
			Help: "Publications processed by metric refreshes",
		},
		[]string{"status"},
	)

	// Clicks counts follower download clicks
	Clicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrikenos_download_clicks_total",
			Help: "Follower download clicks recorded per network",
		},
		[]string{"network", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordFetch records the duration of one metrics fetch
func RecordFetch(kind string, err error, seconds float64) {
	FetchDuration.WithLabelValues(kind, status(err)).Observe(seconds)
}

// RecordRefresh counts one refreshed publication
func RecordRefresh(err error) {
	RefreshItems.WithLabelValues(status(err)).Inc()
}

// RecordClick counts one click attempt. Networks outside domain.Networks
// share the "other" label so request paths cannot grow the series count.
func RecordClick(network string, err error) {
	if !slices.Contains(domain.Networks, network) {
		network = "other"
	}
	Clicks.WithLabelValues(network, status(err)).Inc()
}
