package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the discovery core.
type Metrics struct {
	registry *prometheus.Registry

	DiscoveriesTotal *prometheus.CounterVec
	ObjectsTracked   prometheus.Gauge
	ObjectsFound     prometheus.Gauge
	ScanDuration     prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		DiscoveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "starcharts",
			Name:      "discoveries_total",
			Help:      "Objects promoted to discovered, by discovery method.",
		}, []string{"method"}),
		ObjectsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "starcharts",
			Name:      "objects_tracked",
			Help:      "Objects currently held in the spatial grid.",
		}),
		ObjectsFound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "starcharts",
			Name:      "objects_discovered",
			Help:      "Objects discovered this session.",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "starcharts",
			Name:      "discovery_scan_seconds",
			Help:      "Duration of one proximity discovery scan.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	reg.MustRegister(m.DiscoveriesTotal, m.ObjectsTracked, m.ObjectsFound, m.ScanDuration)
	return m
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
