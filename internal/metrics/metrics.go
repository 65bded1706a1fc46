package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PhotosProcessed *prometheus.CounterVec
	ProviderErrors  prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	ActiveWorkers   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PhotosProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geotag_photos_processed_total",
			Help: "Total number of processed photos by outcome.",
		}, []string{"status"}),
		ProviderErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geotag_provider_api_errors_total",
			Help: "Total number of errors received from the reverse geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geotag_provider_request_duration_seconds",
			Help:    "Duration of requests to the reverse geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geotag_active_workers",
			Help: "Current number of active workers processing photos.",
		}),
	}
}
