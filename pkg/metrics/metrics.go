package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Catalog aggregate metrics
	CatalogsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogengine_catalogs_loaded",
			Help: "Total number of catalogs currently loaded in memory",
		},
	)

	AspectDefsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogengine_aspect_defs_registered",
			Help: "Total number of AspectDefs bound in the factory dictionary",
		},
	)

	HierarchiesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalogengine_hierarchies_total",
			Help: "Total number of hierarchies by kind",
		},
		[]string{"kind"},
	)

	// Persistence engine metrics
	SaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogengine_save_duration_seconds",
			Help:    "Time taken to save a catalog in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	LoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogengine_load_duration_seconds",
			Help:    "Time taken to load a catalog in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DeleteDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogengine_delete_duration_seconds",
			Help:    "Time taken to delete a catalog in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogengine_saves_total",
			Help: "Total number of save_catalog calls by outcome",
		},
		[]string{"outcome"},
	)

	RowsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogengine_rows_written_total",
			Help: "Total number of rows written during save, by table",
		},
		[]string{"table"},
	)

	AspectRouteTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogengine_aspect_route_total",
			Help: "Total number of Aspects routed to generic vs. mapped storage",
		},
		[]string{"route"},
	)

	// Codec metrics
	CodecMarshalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogengine_codec_marshal_duration_seconds",
			Help:    "Time taken to marshal a catalog to JSON in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CodecUnmarshalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogengine_codec_unmarshal_duration_seconds",
			Help:    "Time taken to unmarshal a catalog from JSON in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Value coercion metrics
	CoercionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogengine_coercion_failures_total",
			Help: "Total number of value coercion failures by target property type",
		},
		[]string{"property_type"},
	)
)

func init() {
	prometheus.MustRegister(CatalogsLoaded)
	prometheus.MustRegister(AspectDefsRegistered)
	prometheus.MustRegister(HierarchiesTotal)

	prometheus.MustRegister(SaveDuration)
	prometheus.MustRegister(LoadDuration)
	prometheus.MustRegister(DeleteDuration)
	prometheus.MustRegister(SavesTotal)
	prometheus.MustRegister(RowsWritten)
	prometheus.MustRegister(AspectRouteTotal)

	prometheus.MustRegister(CodecMarshalDuration)
	prometheus.MustRegister(CodecUnmarshalDuration)

	prometheus.MustRegister(CoercionFailuresTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
