package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticket_validator",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ticket_validator",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
		},
		[]string{"method", "path"},
	)

	ticketsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticket_validator",
			Subsystem: "pipeline",
			Name:      "tickets_processed_total",
			Help:      "Tickets run through the validation pipeline, by validation status.",
		},
		[]string{"validation"},
	)

	qrDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticket_validator",
			Subsystem: "pipeline",
			Name:      "qr_payloads_total",
			Help:      "QR payloads recovered, by origin.",
		},
		[]string{"origin"},
	)

	extractionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ticket_validator",
			Subsystem: "extraction",
			Name:      "failures_total",
			Help:      "Extraction API calls that returned an error after retries.",
		},
	)

	keyRotations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ticket_validator",
			Subsystem: "extraction",
			Name:      "key_rotations_total",
			Help:      "Extraction API key rotations caused by rate limiting.",
		},
	)

	winningLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticket_validator",
			Subsystem: "results",
			Name:      "lookups_total",
			Help:      "Official result lookups, by outcome.",
		},
		[]string{"outcome"},
	)

	cachedVerdicts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ticket_validator",
			Subsystem: "cache",
			Name:      "verdicts",
			Help:      "Verdicts currently held in the result cache.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ticketsProcessed,
		qrDecodes,
		extractionFailures,
		keyRotations,
		winningLookups,
		cachedVerdicts,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTicket records a finished pipeline run.
func RecordTicket(validation string) {
	ticketsProcessed.WithLabelValues(validation).Inc()
}

// RecordQRPayload records where a QR payload came from.
func RecordQRPayload(origin string) {
	qrDecodes.WithLabelValues(origin).Inc()
}

// RecordExtractionFailure records an extraction call that gave up.
func RecordExtractionFailure() {
	extractionFailures.Inc()
}

// RecordKeyRotation records a rate-limit driven key rotation.
func RecordKeyRotation() {
	keyRotations.Inc()
}

// RecordWinningLookup records an official result lookup outcome
// ("found", "not_found", "error").
func RecordWinningLookup(outcome string) {
	winningLookups.WithLabelValues(outcome).Inc()
}

// SetCachedVerdicts reports the current cache size.
func SetCachedVerdicts(n int) {
	cachedVerdicts.Set(float64(n))
}
