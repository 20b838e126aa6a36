package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smc_bot_cycles_total",
			Help: "Total number of evaluation cycles completed",
		},
	)

	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smc_bot_signals_total",
			Help: "Total number of trade plans dispatched",
		},
		[]string{"symbol", "direction"},
	)

	skipsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smc_bot_skips_total",
			Help: "Instrument cycles skipped, by reason",
		},
		[]string{"symbol", "reason"},
	)

	lastConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smc_bot_last_confidence",
			Help: "Confidence of the last dispatched signal per symbol",
		},
		[]string{"symbol"},
	)

	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smc_bot_current_price",
			Help: "Last observed close price per symbol",
		},
		[]string{"symbol"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smc_bot_errors_total",
			Help: "Total number of errors, by source",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(cyclesTotal)
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(skipsTotal)
	prometheus.MustRegister(lastConfidence)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordCycle counts a completed evaluation cycle.
func RecordCycle() {
	cyclesTotal.Inc()
}

// RecordSignal counts a dispatched plan and tracks its confidence.
func RecordSignal(symbol, direction string, confidence float64) {
	signalsTotal.WithLabelValues(symbol, direction).Inc()
	lastConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordSkip counts a skipped instrument cycle.
func RecordSkip(symbol, reason string) {
	skipsTotal.WithLabelValues(symbol, reason).Inc()
}

// UpdatePrice updates the last observed price.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordError counts an error by source.
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
