// Package metrics exposes Prometheus counters and gauges for the decode
// pipeline, styled on prometheus.go's promauto-based GaugeVec/CounterVec
// registration idiom — mode/band-labeled decode and SNR metrics rather than
// the teacher's full web-session/websocket/space-weather surface, which
// spec.md's Non-goals exclude.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decoder holds the Prometheus collectors for one running process; every
// band/mode combination shares the same collectors via label values.
type Decoder struct {
	decodesTotal   *prometheus.CounterVec
	spotsReported  *prometheus.CounterVec
	reportErrors   *prometheus.CounterVec
	lastSNR        *prometheus.GaugeVec
	windowsDropped *prometheus.CounterVec
	decodeDuration *prometheus.HistogramVec
}

// NewDecoder registers decode-pipeline metrics with the default registry,
// matching NewPrometheusMetrics's promauto-at-construction pattern.
func NewDecoder() *Decoder {
	return &Decoder{
		decodesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wsprft8_decodes_total",
				Help: "Total number of raw decode attempts that passed FEC/CRC validation",
			},
			[]string{"mode", "band"},
		),
		spotsReported: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wsprft8_spots_reported_total",
				Help: "Total number of deduplicated spots handed to a reporter",
			},
			[]string{"mode", "band"},
		),
		reportErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wsprft8_report_errors_total",
				Help: "Total number of reporter submission failures",
			},
			[]string{"mode", "band", "reporter"},
		),
		lastSNR: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wsprft8_last_snr_db",
				Help: "SNR in dB of the most recently reported spot",
			},
			[]string{"mode", "band"},
		),
		windowsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wsprft8_windows_dropped_total",
				Help: "Total number of captured windows dropped because the decode worker was still busy",
			},
			[]string{"band"},
		),
		decodeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wsprft8_decode_duration_seconds",
				Help:    "Wall-clock duration of a single window decode pass",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 60},
			},
			[]string{"mode", "band"},
		),
	}
}

// RecordDecode records one successfully validated decode.
func (d *Decoder) RecordDecode(mode, band string) {
	if d == nil {
		return
	}
	d.decodesTotal.WithLabelValues(mode, band).Inc()
}

// RecordSpot records one spot handed to a reporter, along with its SNR.
func (d *Decoder) RecordSpot(mode, band string, snrDB float64) {
	if d == nil {
		return
	}
	d.spotsReported.WithLabelValues(mode, band).Inc()
	d.lastSNR.WithLabelValues(mode, band).Set(snrDB)
}

// RecordReportError records a failed reporter submission.
func (d *Decoder) RecordReportError(mode, band, reporter string) {
	if d == nil {
		return
	}
	d.reportErrors.WithLabelValues(mode, band, reporter).Inc()
}

// RecordWindowDropped records a captured window dropped due to backpressure.
func (d *Decoder) RecordWindowDropped(band string) {
	if d == nil {
		return
	}
	d.windowsDropped.WithLabelValues(band).Inc()
}

// RecordDecodeDuration records how long one decode pass took.
func (d *Decoder) RecordDecodeDuration(mode, band string, seconds float64) {
	if d == nil {
		return
	}
	d.decodeDuration.WithLabelValues(mode, band).Observe(seconds)
}

// Handler returns the standard Prometheus scrape handler, for wiring into
// an http.ServeMux at the configured listen address.
func Handler() http.Handler {
	return promhttp.Handler()
}
