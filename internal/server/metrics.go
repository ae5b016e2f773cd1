package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EmuxEvans/mbed-ls/internal/version"
)

type metrics struct {
	reg          *prometheus.Registry
	detected     prometheus.Gauge
	enumerations *prometheus.CounterVec
	latency      prometheus.Histogram
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		reg: reg,
		detected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mbedls_boards_detected",
			Help: "Number of boards found by the last successful enumeration.",
		}),
		enumerations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mbedls_enumerations_total",
				Help: "Total number of enumerations by result.",
			},
			[]string{"result"},
		),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mbedls_enumerate_duration_seconds",
			Help:    "Latency of board enumeration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mbedls_build_info",
		Help:        "Build info of mbedls.",
		ConstLabels: prometheus.Labels{"version": version.Version},
	})

	_ = reg.Register(m.detected)
	_ = reg.Register(m.enumerations)
	_ = reg.Register(m.latency)
	_ = reg.Register(buildInfo)
	buildInfo.Set(1)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *metrics) observe(d time.Duration, n int, err error) {
	m.latency.Observe(d.Seconds())
	if err != nil {
		m.enumerations.WithLabelValues("error").Inc()
		return
	}
	m.enumerations.WithLabelValues("ok").Inc()
	m.detected.Set(float64(n))
}
