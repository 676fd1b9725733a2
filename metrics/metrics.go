// Package metrics exports simulation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives per-tick simulation measurements.
type Recorder interface {
	Tick(bodies int, d time.Duration)
	Collision(kind string)
	Death()
	Warp(target string)
}

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	ticks       prometheus.Counter
	bodies      prometheus.Gauge
	tickSeconds prometheus.Histogram
	collisions  *prometheus.CounterVec
	deaths      prometheus.Counter
	warps       *prometheus.CounterVec
}

// NewPrometheus creates the collectors under namespace and registers them
// with reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	p := &Prometheus{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks run.",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bodies",
			Help:      "Bodies moved from the top level in the last tick.",
		}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one simulation tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Collision events by kind.",
		}, []string{"kind"}),
		deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Death requests raised.",
		}),
		warps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warps_total",
			Help:      "Level change requests by target level.",
		}, []string{"target"}),
	}
	reg.MustRegister(p.ticks, p.bodies, p.tickSeconds, p.collisions, p.deaths, p.warps)
	return p
}

func (p *Prometheus) Tick(bodies int, d time.Duration) {
	p.ticks.Inc()
	p.bodies.Set(float64(bodies))
	p.tickSeconds.Observe(d.Seconds())
}

func (p *Prometheus) Collision(kind string) {
	p.collisions.WithLabelValues(kind).Inc()
}

func (p *Prometheus) Death() {
	p.deaths.Inc()
}

func (p *Prometheus) Warp(target string) {
	p.warps.WithLabelValues(target).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) Tick(int, time.Duration) {}
func (Nop) Collision(string)        {}
func (Nop) Death()                  {}
func (Nop) Warp(string)             {}
