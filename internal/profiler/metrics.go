package profiler

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "argos"

// Metrics holds the Prometheus collectors of one simulator on a private
// registry.
type Metrics struct {
	registry     *prometheus.Registry
	ticks        prometheus.Counter
	resets       prometheus.Counter
	tickDuration prometheus.Histogram
	entities     prometheus.Gauge
	engines      *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks run.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "resets_total",
			Help:      "Total number of experiment resets.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one simulation tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "space",
			Name:      "entities",
			Help:      "Number of entities in the space.",
		}),
		engines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "physics",
			Name:      "engine_entities",
			Help:      "Number of entities housed by each physics engine.",
		}, []string{"engine"}),
	}
	m.registry.MustRegister(m.ticks, m.resets, m.tickDuration, m.entities, m.engines)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveTick(d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveReset() { m.resets.Inc() }

func (m *Metrics) SetEntities(n int) { m.entities.Set(float64(n)) }

func (m *Metrics) SetEngineEntities(engine string, n int) {
	m.engines.WithLabelValues(engine).Set(float64(n))
}
