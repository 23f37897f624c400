package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeOK          = "ok"
	outcomeError       = "error"
	outcomeUnavailable = "unavailable"
	outcomeSkipped     = "skipped"
)

// Metrics counts shell operations by outcome.
type Metrics struct {
	connects  *prometheus.CounterVec
	plays     *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	inFlight  prometheus.Gauge
}

// NewMetrics registers the shell metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		connects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rps",
			Subsystem: "shell",
			Name:      "connects_total",
			Help:      "Wallet connect attempts by outcome",
		}, []string{"outcome"}),
		plays: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rps",
			Subsystem: "shell",
			Name:      "plays_total",
			Help:      "Move submissions by move and outcome",
		}, []string{"move", "outcome"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rps",
			Subsystem: "shell",
			Name:      "history_refreshes_total",
			Help:      "History fetches by outcome",
		}, []string{"outcome"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "rps",
			Subsystem: "shell",
			Name:      "plays_in_flight",
			Help:      "Move submissions waiting for confirmation",
		}),
	}
}

func (m *Metrics) connect(outcome string) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(outcome).Inc()
}

func (m *Metrics) play(move, outcome string) {
	if m == nil {
		return
	}
	m.plays.WithLabelValues(move, outcome).Inc()
}

func (m *Metrics) refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) addInFlight(delta float64) {
	if m == nil {
		return
	}
	m.inFlight.Add(delta)
}
