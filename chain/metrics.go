// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the prometheus-backed observability surface for a Chain,
// grounded on the teacher's per-component metrics struct (e.g.
// protocol/nova's novaMetrics): a small set of gauges/counters
// registered once at construction.
type Metrics struct {
	accumulatorSize prometheus.Gauge
	transitions     *prometheus.CounterVec
	neighbourCount  prometheus.Gauge
}

// NewMetrics builds and registers a Chain's metrics against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		accumulatorSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sectionchain_accumulator_size",
			Help: "Number of distinct events currently pending in the accumulator",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionchain_transitions_total",
			Help: "Number of accumulated transitions applied, by event kind",
		}, []string{"kind"}),
		neighbourCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sectionchain_neighbour_sections",
			Help: "Number of neighbour sections currently tracked",
		}),
	}

	for _, c := range []prometheus.Collector{m.accumulatorSize, m.transitions, m.neighbourCount} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveAccumulatorSize records the current accumulator entry count.
func (m *Metrics) ObserveAccumulatorSize(n int) {
	if m == nil {
		return
	}
	m.accumulatorSize.Set(float64(n))
}

// IncTransitions bumps the per-kind transition counter.
func (m *Metrics) IncTransitions(kind string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind).Inc()
}

// ObserveNeighbourCount records the current neighbour-section count.
func (m *Metrics) ObserveNeighbourCount(n int) {
	if m == nil {
		return
	}
	m.neighbourCount.Set(float64(n))
}
