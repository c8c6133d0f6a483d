// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the Prometheus surface a Store reports through. A nil
// *Metrics is valid everywhere a Store accepts one: every method is a
// nil-receiver no-op, so instrumentation stays opt-in.
type Metrics struct {
	adds        prometheus.Counter
	removes     prometheus.Counter
	duplicates  prometheus.Counter
	notFound    prometheus.Counter
	validations *prometheus.CounterVec
	liveRecords *prometheus.GaugeVec
}

// NewMetrics builds and registers the Store's Prometheus collectors against
// reg. Passing prometheus.NewRegistry() keeps a Store's metrics isolated
// from the global registry, which is convenient for tests that create more
// than one Store.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		adds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pfxstore",
			Name:      "adds_total",
			Help:      "Number of PfxRecords successfully added.",
		}),
		removes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pfxstore",
			Name:      "removes_total",
			Help:      "Number of PfxRecords successfully removed, including via SourceRemove and Close.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pfxstore",
			Name:      "add_duplicates_total",
			Help:      "Number of Add calls rejected as duplicates.",
		}),
		notFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pfxstore",
			Name:      "remove_not_found_total",
			Help:      "Number of Remove calls for a record not present in the store.",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pfxstore",
			Name:      "validations_total",
			Help:      "Number of Validate calls by resulting state.",
		}, []string{"state"}),
		liveRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pfxstore",
			Name:      "live_records",
			Help:      "Current number of records held per IP version.",
		}, []string{"version"}),
	}
	reg.MustRegister(m.adds, m.removes, m.duplicates, m.notFound, m.validations, m.liveRecords)
	return m
}

func (m *Metrics) observeAdd() {
	if m == nil {
		return
	}
	m.adds.Inc()
}

func (m *Metrics) observeDuplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

func (m *Metrics) observeRemove() {
	if m == nil {
		return
	}
	m.removes.Inc()
}

func (m *Metrics) observeNotFound() {
	if m == nil {
		return
	}
	m.notFound.Inc()
}

func (m *Metrics) observeValidate(state State) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) setLiveRecords(v Version, n int) {
	if m == nil {
		return
	}
	m.liveRecords.WithLabelValues(v.String()).Set(float64(n))
}
