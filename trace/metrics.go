// readtrace: tracing reads through RNA-seq read mapping pipelines.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/readtrace/blob/master/LICENSE.txt>.

package trace

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters about traced libraries on a private
// Prometheus registry. A nil *Metrics collects nothing.
type Metrics struct {
	registry  *prometheus.Registry
	reads     *prometheus.CounterVec
	libraries *prometheus.CounterVec
	duration  prometheus.Histogram
}

// Library outcomes, as used for the outcome label.
const (
	OutcomeTraced  = "traced"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// NewMetrics creates and registers the readtrace metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "readtrace",
			Name:      "reads_total",
			Help:      "Number of traced reads by library and final status",
		}, []string{"library", "status"}),
		libraries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "readtrace",
			Name:      "libraries_total",
			Help:      "Number of libraries by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "readtrace",
			Name:      "library_trace_seconds",
			Help:      "Time spent tracing one library",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
	}
	m.registry.MustRegister(m.reads, m.libraries, m.duration)
	return m
}

func (m *Metrics) observe(result *Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	switch {
	case result.Skipped:
		m.libraries.WithLabelValues(OutcomeSkipped).Inc()
		return
	case result.Err != nil:
		m.libraries.WithLabelValues(OutcomeFailed).Inc()
	default:
		m.libraries.WithLabelValues(OutcomeTraced).Inc()
		for status, n := range result.Summary.Histogram {
			m.reads.WithLabelValues(result.Library, Status(status).String()).Add(float64(n))
		}
	}
	m.duration.Observe(elapsed.Seconds())
}

// WriteFile writes the current metrics to the named file in the
// Prometheus text format.
func (m *Metrics) WriteFile(name string) error {
	return prometheus.WriteToTextfile(name, m.registry)
}
