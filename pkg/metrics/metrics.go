// Package metrics collects detection and suggestion counters for the planner.
//
// Exposed series:
//
//	capacity_conflicts_detected_total{kind}
//	capacity_suggestions_generated_total{kind}
//	capacity_ambiguous_deadlines_total
//	capacity_detection_duration_seconds{entry}
//
// A nil *Collector is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "capacity"

// Collector holds the planner's Prometheus instruments
type Collector struct {
	conflictsDetected    *prometheus.CounterVec
	suggestionsGenerated *prometheus.CounterVec
	ambiguousDeadlines   prometheus.Counter
	detectionDuration    *prometheus.HistogramVec
}

// NewCollector creates the instruments and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		conflictsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_detected_total",
			Help:      "Total number of conflicts detected, by kind",
		}, []string{"kind"}),
		suggestionsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_generated_total",
			Help:      "Total number of suggestions generated, by kind",
		}, []string{"kind"}),
		ambiguousDeadlines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ambiguous_deadlines_total",
			Help:      "Untimed allocations on the day of a timed deadline",
		}),
		detectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detection_duration_seconds",
			Help:      "Time spent in a detection entry point",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entry"}),
	}

	for _, collector := range []prometheus.Collector{
		c.conflictsDetected,
		c.suggestionsGenerated,
		c.ambiguousDeadlines,
		c.detectionDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

// RecordConflict counts one detected conflict of the given kind
func (c *Collector) RecordConflict(kind string) {
	if c == nil {
		return
	}
	c.conflictsDetected.WithLabelValues(kind).Inc()
}

// RecordSuggestion counts one generated suggestion of the given kind
func (c *Collector) RecordSuggestion(kind string) {
	if c == nil {
		return
	}
	c.suggestionsGenerated.WithLabelValues(kind).Inc()
}

// RecordAmbiguousDeadline counts one same-day deadline that could not be judged
func (c *Collector) RecordAmbiguousDeadline() {
	if c == nil {
		return
	}
	c.ambiguousDeadlines.Inc()
}

// ObserveDetection records how long an entry point ran since start
func (c *Collector) ObserveDetection(entry string, start time.Time) {
	if c == nil {
		return
	}
	c.detectionDuration.WithLabelValues(entry).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes everything gathered by g to path in the text exposition format,
// for pickup by a node_exporter textfile collector
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
