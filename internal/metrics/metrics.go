// Package metrics provides Prometheus metrics for vocseed runs.
// Runs are short-lived, so metrics are dumped to a textfile or pushed to a
// Pushgateway at the end of a command instead of being scraped.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the custom prometheus registry for vocseed.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// QuotaPlannedTotal is the target total of the most recent generated plan.
var QuotaPlannedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "vocseed",
	Name:      "quota_planned_total",
	Help:      "Target number of assignments in the most recently generated plan",
})

// QuotaDays is the number of days covered by the most recent plan.
var QuotaDays = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "vocseed",
	Name:      "quota_days",
	Help:      "Number of calendar days covered by the most recently generated plan",
})

// QuotaUnderflowTotal counts reconciliations that left a day with a negative count.
var QuotaUnderflowTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "vocseed",
	Name:      "quota_underflow_total",
	Help:      "Reconciliations that drove the adjusted day below zero",
})

// AssignmentsTotal counts dates handed out by the allocator.
var AssignmentsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "vocseed",
	Name:      "assignments_total",
	Help:      "Dates assigned from the daily quota",
})

// AllocationExhaustedTotal counts assign requests made after the quota ran out.
var AllocationExhaustedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "vocseed",
	Name:      "allocation_exhausted_total",
	Help:      "Assign requests rejected because no day had remaining quota",
})

// FilesTotal counts processed record files by command and outcome.
var FilesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vocseed",
	Name:      "files_total",
	Help:      "Record files processed, by command and outcome",
}, []string{"command", "outcome"})

// RecordsTotal counts records delivered to a sink, by sink and outcome.
var RecordsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vocseed",
	Name:      "records_total",
	Help:      "Records sent to a sink, by sink and outcome",
}, []string{"sink", "outcome"})

// SaveDurationSeconds tracks per-record save latency.
var SaveDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "vocseed",
	Name:      "save_duration_seconds",
	Help:      "Time taken to save one record",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
}, []string{"sink"})

// WriteTextfile writes the registry in text exposition format to path.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}

// Push sends the registry to a Pushgateway under the given job name.
func Push(url, job string) error {
	if err := push.New(url, job).Gatherer(Registry).Push(); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
