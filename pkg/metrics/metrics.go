package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Run metrics
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vgctl_runs_total",
			Help: "Total number of reconciliation runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vgctl_run_duration_seconds",
			Help:    "Reconciliation run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vgctl_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		},
	)

	LastRunChanged = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vgctl_last_run_changed",
			Help: "Whether the last run changed (or would change) the system (1 = changed)",
		},
	)

	// Plan metrics
	PlannedActions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vgctl_planned_actions",
			Help: "Number of actions in the last plan by action type",
		},
		[]string{"type"},
	)

	// Action metrics
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vgctl_actions_total",
			Help: "Total number of executed actions by type and result",
		},
		[]string{"type", "result"},
	)

	ActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vgctl_action_duration_seconds",
			Help:    "Duration of executed actions in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	// Inventory metrics
	QueryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vgctl_query_failures_total",
			Help: "Total number of failed inventory queries",
		},
	)

	GroupDevices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vgctl_group_devices",
			Help: "Devices in the managed group as last observed",
		},
	)
)

// Registry holds every vgctl metric. It is separate from the default
// registry so textfile exports carry no Go runtime series.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(RunsTotal)
	Registry.MustRegister(RunDuration)
	Registry.MustRegister(LastRunTimestamp)
	Registry.MustRegister(LastRunChanged)
	Registry.MustRegister(PlannedActions)
	Registry.MustRegister(ActionsTotal)
	Registry.MustRegister(ActionDuration)
	Registry.MustRegister(QueryFailuresTotal)
	Registry.MustRegister(GroupDevices)
}

// WriteTextfile writes all vgctl metrics in the Prometheus text format,
// for the node_exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
