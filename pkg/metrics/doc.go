/*
Package metrics defines the Prometheus metrics vgctl records during a run.

vgctl is a short-lived command, not a daemon, so nothing is served over
HTTP. Instead every metric lives in a dedicated Registry and, when
metricsFile is set in the config, the whole registry is written after the
run in the text exposition format for the node_exporter textfile
collector:

	metricsFile: /var/lib/node_exporter/textfile/vgctl.prom

# Metrics

Run metrics:
  - vgctl_runs_total{mode, outcome}: mode is apply or check, outcome is
    changed, unchanged or failed
  - vgctl_run_duration_seconds{mode}
  - vgctl_last_run_timestamp_seconds
  - vgctl_last_run_changed: 1 when the last run changed, or in check mode
    would change, the system

Plan and action metrics:
  - vgctl_planned_actions{type}: size of the last plan per action type
  - vgctl_actions_total{type, result}: result is success or failure
  - vgctl_action_duration_seconds{type}

Inventory metrics:
  - vgctl_query_failures_total
  - vgctl_group_devices: members of the managed group before the run

# Timing

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.RunDuration, "apply")

The file is written through prometheus.WriteToTextfile, which renames a
temporary file into place so the collector never reads a partial write.
*/
package metrics
