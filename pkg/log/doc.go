/*
Package log provides structured logging for vgctl using zerolog.

The package wraps zerolog with a global logger, a one-call Init for level and
format selection, and helpers that derive child loggers carrying the fields
vgctl components log with.

# Configuration

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,
		Output:     os.Stderr,
	})

Logs go to stderr by default. Stdout is reserved for command output such as
plans and inventory tables so it can be piped.

Log Levels:
  - debug: every external command with its arguments and exit code
  - info: plans, applied actions, run summaries
  - warn: simulation runs that found pending changes
  - error: failed queries and failed actions

# Context Loggers

	logger := log.WithComponent("executor")
	logger.Debug().Strs("argv", argv).Msg("running command")

	logger := log.WithGroup("vg_data").With().Str("run_id", runID).Logger()
	logger.Info().Bool("changed", true).Msg("reconciliation complete")

Available helpers:
  - WithComponent: component field (inventory, planner, history, ...)
  - WithGroup: volume_group field, used by every logger inside a run

# Output Examples

JSON:

	{"level":"info","component":"executor","action":"CreateDevice(/dev/sdb1)","time":"2026-10-16T09:12:44Z","message":"action applied"}

Console:

	2026-10-16T09:12:44Z INF action applied action=CreateDevice(/dev/sdb1) component=executor
*/
package log
