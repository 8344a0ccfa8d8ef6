/*
Package health provides the preflight checks behind "vgctl doctor".

A check answers one question about the host before any reconciliation is
attempted: can each configured LVM binary be run, and do the directories
vgctl writes into exist.

	report := health.Run(ctx, health.ToolCheckers(r, cfg.Tools)...)
	if !report.Healthy() {
		for _, res := range report.Failed() {
			fmt.Println(res.Name, res.Message)
		}
	}

Tool checks go through runner.Runner, so they honor the same command
timeout and environment as the reconciler and can be exercised against
lvmtest.FakeLVM.
*/
package health
