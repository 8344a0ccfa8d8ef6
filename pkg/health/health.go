package health

import (
	"context"
	"time"
)

// CheckType represents the type of preflight check
type CheckType string

const (
	CheckTypeTool CheckType = "tool"
	CheckTypeDir  CheckType = "dir"
)

// Result represents the outcome of one check
type Result struct {
	Name      string        `json:"name" yaml:"name"`
	Type      CheckType     `json:"type" yaml:"type"`
	Healthy   bool          `json:"healthy" yaml:"healthy"`
	Message   string        `json:"message" yaml:"message"`
	CheckedAt time.Time     `json:"checkedAt" yaml:"checkedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Checker is the interface that all checkers must implement
type Checker interface {
	// Check performs the check and returns the result
	Check(ctx context.Context) Result

	// Type returns the type of check
	Type() CheckType
}

// Report collects the results of a set of checks, in the order they ran
type Report struct {
	Results []Result `json:"results" yaml:"results"`
}

// Healthy reports whether every check passed
func (r Report) Healthy() bool {
	for _, res := range r.Results {
		if !res.Healthy {
			return false
		}
	}
	return true
}

// Failed returns the results of the checks that did not pass
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Healthy {
			failed = append(failed, res)
		}
	}
	return failed
}

// Run performs every check sequentially. A cancelled context stops the
// remaining checks from running.
func Run(ctx context.Context, checkers ...Checker) Report {
	report := Report{Results: make([]Result, 0, len(checkers))}
	for _, c := range checkers {
		if ctx.Err() != nil {
			break
		}
		report.Results = append(report.Results, c.Check(ctx))
	}
	return report
}
