package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuemby/vgctl/pkg/runner"
	"github.com/cuemby/vgctl/pkg/types"
)

// ToolChecker verifies an LVM binary can be run by invoking it with
// --version
type ToolChecker struct {
	// Name is the logical tool name, e.g. "vgcreate"
	Name string

	// Path is the binary actually run
	Path string

	Runner runner.Runner

	// Timeout is the command execution timeout (default: 10 seconds)
	Timeout time.Duration
}

// NewToolChecker creates a new tool checker
func NewToolChecker(r runner.Runner, name, path string) *ToolChecker {
	return &ToolChecker{
		Name:    name,
		Path:    path,
		Runner:  r,
		Timeout: 10 * time.Second,
	}
}

// ToolCheckers returns one checker per configured LVM tool
func ToolCheckers(r runner.Runner, tools types.Tools) []Checker {
	tools = tools.Merge(types.DefaultTools())
	return []Checker{
		NewToolChecker(r, "vgs", tools.Vgs),
		NewToolChecker(r, "pvs", tools.Pvs),
		NewToolChecker(r, "pvcreate", tools.Pvcreate),
		NewToolChecker(r, "vgcreate", tools.Vgcreate),
		NewToolChecker(r, "vgextend", tools.Vgextend),
		NewToolChecker(r, "vgreduce", tools.Vgreduce),
		NewToolChecker(r, "vgremove", tools.Vgremove),
	}
}

// Check performs the tool check
func (c *ToolChecker) Check(ctx context.Context) Result {
	start := time.Now()
	result := Result{Name: c.Name, Type: CheckTypeTool, CheckedAt: start}

	if c.Path == "" {
		result.Message = "no binary configured"
		result.Duration = time.Since(start)
		return result
	}

	execCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	res, err := c.Runner.Run(execCtx, c.Path, "--version")
	result.Duration = time.Since(start)

	switch {
	case err != nil:
		result.Message = fmt.Sprintf("%s: %v", c.Path, err)
	case res.ExitCode != 0:
		result.Message = fmt.Sprintf("%s exited with code %d", c.Path, res.ExitCode)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			result.Message = fmt.Sprintf("%s: %s", result.Message, stderr)
		}
	default:
		result.Healthy = true
		result.Message = firstLine(res.Stdout)
		if result.Message == "" {
			result.Message = c.Path
		}
	}
	return result
}

// Type returns the check type
func (c *ToolChecker) Type() CheckType {
	return CheckTypeTool
}

// WithTimeout sets the execution timeout
func (c *ToolChecker) WithTimeout(timeout time.Duration) *ToolChecker {
	c.Timeout = timeout
	return c
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 100 {
		s = s[:100] + "..."
	}
	return strings.TrimSpace(s)
}
