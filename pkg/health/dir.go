package health

import (
	"context"
	"fmt"
	"os"
	"time"
)

// DirChecker verifies that a directory vgctl writes into exists
type DirChecker struct {
	Name string
	Path string
}

// NewDirChecker creates a new directory checker
func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{Name: name, Path: path}
}

// Check performs the directory check
func (c *DirChecker) Check(ctx context.Context) Result {
	start := time.Now()
	result := Result{Name: c.Name, Type: CheckTypeDir, CheckedAt: start}

	info, err := os.Stat(c.Path)
	result.Duration = time.Since(start)
	switch {
	case err != nil:
		result.Message = err.Error()
	case !info.IsDir():
		result.Message = fmt.Sprintf("%s is not a directory", c.Path)
	default:
		result.Healthy = true
		result.Message = c.Path
	}
	return result
}

// Type returns the check type
func (c *DirChecker) Type() CheckType {
	return CheckTypeDir
}
