package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/vgctl/pkg/lvmtest"
	"github.com/cuemby/vgctl/pkg/types"
)

func TestToolChecker_Healthy(t *testing.T) {
	fake := lvmtest.New()
	checker := NewToolChecker(fake, "vgs", "/usr/sbin/vgs")

	result := checker.Check(context.Background())

	if !result.Healthy {
		t.Errorf("Expected healthy, got unhealthy: %s", result.Message)
	}
	assert.Contains(t, result.Message, "LVM version")
	assert.Equal(t, CheckTypeTool, checker.Type())
	assert.Equal(t, [][]string{{"/usr/sbin/vgs", "--version"}}, fake.Calls())
}

func TestToolChecker_Failing(t *testing.T) {
	fake := lvmtest.New().Fail("vgremove", 127, "vgremove: command not found\n")
	checker := NewToolChecker(fake, "vgremove", "vgremove")

	result := checker.Check(context.Background())

	if result.Healthy {
		t.Errorf("Expected unhealthy, got healthy: %s", result.Message)
	}
	assert.Equal(t, "vgremove exited with code 127: vgremove: command not found", result.Message)
}

func TestToolChecker_NoPath(t *testing.T) {
	result := NewToolChecker(lvmtest.New(), "vgs", "").Check(context.Background())
	assert.False(t, result.Healthy)
}

func TestToolCheckersCoverEveryTool(t *testing.T) {
	fake := lvmtest.New().Fail("pvcreate", 1, "")
	checkers := ToolCheckers(fake, types.Tools{Vgs: "/opt/lvm/vgs"})
	require.Len(t, checkers, 7)

	report := Run(context.Background(), checkers...)
	require.Len(t, report.Results, 7)
	assert.False(t, report.Healthy())

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "pvcreate", failed[0].Name)
	assert.Equal(t, []string{"/opt/lvm/vgs", "--version"}, fake.Calls()[0])
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := Run(ctx, NewToolChecker(lvmtest.New(), "vgs", "vgs"))
	assert.Empty(t, report.Results)
	assert.True(t, report.Healthy())
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, NewDirChecker("metrics", dir).Check(context.Background()).Healthy)
	assert.False(t, NewDirChecker("metrics", file).Check(context.Background()).Healthy)
	assert.False(t, NewDirChecker("metrics", filepath.Join(dir, "missing")).Check(context.Background()).Healthy)
}
