package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Success(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo 'vg1;1;0'")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "vg1;1;0\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo partial; echo 'device busy' >&2; exit 5")
	require.NoError(t, err, "non-zero exit is reported in the result")
	assert.Equal(t, 5, res.ExitCode)
	assert.Equal(t, "partial\n", res.Stdout)
	assert.Equal(t, "device busy\n", res.Stderr)
}

func TestExecRunner_ArgumentsAreNotShellExpanded(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "echo", "/dev/disk/by-id/a b;$(id)")
	require.NoError(t, err)
	assert.Equal(t, "/dev/disk/by-id/a b;$(id)\n", res.Stdout)
}

func TestExecRunner_LocaleForced(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo $LC_ALL")
	require.NoError(t, err)
	assert.Equal(t, "C\n", res.Stdout)
}

func TestExecRunner_CommandNotFound(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "/nonexistent/vgs-binary")
	assert.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewExecRunner().WithTimeout(100 * time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), "sleep", "5")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
