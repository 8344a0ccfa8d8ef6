package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/vgctl/pkg/config"
	"github.com/cuemby/vgctl/pkg/log"
	"github.com/cuemby/vgctl/pkg/runner"
	"github.com/cuemby/vgctl/pkg/validate"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	// appConfig is loaded once per invocation by the root pre-run hook
	appConfig = config.Default()

	// newRunner and newProber are replaced in tests
	newRunner = func(cfg *config.Config) runner.Runner {
		return runner.NewExecRunner().WithTimeout(cfg.CommandTimeout)
	}
	newProber = func() validate.Prober {
		return validate.OSProber{}
	}
)

// exitError carries a process exit code other than 1
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
			}
			stop()
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vgctl",
	Short: "vgctl - declarative LVM volume group management",
	Long: `vgctl converges an LVM volume group to a declared state.

It reads the current groups and physical volumes, computes the minimal
set of pvcreate, vgcreate, vgextend, vgreduce and vgremove calls that
close the gap, and runs them in order. Running it again on a converged
system changes nothing.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"vgctl version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "", "Config file (YAML or TOML), defaults to "+config.DefaultConfigPath+" when present")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
}

// loadConfig reads the config file and applies flag overrides before
// initializing the logger
func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		if !log.ValidLevel(level) {
			return fmt.Errorf("unknown log level %q", level)
		}
		cfg.LogLevel = level
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.JSONLogs, _ = cmd.Flags().GetBool("json-logs")
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.JSONLogs,
		Output:     cmd.ErrOrStderr(),
	})
	appConfig = cfg
	return nil
}
