package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"devstation/internal/config"
	"devstation/internal/logger"
	"devstation/internal/prompt"
	"devstation/internal/run"
	"devstation/internal/steps"
)

// force auto-approves every teardown confirmation, so the command runs
// without a single blocking read.
var force bool

// teardownConfigPath mirrors the setup --config flag for the teardown
// command (flags are per-command in cobra).
var teardownConfigPath string

// teardownCmd removes what setup established, in reverse dependency
// order, asking for confirmation per category.
var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "De-provision this workstation (reverse of setup, confirmation-gated)",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTeardown(); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	teardownCmd.Flags().BoolVar(&force, "force", false, "Auto-confirm every removal (non-interactive)")
	teardownCmd.Flags().StringVarP(&teardownConfigPath, "config", "c", "", "Path to catalogue file (built-in defaults when omitted)")
}

func runTeardown() error {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Error("[ERROR] Failed to resolve home directory: %v\n", err)
		return err
	}

	rec, err := logger.Open(filepath.Join(home, ".devstation"), "teardown")
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		return err
	}
	defer rec.Close()

	cfg, err := config.Load(teardownConfigPath)
	if err != nil {
		rec.Errorf("%v", err)
		return err
	}

	cleanup := run.NewCleanup(rec)
	cleanup.Notify(os.Exit)

	ctx := &run.Context{
		Mode:    run.Live,
		Rec:     rec,
		Exec:    run.NewExecutor(run.Live),
		Ask:     prompt.NewAsker(rec),
		Cleanup: cleanup,
		Home:    home,
	}

	rec.Infof("starting teardown (force=%v)", force)
	return steps.RunTeardown(ctx, steps.Teardown(cfg), force)
}
