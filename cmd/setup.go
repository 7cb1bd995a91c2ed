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

// dryRun switches the whole pipeline into simulated mode: every action is
// logged as "would execute" and nothing on the system changes.
var dryRun bool

// configPath holds the path to the optional catalogue YAML file. When the
// file is absent the built-in default catalogue is used.
var configPath string

// setupCmd provisions the workstation by walking the ordered setup
// pipeline.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision this workstation (toolchain, identity, shell, runtimes, apps)",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSetup(); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	setupCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log what would be done without changing anything")
	setupCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to catalogue file (built-in defaults when omitted)")
}

// runSetup wires the run context together and drives the orchestrator.
// All fatal-path handling (cleanup, non-zero exit) happens through the
// orchestrator and the interrupt handler; this function only reports the
// final outcome via its error.
func runSetup() error {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Error("[ERROR] Failed to resolve home directory: %v\n", err)
		return err
	}

	rec, err := logger.Open(filepath.Join(home, ".devstation"), "setup")
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		return err
	}
	defer rec.Close()

	cfg, err := config.Load(configPath)
	if err != nil {
		rec.Errorf("%v", err)
		return err
	}
	defaults := config.LoadDefaults(home)

	mode := run.Live
	if dryRun {
		mode = run.Simulated
	}

	cleanup := run.NewCleanup(rec)
	cleanup.Notify(os.Exit)

	ctx := &run.Context{
		Mode:    mode,
		Rec:     rec,
		Exec:    run.NewExecutor(mode),
		Ask:     prompt.NewAsker(rec),
		Cleanup: cleanup,
		Home:    home,
	}

	rec.Infof("starting setup (%s mode)", mode)
	var orch run.Orchestrator
	return orch.Run(ctx, steps.Setup(cfg, defaults))
}
