package steps

import (
	"fmt"
	"path/filepath"
	"time"

	"devstation/internal/config"
	"devstation/internal/run"
)

// runtimeInstallTimeout bounds the wait on a version manager compiling or
// downloading a runtime. Exceeding it fails the step instead of hanging.
const runtimeInstallTimeout = 10 * time.Minute

// shellMarker is the comment line that brackets the managed block in the
// shell startup file; its presence is the goal state of the shell step.
const shellMarker = "# managed by devstation"

// Setup builds the ordered setup pipeline. The order is a hard dependency
// chain (runtimes assume the package manager, identity assumes the
// version-control tool, applications assume the scratch/cleanup plumbing),
// so reordering is not a safe substitution.
func Setup(cfg config.Config, defaults config.Defaults) []run.Step {
	return []run.Step{
		packageManagerStep(cfg),
		basePackagesStep(cfg),
		identityStep(defaults),
		sshKeyStep(defaults),
		keyRegistrationStep(cfg),
		shellStep(cfg),
		runtimesStep(cfg),
		applicationsStep(cfg),
		settingsStep(cfg),
	}
}

// packageManagerStep bootstraps the host package manager. Everything after
// it assumes the manager is present, so its failure is fatal.
func packageManagerStep(cfg config.Config) run.Step {
	pm := cfg.PackageManager
	return run.Step{
		Name:  "package manager",
		Fatal: true,
		Guard: func(c *run.Context) (bool, error) {
			return binaryOnPath(pm.Command)
		},
		Body: func(c *run.Context) error {
			// The whole body is one action so a simulated run logs a single
			// would-execute line and never probes live state.
			return c.Exec.Run(c, run.Do(
				fmt.Sprintf("install package manager (%s)", pm.Command),
				func(c *run.Context) error {
					// The bootstrap script is fetched over the network; curl
					// is a precondition collaborator, queried through an
					// existence check, never assumed.
					if ok, _ := binaryOnPath("curl"); !ok {
						return fmt.Errorf("curl: %w", run.ErrPreconditionMissing)
					}
					return c.Exec.Run(c, run.Command(
						"run package manager install script",
						pm.Install[0], pm.Install[1:]...))
				}))
		},
	}
}

// basePackagesStep refreshes the package index and applies the package
// manifest. It always runs: the update is idempotent by nature and the
// bundle apply is a no-op for packages already present.
func basePackagesStep(cfg config.Config) run.Step {
	pm := cfg.PackageManager
	return run.Step{
		Name:  "base packages",
		Fatal: true,
		Body: func(c *run.Context) error {
			if err := c.Exec.Run(c, run.Command(
				"update package index",
				pm.Update[0], pm.Update[1:]...)); err != nil {
				return err
			}
			manifest := filepath.Join(c.Home, cfg.Manifest)
			args := append(append([]string{}, pm.Bundle[1:]...), manifest)
			return c.Exec.Run(c, run.Command(
				"apply package manifest",
				pm.Bundle[0], args...))
		},
	}
}

// shellStep appends the managed configuration block to the user's shell
// startup file. The marker comment makes the append idempotent.
func shellStep(cfg config.Config) run.Step {
	shell := cfg.Shell.Name
	if shell == "" {
		shell = detectShell()
	}
	rcFile := cfg.Shell.RCFile
	if rcFile == "" {
		rcFile = rcFileFor(shell)
	}
	return run.Step{
		Name: "shell configuration",
		Guard: func(c *run.Context) (bool, error) {
			return fileContainsLine(filepath.Join(c.Home, rcFile), shellMarker)
		},
		Body: func(c *run.Context) error {
			return c.Exec.Run(c, run.Do(
				fmt.Sprintf("configure %s startup file", shell),
				func(c *run.Context) error {
					lines := append([]string{shellMarker}, cfg.Shell.Lines...)
					return appendMissingLines(filepath.Join(c.Home, rcFile), lines)
				}))
		},
	}
}

// runtimesStep installs each configured language runtime through its
// version manager. Runtimes already resolving on the search path are
// skipped; an install that exceeds the bounded wait fails the step.
func runtimesStep(cfg config.Config) run.Step {
	return run.Step{
		Name: "language runtimes",
		Guard: func(c *run.Context) (bool, error) {
			for _, r := range cfg.Runtimes {
				if ok, _ := binaryOnPath(r.Language); !ok {
					return false, nil
				}
			}
			return true, nil
		},
		Body: func(c *run.Context) error {
			for _, r := range cfg.Runtimes {
				if ok, _ := binaryOnPath(r.Language); ok {
					c.Rec.Infof("%s already resolves on the search path. Skipping.", r.Language)
					continue
				}
				if err := c.Exec.Run(c, run.CommandTimeout(
					fmt.Sprintf("install %s %s", r.Language, r.Version),
					runtimeInstallTimeout,
					r.Install[0], r.Install[1:]...)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// settingsStep applies the final system-configuration keys with the host's
// preference tool.
func settingsStep(cfg config.Config) run.Step {
	return run.Step{
		Name: "system settings",
		Guard: func(c *run.Context) (bool, error) {
			return len(cfg.Settings) == 0, nil
		},
		Body: func(c *run.Context) error {
			for _, s := range cfg.Settings {
				args := []string{"write", s.Domain, s.Key}
				switch s.Type {
				case "bool":
					args = append(args, "-bool", s.Value)
				case "int":
					args = append(args, "-int", s.Value)
				case "float":
					args = append(args, "-float", s.Value)
				default:
					args = append(args, "-string", s.Value)
				}
				if err := c.Exec.Run(c, run.Command(
					fmt.Sprintf("apply setting %s:%s = %s", s.Domain, s.Key, s.Value),
					"defaults", args...)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
