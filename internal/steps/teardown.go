package steps

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devstation/internal/config"
	"devstation/internal/run"
)

// Category is one teardown unit: a description shown in the confirmation
// prompt and a removal routine. Removals must tolerate "already absent"
// (treated as success and logged informationally), which makes teardown
// itself idempotent.
type Category struct {
	Name   string
	Remove func(c *run.Context) error
}

// Teardown builds the removal categories in reverse dependency order:
// leaf consumers go first, the package manager they depend on goes last.
func Teardown(cfg config.Config) []Category {
	return []Category{
		{Name: "applications", Remove: removeApps(cfg)},
		{Name: "language runtimes", Remove: removeRuntimes(cfg)},
		{Name: "shell configuration", Remove: removeShellConfig(cfg)},
		{Name: "SSH key", Remove: removeSSHKey},
		{Name: "version-control identity", Remove: removeGitIdentity},
		{Name: "package manifest", Remove: removeManifestPackages(cfg)},
		{Name: "package manager", Remove: removePackageManager(cfg)},
	}
}

// RunTeardown walks the categories, asking for confirmation per category
// (auto-approved in force mode, with no blocking read). Removal failures
// are warnings, not aborts: a second run can pick up whatever is left.
func RunTeardown(c *run.Context, cats []Category, force bool) error {
	progress := run.Progress{Total: len(cats)}
	for _, cat := range cats {
		progress.Advance()
		c.Rec.Infof("[%s] %s", progress.String(), cat.Name)
		if !c.Ask.Confirm("Remove "+cat.Name+"?", force) {
			c.Rec.Infof("%s: skipped by user", cat.Name)
			continue
		}
		if err := cat.Remove(c); err != nil {
			c.Rec.Warnf("failed to remove %s: %v. Continuing.", cat.Name, err)
		}
	}
	c.Cleanup.Finish()
	c.Rec.Infof("teardown complete (%d categories)", len(cats))
	return nil
}

// removePath deletes a file or directory through the executor, logging
// "already absent" as success when there is nothing to do.
func removePath(c *run.Context, desc, path string) error {
	if ok, _ := fileExists(path); !ok {
		c.Rec.Infof("%s already absent", desc)
		return nil
	}
	return c.Exec.Run(c, run.Do("remove "+desc, func(*run.Context) error {
		return os.RemoveAll(path)
	}))
}

func removeApps(cfg config.Config) func(c *run.Context) error {
	return func(c *run.Context) error {
		for _, app := range cfg.Apps {
			if err := removePath(c, app.Name, appTarget(c, app)); err != nil {
				return err
			}
		}
		return nil
	}
}

func removeRuntimes(cfg config.Config) func(c *run.Context) error {
	return func(c *run.Context) error {
		for _, r := range cfg.Runtimes {
			if ok, _ := binaryOnPath(r.Language); !ok {
				c.Rec.Infof("%s already absent", r.Language)
				continue
			}
			if len(r.Remove) == 0 {
				c.Rec.Warnf("no removal command configured for %s. Skipping.", r.Language)
				continue
			}
			if err := c.Exec.Run(c, run.Command(
				fmt.Sprintf("remove %s %s", r.Language, r.Version),
				r.Remove[0], r.Remove[1:]...)); err != nil {
				return err
			}
		}
		return nil
	}
}

// removeShellConfig strips the managed block from the startup file by
// rewriting it without the marker and the configured lines.
func removeShellConfig(cfg config.Config) func(c *run.Context) error {
	return func(c *run.Context) error {
		shell := cfg.Shell.Name
		if shell == "" {
			shell = detectShell()
		}
		rcFile := cfg.Shell.RCFile
		if rcFile == "" {
			rcFile = rcFileFor(shell)
		}
		rcPath := filepath.Join(c.Home, rcFile)

		present, err := fileContainsLine(rcPath, shellMarker)
		if err == nil && !present {
			c.Rec.Infof("managed shell configuration already absent")
			return nil
		}
		return c.Exec.Run(c, run.Do("remove managed shell configuration", func(*run.Context) error {
			return stripLines(rcPath, append([]string{shellMarker}, cfg.Shell.Lines...))
		}))
	}
}

func removeSSHKey(c *run.Context) error {
	if err := removePath(c, "SSH private key", filepath.Join(c.Home, sshKeyFile)); err != nil {
		return err
	}
	return removePath(c, "SSH public key", filepath.Join(c.Home, sshKeyFile+".pub"))
}

func removeGitIdentity(c *run.Context) error {
	ok, err := gitIdentitySet(c.Home)
	if err == nil && !ok {
		c.Rec.Infof("version-control identity already absent")
		return nil
	}
	// --unset exits non-zero when the key is missing; run both halves and
	// treat either one as best effort.
	_ = c.Exec.Run(c, run.Command("unset git user.name",
		"git", "config", "--global", "--unset", "user.name"))
	_ = c.Exec.Run(c, run.Command("unset git user.email",
		"git", "config", "--global", "--unset", "user.email"))
	return nil
}

// removeManifestPackages uninstalls the packages named in the manifest and
// then deletes the manifest file itself. Runs before the package-manager
// removal, while the manager is still around to do the uninstalling.
func removeManifestPackages(cfg config.Config) func(c *run.Context) error {
	pm := cfg.PackageManager
	return func(c *run.Context) error {
		manifest := filepath.Join(c.Home, cfg.Manifest)
		if ok, _ := fileExists(manifest); !ok {
			c.Rec.Infof("package manifest already absent")
			return nil
		}
		names, err := manifestPackages(manifest)
		if err != nil {
			return err
		}
		if len(names) > 0 {
			if ok, _ := binaryOnPath(pm.Command); ok {
				args := append(append([]string{}, pm.Remove[1:]...), names...)
				if err := c.Exec.Run(c, run.Command(
					fmt.Sprintf("remove %d manifest packages", len(names)),
					pm.Remove[0], args...)); err != nil {
					return err
				}
			} else {
				c.Rec.Infof("package manager already absent. Skipping package removal.")
			}
		}
		return removePath(c, "package manifest", manifest)
	}
}

// manifestPackages extracts plain package names from a Brewfile-style
// manifest, lines of the form `brew "name"`. Taps and casks are left to
// the package manager's own uninstaller.
func manifestPackages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), `brew "`)
		if !ok {
			continue
		}
		if name, _, ok := strings.Cut(rest, `"`); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, scanner.Err()
}

func removePackageManager(cfg config.Config) func(c *run.Context) error {
	pm := cfg.PackageManager
	return func(c *run.Context) error {
		if ok, _ := binaryOnPath(pm.Command); !ok {
			c.Rec.Infof("package manager already absent")
			return nil
		}
		return c.Exec.Run(c, run.Command(
			fmt.Sprintf("remove package manager (%s)", pm.Command),
			pm.SelfDestruct[0], pm.SelfDestruct[1:]...))
	}
}
