package steps

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"devstation/internal/config"
	"devstation/internal/run"
)

// applicationsStep downloads and installs each configured application:
// disk images are mounted, copied, and detached; archives are extracted in
// place. A mounted image is registered with the cleanup handler the moment
// it is attached, so an interrupt mid-copy still detaches it.
func applicationsStep(cfg config.Config) run.Step {
	return run.Step{
		Name: "applications",
		Guard: func(c *run.Context) (bool, error) {
			for _, app := range cfg.Apps {
				if ok, _ := fileExists(appTarget(c, app)); !ok {
					return false, nil
				}
			}
			return true, nil
		},
		Body: func(c *run.Context) error {
			for _, app := range cfg.Apps {
				if ok, _ := fileExists(appTarget(c, app)); ok {
					c.Rec.Infof("%s already installed. Skipping.", app.Name)
					continue
				}
				app := app
				if err := c.Exec.Run(c, run.Do(
					fmt.Sprintf("download and install %s", app.Name),
					func(c *run.Context) error { return installApp(c, app) })); err != nil {
					// Application installs are independent of one another;
					// one failure should not block the rest.
					c.Rec.Warnf("failed to install %s: %v", app.Name, err)
				}
			}
			return nil
		},
	}
}

// appTarget is the path whose existence is the goal state for one app.
func appTarget(c *run.Context, app config.App) string {
	dir := app.InstallDir
	if dir == "" {
		dir = filepath.Join(c.Home, "Applications")
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Home, dir)
	}
	return filepath.Join(dir, app.Name)
}

// installApp downloads one application into the scratch directory and
// installs it at its target path.
func installApp(c *run.Context, app config.App) error {
	scratch, err := c.Scratch()
	if err != nil {
		return err
	}
	archive := filepath.Join(scratch, path.Base(app.URL))
	if err := downloadFile(c.Rec, app.URL, archive); err != nil {
		return err
	}
	if app.DiskImage {
		return installFromDiskImage(c, app, archive)
	}
	return installFromArchive(c, app, archive)
}

// installFromArchive extracts the archive next to the target and renames
// the top-level entry to the app name.
func installFromArchive(c *run.Context, app config.App, archive string) error {
	target := appTarget(c, app)
	destDir := filepath.Dir(target)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}
	extracted, err := extractArchive(archive, destDir)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", app.Name, err)
	}
	if extracted != target {
		if err := os.Rename(extracted, target); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", app.Name, err)
		}
	}
	return nil
}

// installFromDiskImage mounts the image, copies the payload to the target,
// and detaches. The detach is registered as a cleanup release first, so
// both the normal path and an interrupt release the mount exactly once.
func installFromDiskImage(c *run.Context, app config.App, image string) error {
	mountPoint := filepath.Join(filepath.Dir(image), "mnt-"+app.Name)
	attach := exec.Command("hdiutil", "attach", image, "-mountpoint", mountPoint, "-nobrowse", "-quiet")
	c.Rec.Debugf("running command: %s", strings.Join(attach.Args, " "))
	if output, err := attach.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to mount %s: %v\nOutput: %s", app.Name, err, output)
	}

	detach := c.Cleanup.Register("disk image mount for "+app.Name, func() error {
		return exec.Command("hdiutil", "detach", mountPoint, "-quiet").Run()
	})
	defer detach.Release()

	payload := filepath.Join(mountPoint, app.Name)
	if ok, _ := fileExists(payload); !ok {
		return fmt.Errorf("payload %s not found in mounted image", app.Name)
	}
	target := appTarget(c, app)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}
	cp := exec.Command("cp", "-R", payload, target)
	c.Rec.Debugf("running command: %s", strings.Join(cp.Args, " "))
	if output, err := cp.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to copy %s: %v\nOutput: %s", app.Name, err, output)
	}
	return nil
}
