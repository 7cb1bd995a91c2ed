package run

import (
	"fmt"
	"os"

	"devstation/internal/logger"
	"devstation/internal/prompt"
)

// Context carries everything a step needs to do its work: the execution
// mode, the run log, the executor, interactive input, and the cleanup
// registry. It is built once per run by the CLI layer and threaded
// explicitly through every component call; there is no ambient global
// state, which lets tests inject a fake context per test.
type Context struct {
	Mode    Mode
	Rec     *logger.Recorder
	Exec    *Executor
	Ask     *prompt.Asker
	Cleanup *Cleanup

	// Home is the user home directory all probes and file actions resolve
	// against. Injectable so tests can point it at a temp directory.
	Home string

	scratch string
}

// Scratch returns the per-run scratch directory, creating it on first use
// and registering its removal with the cleanup handler. Only action bodies
// call this, so in simulated mode (where bodies never run) no directory is
// ever created.
func (c *Context) Scratch() (string, error) {
	if c.scratch != "" {
		return c.scratch, nil
	}
	dir, err := os.MkdirTemp("", "devstation-")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	c.scratch = dir
	c.Cleanup.SetScratch(dir)
	return dir, nil
}
