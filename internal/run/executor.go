package run

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor is the single choke-point through which every effectful
// operation passes. It is the only component in the program that branches
// on the execution mode: in Simulated mode it logs what would happen and
// guarantees no filesystem, network, or process-state mutation occurs; in
// Live mode it performs the action, captures the outcome, logs it, and
// propagates failure to the caller.
type Executor struct {
	mode  Mode
	calls int
}

// NewExecutor returns an Executor for the given mode.
func NewExecutor(mode Mode) *Executor {
	return &Executor{mode: mode}
}

// Calls reports how many actions have been submitted so far. The
// orchestrator uses it for the end-of-run summary, and it doubles as the
// observable for idempotence: a skipped step contributes zero calls.
func (e *Executor) Calls() int {
	return e.calls
}

// Run executes one action according to the execution mode.
func (e *Executor) Run(c *Context, a Action) error {
	e.calls++

	if e.mode == Simulated {
		c.Rec.Infof("would execute: %s", a.Desc)
		return nil
	}

	if a.Fn != nil {
		if err := a.Fn(c); err != nil {
			c.Rec.Errorf("%s failed: %v", a.Desc, err)
			return fmt.Errorf("%s: %w", a.Desc, err)
		}
		c.Rec.Infof("%s", a.Desc)
		return nil
	}

	tctx := context.Background()
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(tctx, a.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(tctx, a.Program, a.Args...)

	c.Rec.Debugf("running command: %s", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			c.Rec.Errorf("%s did not finish within %s. Re-run setup once the underlying operation completes.", a.Desc, a.Timeout)
			return fmt.Errorf("%s: %w", a.Desc, ErrTimeout)
		}
		c.Rec.Errorf("%s failed: %v\nOutput: %s", a.Desc, err, output)
		return fmt.Errorf("%s: %w", a.Desc, err)
	}

	c.Rec.Infof("%s", a.Desc)
	return nil
}
