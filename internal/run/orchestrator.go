package run

import "fmt"

// Orchestrator drives the ordered step pipeline. For each step in ordinal
// order it reports progress, consults the idempotency guard, skips with a
// success log when the goal state already holds, and otherwise runs the
// step's body through the Executor. Stage order is a hard dependency
// chain: a step's actions never begin before the previous step completed
// or was explicitly skipped as already satisfied.
type Orchestrator struct {
	progress Progress
}

// Run walks every step. Only two outcomes ever escape a step: continue to
// the next one, or abort the pipeline. A failing fatal step triggers the
// cleanup handler and returns the error; a failing non-fatal step is
// logged as a warning and the run continues.
func (o *Orchestrator) Run(c *Context, steps []Step) error {
	o.progress = Progress{Total: len(steps)}

	for _, s := range steps {
		o.progress.Advance()
		c.Rec.Infof("[%s] %s", o.progress.String(), s.Name)

		if o.satisfied(c, s) {
			c.Rec.Infof("%s: already satisfied. Skipping.", s.Name)
			if s.OnSkip != nil {
				s.OnSkip(c)
			}
			continue
		}

		if err := s.Body(c); err != nil {
			if s.Fatal {
				c.Rec.Errorf("%s failed: %v", s.Name, err)
				c.Cleanup.Run(fmt.Sprintf("fatal step %q failed", s.Name))
				return fmt.Errorf("step %s: %w", s.Name, err)
			}
			c.Rec.Warnf("%s failed: %v. Continuing with the next step.", s.Name, err)
		}
	}

	c.Cleanup.Finish()
	c.Rec.Infof("all %d steps complete (%d actions, %s mode)", len(steps), c.Exec.Calls(), c.Mode)
	return nil
}

// satisfied evaluates a step's guard, failing open toward "run" when the
// probe itself errors so the step's own action surfaces the real problem.
func (o *Orchestrator) satisfied(c *Context, s Step) bool {
	if s.Guard == nil {
		return false
	}
	ok, err := s.Guard(c)
	if err != nil {
		c.Rec.Debugf("guard probe for %s errored (%v), running the step", s.Name, err)
		return false
	}
	return ok
}
