package run

// Step is one provisioning stage: a guard predicate deciding whether its
// goal state already holds, and a body of ordered sub-actions establishing
// it. Steps are defined in a fixed slice at pipeline-definition time and
// never persisted between runs; idempotency is re-derived from live system
// state on every run, not from a saved manifest.
type Step struct {
	// Name identifies the step in progress reports and log entries.
	Name string

	// Fatal marks a step whose failure must abort the whole pipeline via
	// the cleanup handler. Non-fatal steps log a warning and let the run
	// continue.
	Fatal bool

	// Guard reports whether the step's goal state already holds. It must
	// be side-effect-free. A nil guard means the step always runs. If the
	// probe itself errors, the orchestrator fails open toward "run" so the
	// step's own action surfaces the real problem instead of being
	// silently skipped.
	Guard func(c *Context) (bool, error)

	// Body performs the step's actions, in declaration order, through the
	// Executor.
	Body func(c *Context) error

	// OnSkip, when set, runs after the step is skipped as already
	// satisfied. Used for reporting only (e.g. printing the existing SSH
	// public key); it must not mutate system state.
	OnSkip func(c *Context)
}
