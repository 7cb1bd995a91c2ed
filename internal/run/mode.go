package run

// Mode is the process-wide execution mode. It is set once at startup from
// the command-line flags and never changes mid-run. Only the Executor is
// allowed to branch on it; every other component stays mode-agnostic so
// that dry-run behavior is correct by construction for any future step.
type Mode int

const (
	// Live performs every action against the real system.
	Live Mode = iota

	// Simulated logs what each action would do and performs nothing.
	Simulated
)

func (m Mode) String() string {
	if m == Simulated {
		return "simulated"
	}
	return "live"
}
