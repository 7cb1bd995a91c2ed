package run

import "errors"

// ErrPreconditionMissing marks a required external tool that is absent from
// the host. Steps wrap it with context; the pipeline aborts when a fatal
// step surfaces it.
var ErrPreconditionMissing = errors.New("required tool not found")

// ErrTimeout marks a bounded wait on an external long-running operation
// that exceeded its deadline. The owning step fails rather than hang.
var ErrTimeout = errors.New("timed out waiting for external operation")
