package run

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"devstation/internal/logger"
)

// Cleanup is the failure handler registered once at pipeline start. It is
// invoked on both the normal fatal-step return path and on asynchronous
// interrupt delivery, so it must be safe to invoke multiple times: every
// registered release runs at most once, and a second invocation of the
// whole handler is a no-op apart from logging.
type Cleanup struct {
	rec *logger.Recorder

	mu       sync.Mutex
	releases []*Release
	scratch  string
	reported bool
}

// Release is a handle to one registered transient resource. The normal
// code path and the interrupt path both call Release; whichever comes
// first wins and the other is a no-op.
type Release struct {
	desc string
	fn   func() error
	once sync.Once
	rec  *logger.Recorder
}

// Release releases the resource if it has not been released yet.
func (r *Release) Release() {
	r.once.Do(func() {
		if err := r.fn(); err != nil {
			r.rec.Warnf("failed to release %s: %v", r.desc, err)
			return
		}
		r.rec.Debugf("released %s", r.desc)
	})
}

// NewCleanup returns a cleanup handler writing through the given recorder.
func NewCleanup(rec *logger.Recorder) *Cleanup {
	return &Cleanup{rec: rec}
}

// Register adds a transient resource (e.g. a mounted disk image) acquired
// mid-pipeline. The returned handle lets the acquiring action release it
// on its normal path too.
func (c *Cleanup) Register(desc string, fn func() error) *Release {
	r := &Release{desc: desc, fn: fn, rec: c.rec}
	c.mu.Lock()
	c.releases = append(c.releases, r)
	c.mu.Unlock()
	return r
}

// SetScratch records the scratch directory of the current run for removal
// during cleanup.
func (c *Cleanup) SetScratch(dir string) {
	c.mu.Lock()
	c.scratch = dir
	c.mu.Unlock()
}

// Run releases all registered resources in reverse acquisition order,
// deletes the scratch directory, and writes a final failure entry to the
// run log. Re-entrant.
func (c *Cleanup) Run(reason string) {
	c.mu.Lock()
	releases := make([]*Release, len(c.releases))
	copy(releases, c.releases)
	scratch := c.scratch
	first := !c.reported
	c.reported = true
	c.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i].Release()
	}
	if scratch != "" {
		if err := os.RemoveAll(scratch); err != nil {
			c.rec.Warnf("failed to remove scratch directory %s: %v", scratch, err)
		}
	}
	if first {
		c.rec.Errorf("run aborted: %s", reason)
	}
}

// Finish removes the scratch directory after a successful run without
// writing a failure entry.
func (c *Cleanup) Finish() {
	c.mu.Lock()
	scratch := c.scratch
	c.scratch = ""
	c.mu.Unlock()
	if scratch != "" {
		_ = os.RemoveAll(scratch)
	}
}

// Notify installs the process-lifetime interrupt handler. An external
// interrupt at any suspension point (blocking read, external process wait,
// network call) routes here, runs cleanup, and exits through the supplied
// function with the conventional interrupted status.
func (c *Cleanup) Notify(exit func(code int)) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		c.Run("interrupted by signal " + sig.String())
		exit(130)
	}()
}
