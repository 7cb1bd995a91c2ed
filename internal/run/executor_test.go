package run

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"devstation/internal/logger"
)

func testContext(mode Mode) (*Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	rec := logger.NewRecorder(buf, false)
	return &Context{
		Mode:    mode,
		Rec:     rec,
		Exec:    NewExecutor(mode),
		Cleanup: NewCleanup(rec),
		Home:    "/nonexistent",
	}, buf
}

func TestSimulatedFnNeverInvoked(t *testing.T) {
	c, buf := testContext(Simulated)

	ran := false
	err := c.Exec.Run(c, Do("write the flag file", func(*Context) error {
		ran = true
		return nil
	}))
	if err != nil {
		t.Fatalf("simulated run returned error: %v", err)
	}
	if ran {
		t.Fatal("action function ran in simulated mode")
	}
	if !strings.Contains(buf.String(), "would execute: write the flag file") {
		t.Fatalf("missing would-execute entry, log: %s", buf.String())
	}
}

func TestSimulatedCommandNeverSpawned(t *testing.T) {
	c, buf := testContext(Simulated)

	// A binary that cannot exist: if the executor tried to spawn it, the
	// run would fail.
	err := c.Exec.Run(c, Command("update package index", "definitely-not-a-real-binary-zz"))
	if err != nil {
		t.Fatalf("simulated run returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "would execute: update package index") {
		t.Fatalf("missing would-execute entry, log: %s", buf.String())
	}
}

func TestLiveCommandSuccess(t *testing.T) {
	c, buf := testContext(Live)

	if err := c.Exec.Run(c, Command("no-op command", "true")); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(buf.String(), "no-op command") {
		t.Fatalf("missing success entry, log: %s", buf.String())
	}
}

func TestLiveCommandFailurePropagates(t *testing.T) {
	c, buf := testContext(Live)

	err := c.Exec.Run(c, Command("failing command", "false"))
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Fatalf("failure was not logged as an error, log: %s", buf.String())
	}
}

func TestLiveFnErrorPropagates(t *testing.T) {
	c, _ := testContext(Live)

	boom := errors.New("disk full")
	err := c.Exec.Run(c, Do("write config", func(*Context) error { return boom }))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped action error, got %v", err)
	}
}

func TestCommandTimeout(t *testing.T) {
	c, _ := testContext(Live)

	err := c.Exec.Run(c, CommandTimeout("slow operation", 100*time.Millisecond, "sleep", "5"))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCallsCounter(t *testing.T) {
	c, _ := testContext(Simulated)

	if c.Exec.Calls() != 0 {
		t.Fatalf("fresh executor reports %d calls", c.Exec.Calls())
	}
	_ = c.Exec.Run(c, Command("one", "true"))
	_ = c.Exec.Run(c, Command("two", "true"))
	if c.Exec.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", c.Exec.Calls())
	}
}
