package steps

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devstation/internal/config"
	"devstation/internal/logger"
	"devstation/internal/prompt"
	"devstation/internal/run"
)

// scriptedReader feeds canned prompt answers.
type scriptedReader struct {
	lines []string
	reads int
}

func (r *scriptedReader) ReadLine(label string) (string, error) {
	if r.reads >= len(r.lines) {
		return "", errors.New("script exhausted")
	}
	line := r.lines[r.reads]
	r.reads++
	return line, nil
}

// failingReader fails the test if anything tries a blocking read.
type failingReader struct{ t *testing.T }

func (r failingReader) ReadLine(label string) (string, error) {
	r.t.Fatalf("blocking read attempted: %q", label)
	return "", nil
}

func newTestContext(t *testing.T, mode run.Mode, in prompt.LineReader) (*run.Context, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	rec := logger.NewRecorder(buf, false)
	return &run.Context{
		Mode:    mode,
		Rec:     rec,
		Exec:    run.NewExecutor(mode),
		Ask:     &prompt.Asker{Rec: rec, In: in},
		Cleanup: run.NewCleanup(rec),
		Home:    t.TempDir(),
	}, buf
}

// A dry run of the whole pipeline must log one would-execute line per
// pending action, block on nothing, spawn nothing, and leave the home
// directory untouched.
func TestDryRunPipeline(t *testing.T) {
	c, buf := newTestContext(t, run.Simulated, failingReader{t})
	cfg := config.DefaultConfig()

	var orch run.Orchestrator
	if err := orch.Run(c, Setup(cfg, config.Defaults{})); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	log := buf.String()
	for _, want := range []string{
		"would execute: update package index",
		"would execute: apply package manifest",
		"would execute: configure version-control identity",
		"would execute: generate SSH key pair",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("missing %q in dry-run log:\n%s", want, log)
		}
	}

	entries, err := os.ReadDir(c.Home)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run touched the filesystem: %v", entries)
	}
}

// A dry run must succeed even on a host missing every external tool: with
// an empty PATH the package-manager step reports its pending install
// instead of failing on the absent curl.
func TestDryRunSucceedsWithoutExternalTools(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	c, buf := newTestContext(t, run.Simulated, failingReader{t})
	cfg := config.DefaultConfig()

	var orch run.Orchestrator
	if err := orch.Run(c, Setup(cfg, config.Defaults{})); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "would execute: install package manager") {
		t.Fatalf("pending install missing from dry-run log:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "[ERROR]") {
		t.Fatalf("dry run logged an error:\n%s", buf.String())
	}
}

// With an existing key pair the SSH step performs zero executor calls and
// still reports the existing public key.
func TestExistingSSHKeySkipsGeneration(t *testing.T) {
	c, buf := newTestContext(t, run.Live, failingReader{t})

	sshDir := filepath.Join(c.Home, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sshDir, "id_ed25519"), []byte("PRIVATE"), 0600); err != nil {
		t.Fatal(err)
	}
	pub := "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAA jane@example.com"
	if err := os.WriteFile(filepath.Join(sshDir, "id_ed25519.pub"), []byte(pub+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var orch run.Orchestrator
	if err := orch.Run(c, []run.Step{sshKeyStep(config.Defaults{})}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Exec.Calls() != 0 {
		t.Fatalf("expected zero executor calls, got %d", c.Exec.Calls())
	}
	if !strings.Contains(buf.String(), pub) {
		t.Fatalf("existing public key not printed, log:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "already satisfied") {
		t.Fatalf("skip not logged, log:\n%s", buf.String())
	}
}

// Three invalid email answers exhaust the retry budget; the identity step
// is fatal, so the pipeline aborts before any later step runs.
func TestIdentityPromptExhaustionAbortsPipeline(t *testing.T) {
	in := &scriptedReader{lines: []string{"Jane Doe", "not-an-email", "not-an-email", "not-an-email"}}
	c, _ := newTestContext(t, run.Live, in)

	laterRan := false
	sentinel := run.Step{Name: "later step", Body: func(*run.Context) error {
		laterRan = true
		return nil
	}}

	var orch run.Orchestrator
	err := orch.Run(c, []run.Step{identityStep(config.Defaults{}), sentinel})
	if !errors.Is(err, prompt.ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if laterRan {
		t.Fatal("a step ran after validation exhaustion")
	}
	if _, ferr := os.Stat(filepath.Join(c.Home, ".gitconfig")); !os.IsNotExist(ferr) {
		t.Fatal("identity was written despite invalid input")
	}
}

// Environment defaults satisfying the rules skip prompting entirely.
func TestIdentityAnswersPreferValidDefaults(t *testing.T) {
	c, _ := newTestContext(t, run.Live, failingReader{t})

	name, email, err := identityAnswers(c, config.Defaults{GitName: "Jane Doe", GitEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Jane Doe" || email != "jane@example.com" {
		t.Fatalf("got %q / %q", name, email)
	}
}

// Malformed defaults fall back to prompting rather than being trusted.
func TestIdentityAnswersRejectInvalidDefaults(t *testing.T) {
	in := &scriptedReader{lines: []string{"jane@example.com"}}
	c, _ := newTestContext(t, run.Live, in)

	_, email, err := identityAnswers(c, config.Defaults{GitName: "Jane Doe", GitEmail: "not-an-email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "jane@example.com" {
		t.Fatalf("email = %q", email)
	}
	if in.reads != 1 {
		t.Fatalf("expected 1 prompt, got %d", in.reads)
	}
}

// The shell step appends its managed block once; a second run is skipped
// by the guard.
func TestShellStepIdempotent(t *testing.T) {
	c, _ := newTestContext(t, run.Live, failingReader{t})
	cfg := config.DefaultConfig()
	cfg.Shell.Name = "zsh"

	step := shellStep(cfg)
	var orch run.Orchestrator
	if err := orch.Run(c, []run.Step{step}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	rcPath := filepath.Join(c.Home, ".zshrc")
	first, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(first), shellMarker) {
		t.Fatal("marker missing from startup file")
	}

	callsAfterFirst := c.Exec.Calls()
	if err := orch.Run(c, []run.Step{step}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if c.Exec.Calls() != callsAfterFirst {
		t.Fatal("second run performed executor calls despite satisfied guard")
	}
	second, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("second run changed the startup file")
	}
}
