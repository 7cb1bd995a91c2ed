package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui" // Interactive terminal prompts
	"golang.org/x/term"              // Non-echoing reads for secrets

	"devstation/internal/logger"
)

// LineReader supplies one line of interactive input. The production
// implementation blocks on the terminal via promptui; tests substitute a
// scripted source.
type LineReader interface {
	ReadLine(label string) (string, error)
}

// SecretReader supplies secret input without echoing it to the terminal.
type SecretReader interface {
	ReadSecret(label string) ([]byte, error)
}

// Asker applies validation rules to interactive input with a bounded retry
// budget. It is the only place blocking reads happen on the setup path, so
// substituting its readers makes every interactive flow scriptable.
type Asker struct {
	Rec    *logger.Recorder
	In     LineReader
	Secret SecretReader
}

// NewAsker returns an Asker wired to the real terminal.
func NewAsker(rec *logger.Recorder) *Asker {
	return &Asker{Rec: rec, In: terminalReader{}, Secret: terminalSecret{}}
}

// Ask prompts until the input satisfies the rule, re-prompting with a
// logged warning on each invalid attempt, up to MaxAttempts total. A read
// error or an exhausted budget is returned to the caller; setup treats
// exhaustion as fatal.
func (a *Asker) Ask(label string, rule Rule) (string, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		input, err := a.In.ReadLine(label)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if verr := rule.Validate(input); verr != nil {
			a.Rec.Warnf("invalid input (attempt %d/%d): %v", attempt, MaxAttempts, verr)
			continue
		}
		return input, nil
	}
	a.Rec.Errorf("no valid %s after %d attempts", rule.Name, MaxAttempts)
	return "", ErrAttemptsExhausted
}

// AskSecret is Ask for non-echoed input. Invalid attempts are overwritten
// before the next read so no rejected secret lingers in memory; the caller
// owns (and must wipe) the returned buffer.
func (a *Asker) AskSecret(label string, rule Rule) ([]byte, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		buf, err := a.Secret.ReadSecret(label)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret: %w", err)
		}
		if verr := rule.Validate(string(buf)); verr != nil {
			wipe(buf)
			a.Rec.Warnf("invalid input (attempt %d/%d): %v", attempt, MaxAttempts, verr)
			continue
		}
		return buf, nil
	}
	a.Rec.Errorf("no valid %s after %d attempts", rule.Name, MaxAttempts)
	return nil, ErrAttemptsExhausted
}

// Confirm asks a yes/no question. In force mode it performs no blocking
// read at all: it logs that the decision was auto-confirmed and returns
// true. Read errors and unrecognized answers count as "no".
func (a *Asker) Confirm(label string, force bool) bool {
	if force {
		a.Rec.Infof("auto-confirmed (force mode): %s", label)
		return true
	}
	input, err := a.In.ReadLine(label + " [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// terminalReader reads a line from the real terminal.
type terminalReader struct{}

func (terminalReader) ReadLine(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	return p.Run()
}

// terminalSecret reads a secret with terminal echo disabled.
type terminalSecret struct{}

func (terminalSecret) ReadSecret(label string) ([]byte, error) {
	fmt.Printf("%s: ", label)
	defer fmt.Println()
	return term.ReadPassword(int(os.Stdin.Fd()))
}
