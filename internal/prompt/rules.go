package prompt

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxAttempts is the retry budget for every validated prompt. Exhausting
// it is the one validation failure that is not locally recoverable:
// proceeding without valid identity or credential input would corrupt
// downstream state (e.g. committing code under no identity).
const MaxAttempts = 3

// ErrAttemptsExhausted is returned after MaxAttempts consecutive invalid
// inputs. Callers on the setup path treat it as fatal.
var ErrAttemptsExhausted = errors.New("no valid input after 3 attempts")

// Rule is a named, stateless input-format contract: a shape regex plus a
// length bound. Rules are shared and immutable.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	MaxLen  int // zero means unbounded
}

// Validate checks one input attempt against the rule.
func (r Rule) Validate(input string) error {
	if r.MaxLen > 0 && len(input) > r.MaxLen {
		return fmt.Errorf("%s must be at most %d characters", r.Name, r.MaxLen)
	}
	if !r.Pattern.MatchString(input) {
		return fmt.Errorf("that does not look like a valid %s", r.Name)
	}
	return nil
}

// Built-in rules.
var (
	// Email accepts the standard local@domain.tld shape.
	Email = Rule{Name: "email address", Pattern: regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`), MaxLen: 254}

	// HumanName accepts letters, digits, spaces, dots, hyphens, and
	// apostrophes.
	HumanName = Rule{Name: "name", Pattern: regexp.MustCompile(`^[A-Za-z0-9 .'-]+$`), MaxLen: 100}

	// NonEmpty accepts anything containing a non-whitespace character.
	NonEmpty = Rule{Name: "value", Pattern: regexp.MustCompile(`\S`)}

	// AccessToken accepts forge API tokens: alphanumeric/underscore,
	// length 20 to 100.
	AccessToken = Rule{Name: "access token", Pattern: regexp.MustCompile(`^[A-Za-z0-9_]{20,100}$`), MaxLen: 100}
)
