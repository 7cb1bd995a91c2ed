package run

import "fmt"

// Progress counts completed steps. It is owned exclusively by the
// Orchestrator and mutated only through Advance; everything else sees it
// read-only via the progress log lines.
type Progress struct {
	Current int
	Total   int
}

// Advance moves to the next step.
func (p *Progress) Advance() {
	p.Current++
}

func (p *Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Current, p.Total)
}
