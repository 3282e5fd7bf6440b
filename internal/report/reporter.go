package report

import "time"

// Outcome is the terminal classification of one executed step.
type Outcome string

const (
	// OutcomeSuccess means the step succeeded on its first attempt.
	OutcomeSuccess Outcome = "success"
	// OutcomeRetriedSuccess means the step succeeded after at least one retry.
	OutcomeRetriedSuccess Outcome = "retried_success"
	// OutcomeFailed means the step exhausted its retry budget.
	OutcomeFailed Outcome = "failed"
)

// Event is emitted once per executed step. Consumers render events
// independently; the engine has no knowledge of the rendering surface.
type Event struct {
	Workflow  string
	Step      string
	Outcome   Outcome
	Attempts  int
	Elapsed   time.Duration
	Timestamp time.Time
	Detail    string
}

// Reporter receives step-level progress events from a workflow run.
// Implementations must be safe to call from the workflow goroutine and
// must not block for long; slow consumers should buffer internally.
type Reporter interface {
	Report(Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Report(Event) {}

// Multi fans an event out to every wrapped reporter in order.
type Multi []Reporter

func (m Multi) Report(ev Event) {
	for _, r := range m {
		r.Report(ev)
	}
}
