package step

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/chromedp"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/report"
)

const (
	// DefaultTimeout bounds a single attempt of one step. A hung remote
	// page surfaces as a failed step, never as a hang of the process.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxAttempts bounds retries of the whole step.
	DefaultMaxAttempts = 3

	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 4 * time.Second
)

// Runner executes devtools actions against one attached page. It is
// the seam between the executor and the session handle; tests inject
// fakes here.
type Runner interface {
	Run(ctx context.Context, actions ...chromedp.Action) error
}

// Step describes one discrete, retryable UI interaction: wait for a
// readiness condition, act, then optionally verify a post-condition.
type Step struct {
	Name string
	// Ready is the readiness predicate. It must hold before Act runs.
	Ready chromedp.Action
	// Act performs the interaction (click, type, upload).
	Act chromedp.Action
	// Verify is an optional post-condition. If it never holds within
	// the retry budget the step fails; success is never assumed.
	Verify chromedp.Action
	// Timeout bounds one attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxAttempts bounds retries of the whole step (re-locate,
	// re-check, re-act). Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// Result is the immutable record of one executed step.
type Result struct {
	Step     string
	Outcome  report.Outcome
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Failed reports whether the step exhausted its retry budget.
func (r Result) Failed() bool { return r.Outcome == report.OutcomeFailed }

// TimeoutError records that a readiness or verification condition never
// held within one attempt's bounded timeout.
type TimeoutError struct {
	Step    string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("step %q timed out after %s: %v", e.Step, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Executor is the single chokepoint for performing UI steps reliably.
// Every workflow step inherits identical wait/retry semantics from it
// instead of scattering ad hoc timing assumptions across steps.
type Executor struct {
	workflow string
	runner   Runner
	reporter report.Reporter
}

// NewExecutor creates an executor emitting events tagged with the given
// workflow name. A nil reporter discards events.
func NewExecutor(workflow string, runner Runner, reporter report.Reporter) *Executor {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Executor{workflow: workflow, runner: runner, reporter: reporter}
}

// Perform runs one step to a terminal outcome. It never returns an
// error and never panics across the workflow boundary; callers
// interpret the result's outcome. Retries use monotonic exponential
// backoff capped at maxBackoff. Cancellation and a lost session stop
// retries immediately.
func (e *Executor) Perform(ctx context.Context, s Step) Result {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = DefaultMaxAttempts
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoff
	bo.MaxInterval = maxBackoff
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	start := time.Now()
	var lastErr error

	attempts := 0
	for attempts < s.MaxAttempts {
		attempts++

		err := e.attempt(ctx, s)
		if err == nil {
			outcome := report.OutcomeSuccess
			if attempts > 1 {
				outcome = report.OutcomeRetriedSuccess
			}
			return e.finish(s, outcome, attempts, time.Since(start), nil)
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, browser.ErrSessionLost) {
			break
		}

		if attempts < s.MaxAttempts {
			wait := bo.NextBackOff()
			slog.Debug("step attempt failed, backing off",
				"workflow", e.workflow, "step", s.Name,
				"attempt", attempts, "backoff", wait, "error", err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
	}

	return e.finish(s, report.OutcomeFailed, attempts, time.Since(start), lastErr)
}

func (e *Executor) attempt(ctx context.Context, s Step) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	actions := make([]chromedp.Action, 0, 3)
	for _, a := range []chromedp.Action{s.Ready, s.Act, s.Verify} {
		if a != nil {
			actions = append(actions, a)
		}
	}

	err := e.runner.Run(attemptCtx, actions...)
	if err == nil {
		return nil
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &TimeoutError{Step: s.Name, Timeout: s.Timeout, Err: err}
	}
	return err
}

func (e *Executor) finish(s Step, outcome report.Outcome, attempts int, elapsed time.Duration, err error) Result {
	res := Result{
		Step:     s.Name,
		Outcome:  outcome,
		Attempts: attempts,
		Elapsed:  elapsed,
		Err:      err,
	}

	detail := ""
	if err != nil {
		detail = err.Error()
	}
	e.reporter.Report(report.Event{
		Workflow:  e.workflow,
		Step:      s.Name,
		Outcome:   outcome,
		Attempts:  attempts,
		Elapsed:   elapsed,
		Timestamp: time.Now(),
		Detail:    detail,
	})
	return res
}
