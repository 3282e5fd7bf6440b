package step

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/report"
)

// fakeRunner scripts one error per call; calls beyond the script
// succeed.
type fakeRunner struct {
	errs  []error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, actions ...chromedp.Action) error {
	f.calls++
	if f.calls <= len(f.errs) {
		return f.errs[f.calls-1]
	}
	return nil
}

// blockingRunner waits out the attempt context.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, actions ...chromedp.Action) error {
	<-ctx.Done()
	return ctx.Err()
}

type recordingReporter struct {
	events []report.Event
}

func (r *recordingReporter) Report(ev report.Event) { r.events = append(r.events, ev) }

func TestPerformSuccessFirstAttempt(t *testing.T) {
	runner := &fakeRunner{}
	reporter := &recordingReporter{}
	ex := NewExecutor("test", runner, reporter)

	res := ex.Perform(context.Background(), Step{Name: "click thing"})

	assert.Equal(t, report.OutcomeSuccess, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, runner.calls)
	assert.NoError(t, res.Err)
	assert.False(t, res.Failed())

	require.Len(t, reporter.events, 1)
	assert.Equal(t, "test", reporter.events[0].Workflow)
	assert.Equal(t, "click thing", reporter.events[0].Step)
	assert.Equal(t, report.OutcomeSuccess, reporter.events[0].Outcome)
}

func TestPerformRetriedSuccess(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("node not found"), errors.New("node not found")}}
	ex := NewExecutor("test", runner, report.Nop{})

	res := ex.Perform(context.Background(), Step{Name: "click thing"})

	assert.Equal(t, report.OutcomeRetriedSuccess, res.Outcome)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, runner.calls)
	assert.NoError(t, res.Err)
}

func TestPerformExhaustsRetryBudgetExactly(t *testing.T) {
	stepErr := errors.New("node not found")
	runner := &fakeRunner{errs: []error{stepErr, stepErr, stepErr, stepErr, stepErr}}
	ex := NewExecutor("test", runner, report.Nop{})

	res := ex.Perform(context.Background(), Step{Name: "click thing", MaxAttempts: 3})

	assert.True(t, res.Failed())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, runner.calls, "budget of 3 means exactly 3 attempts, no more")
	assert.ErrorIs(t, res.Err, stepErr)
}

func TestPerformDefaultsApplied(t *testing.T) {
	stepErr := errors.New("boom")
	runner := &fakeRunner{errs: []error{stepErr, stepErr, stepErr}}
	ex := NewExecutor("test", runner, report.Nop{})

	res := ex.Perform(context.Background(), Step{Name: "click thing"})

	assert.Equal(t, DefaultMaxAttempts, res.Attempts)
}

func TestPerformStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{errs: []error{context.Canceled, context.Canceled, context.Canceled}}
	ex := NewExecutor("test", runner, report.Nop{})

	res := ex.Perform(ctx, Step{Name: "click thing"})

	assert.True(t, res.Failed())
	assert.Equal(t, 1, res.Attempts, "cancellation must stop retries immediately")
	assert.Equal(t, 1, runner.calls)
}

func TestPerformStopsOnSessionLost(t *testing.T) {
	runner := &fakeRunner{errs: []error{browser.ErrSessionLost, browser.ErrSessionLost, browser.ErrSessionLost}}
	ex := NewExecutor("test", runner, report.Nop{})

	res := ex.Perform(context.Background(), Step{Name: "click thing"})

	assert.True(t, res.Failed())
	assert.Equal(t, 1, res.Attempts, "a lost session is not retryable")
	assert.ErrorIs(t, res.Err, browser.ErrSessionLost)
}

func TestPerformClassifiesAttemptTimeout(t *testing.T) {
	ex := NewExecutor("test", blockingRunner{}, report.Nop{})

	res := ex.Perform(context.Background(), Step{
		Name:        "wait forever",
		Timeout:     20 * time.Millisecond,
		MaxAttempts: 1,
	})

	require.True(t, res.Failed())
	var timeoutErr *TimeoutError
	require.ErrorAs(t, res.Err, &timeoutErr)
	assert.Equal(t, "wait forever", timeoutErr.Step)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
}

func TestPerformReportsEachTerminalOutcomeOnce(t *testing.T) {
	stepErr := errors.New("boom")
	runner := &fakeRunner{errs: []error{stepErr, stepErr, stepErr}}
	reporter := &recordingReporter{}
	ex := NewExecutor("test", runner, reporter)

	ex.Perform(context.Background(), Step{Name: "click thing", MaxAttempts: 3})

	require.Len(t, reporter.events, 1, "one event per step, not per attempt")
	assert.Equal(t, report.OutcomeFailed, reporter.events[0].Outcome)
	assert.Equal(t, 3, reporter.events[0].Attempts)
	assert.Contains(t, reporter.events[0].Detail, "boom")
}
