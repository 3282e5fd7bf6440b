package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/castpilot-ai/castpilot/internal/report"
	"github.com/castpilot-ai/castpilot/internal/source"
	"github.com/castpilot-ai/castpilot/internal/step"
)

// WorkflowName tags progress events from this workflow.
const WorkflowName = "notebook"

// DefaultBaseURL is the notebook application's entry point.
const DefaultBaseURL = "https://notebooklm.google.com/"

// The three-column layout needs at least 1261px of width; below that
// the add-source affordances render in a different structure.
const (
	viewportWidth  = 1280
	viewportHeight = 800
)

// State identifies where the notebook state machine is.
type State string

const (
	StateInit                State = "INIT"
	StateContainerCreated    State = "CONTAINER_CREATED"
	StateAttachingSource     State = "ATTACHING_SOURCE"
	StateGenerationTriggered State = "GENERATION_TRIGGERED"
	StateDone                State = "DONE"
	StateFailed              State = "FAILED"
)

// Status summarizes a finished run.
type Status string

const (
	StatusAllSucceeded Status = "ALL_SUCCEEDED"
	StatusPartial      Status = "PARTIAL"
	StatusAllFailed    Status = "ALL_FAILED"
)

// ItemOutcome is the terminal outcome for one supplied input. Every
// attempted input gets exactly one; inputs skipped by cancellation are
// simply absent from the run result.
type ItemOutcome struct {
	Raw      string
	Item     source.Item
	Attached bool
	Err      error
}

// ContainerError marks a container-level step failure (creation or
// generation trigger); it ends the whole run.
type ContainerError struct {
	Step string
	Err  error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("container step %q failed: %v", e.Step, e.Err)
}

func (e *ContainerError) Unwrap() error { return e.Err }

// ErrNoSourcesAttached means generation was rejected because nothing
// was attached. Triggering generation with zero sources is undefined in
// the target UI, so the run reports a failure instead of guessing.
var ErrNoSourcesAttached = errors.New("no sources attached, audio generation not triggered")

// RunResult aggregates a whole notebook run. It is built incrementally
// and returned when the run ends; nothing is persisted beyond the call.
type RunResult struct {
	RunID    string
	State    State
	Canceled bool
	Items    []ItemOutcome
	Err      error
	Elapsed  time.Duration
}

// Attached counts successfully attached sources.
func (r *RunResult) Attached() int {
	n := 0
	for _, it := range r.Items {
		if it.Attached {
			n++
		}
	}
	return n
}

// Status folds the per-item outcomes and any container-level error
// into the overall run status. A run canceled before anything was
// attached is partial, not failed: nothing went wrong, work was
// simply left undone.
func (r *RunResult) Status() Status {
	attached := r.Attached()
	switch {
	case attached == 0 && r.Canceled:
		return StatusPartial
	case attached == 0:
		return StatusAllFailed
	case attached == len(r.Items) && r.Err == nil && !r.Canceled:
		return StatusAllSucceeded
	default:
		return StatusPartial
	}
}

// Session is the subset of the browser session handle this workflow
// drives. It is satisfied by *browser.Session.
type Session interface {
	step.Runner
	Acquire() error
	Release()
	EnsureViewport(ctx context.Context, width, height int64)
	Cookies(ctx context.Context, urls ...string) ([]*http.Cookie, error)
}

// Performer executes one step to a terminal outcome. Satisfied by
// *step.Executor; tests substitute a scripted fake.
type Performer interface {
	Perform(ctx context.Context, s step.Step) step.Result
}

// Config tunes a notebook workflow.
type Config struct {
	// BaseURL overrides the notebook application entry point.
	BaseURL string
	// UseReaderProxy rewrites website URLs through the
	// content-extraction proxy before they are submitted.
	UseReaderProxy bool
	// StepTimeout bounds one attempt of each step; zero uses the
	// executor default.
	StepTimeout time.Duration
	// MaxAttempts bounds retries of each step; zero uses the executor
	// default.
	MaxAttempts int
}

// Workflow sequences "create notebook, attach each source, trigger
// audio generation" against one exclusively-held session.
type Workflow struct {
	session Session
	perform Performer
	cfg     Config
}

// New creates a notebook workflow reporting step events to reporter.
func New(session Session, reporter report.Reporter, cfg Config) *Workflow {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Workflow{
		session: session,
		perform: step.NewExecutor(WorkflowName, session, reporter),
		cfg:     cfg,
	}
}

// Run processes the raw inputs in order against a freshly created
// notebook. Per-item failures are absorbed into the result; only
// container-level failures end the run early. The session guard error
// is the only error returned directly.
func (w *Workflow) Run(ctx context.Context, rawInputs []string) (*RunResult, error) {
	if err := w.session.Acquire(); err != nil {
		return nil, err
	}
	defer w.session.Release()

	res := &RunResult{RunID: uuid.NewString(), State: StateInit}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	w.session.EnsureViewport(ctx, viewportWidth, viewportHeight)

	if r := w.perform.Perform(ctx, w.step("open notebook home",
		nil,
		chromedp.Navigate(w.cfg.BaseURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)); r.Failed() {
		return w.fail(res, r), nil
	}

	sel := newSelectors(w.detectLanguage(ctx))

	create := sel.createNotebook()
	if r := w.perform.Perform(ctx, w.step("create notebook",
		create.Ready(),
		create.Click(),
		sel.urlInput().Visible(),
	)); r.Failed() {
		return w.fail(res, r), nil
	}
	res.State = StateContainerCreated

	for i, raw := range rawInputs {
		// Cancellation is honored between items, never mid-step, so the
		// notebook is left with a clean subset of sources attached.
		if ctx.Err() != nil {
			res.Canceled = true
			slog.Info("run canceled, stopping before next source",
				"processed", len(res.Items), "remaining", len(rawInputs)-len(res.Items))
			break
		}
		res.State = StateAttachingSource

		outcome := ItemOutcome{Raw: raw}
		item, err := source.Resolve(raw, source.Options{UseReaderProxy: w.cfg.UseReaderProxy})
		if err != nil {
			outcome.Err = err
			res.Items = append(res.Items, outcome)
			continue
		}
		outcome.Item = item

		slog.Info("attaching source", "index", i+1, "total", len(rawInputs), "url", item.URL, "kind", item.Kind)
		if err := w.attachSource(ctx, sel, i, item); err != nil {
			outcome.Err = err
		} else {
			outcome.Attached = true
		}
		res.Items = append(res.Items, outcome)
	}

	if res.Canceled {
		res.State = StateDone
		return res, nil
	}

	if res.Attached() == 0 {
		res.State = StateFailed
		res.Err = ErrNoSourcesAttached
		return res, nil
	}

	generate := sel.generateButton()
	if r := w.perform.Perform(ctx, w.step("trigger audio generation",
		generate.Ready(),
		generate.Click(),
		nil, // fire-and-forget: the run never waits on the generation job
	)); r.Failed() {
		return w.fail(res, r), nil
	}
	res.State = StateGenerationTriggered

	res.State = StateDone
	return res, nil
}

// attachSource drives the add-source dialog for one item. The first
// item finds the dialog already open from notebook creation; later
// items reopen it.
func (w *Workflow) attachSource(ctx context.Context, sel selectors, index int, item source.Item) error {
	chip := sel.sourceTypeChip(item.Kind)

	if index > 0 {
		add := sel.addSource()
		if r := w.perform.Perform(ctx, w.step("open add source dialog",
			add.Ready(),
			add.Click(),
			chip.Visible(),
		)); r.Failed() {
			return stepError(r)
		}
	}

	urlInput := sel.urlInput()
	if r := w.perform.Perform(ctx, w.step("select source type",
		chip.Visible(),
		chip.Click(),
		urlInput.Visible(),
	)); r.Failed() {
		return stepError(r)
	}

	insert := sel.insertButton()
	submit := w.step("submit source url",
		urlInput.Ready(),
		chromedp.Tasks{
			urlInput.Fill(item.URL),
			insert.Ready(),
			insert.Click(),
		},
		sel.spinner().Gone(), // ingestion finished when the spinner detaches
	)
	if submit.Timeout < 30*time.Second {
		submit.Timeout = 30 * time.Second
	}
	if r := w.perform.Perform(ctx, submit); r.Failed() {
		return stepError(r)
	}
	return nil
}

func (w *Workflow) step(name string, ready, act, verify chromedp.Action) step.Step {
	return step.Step{
		Name:        name,
		Ready:       ready,
		Act:         act,
		Verify:      verify,
		Timeout:     w.cfg.StepTimeout,
		MaxAttempts: w.cfg.MaxAttempts,
	}
}

func (w *Workflow) fail(res *RunResult, r step.Result) *RunResult {
	res.State = StateFailed
	res.Err = &ContainerError{Step: r.Step, Err: r.Err}
	return res
}

// detectLanguage probes the document language once per run so locator
// labels match what the app actually renders.
func (w *Workflow) detectLanguage(ctx context.Context) string {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lang string
	err := w.session.Run(probeCtx, chromedp.Evaluate(`document.documentElement.lang || "en"`, &lang))
	if err != nil {
		slog.Debug("language probe failed, assuming english", "error", err)
		return "en"
	}
	return lang
}

func stepError(r step.Result) error {
	return fmt.Errorf("%s: %w", r.Step, r.Err)
}
