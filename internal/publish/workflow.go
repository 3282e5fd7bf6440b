package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/castpilot-ai/castpilot/internal/report"
	"github.com/castpilot-ai/castpilot/internal/step"
)

// WorkflowName tags progress events from this workflow.
const WorkflowName = "publish"

// DefaultWizardURL is the podcast dashboard's episode upload wizard.
const DefaultWizardURL = "https://creators.spotify.com/pod/dashboard/episode/wizard"

// defaultUploadTimeout bounds the audio upload. Uploads are slow and
// must not be retried blindly, so the step gets one long attempt.
const defaultUploadTimeout = 5 * time.Minute

// State identifies where the publish state machine is.
type State string

const (
	StateInit           State = "INIT"
	StateArtifactLoaded State = "ARTIFACT_LOCATED"
	StateMetadataFilled State = "METADATA_FILLED"
	StateCoverUploaded  State = "COVER_UPLOADED"
	StateSubmitted      State = "SUBMITTED"
	StateFailed         State = "FAILED"
)

// ContainerError marks the step that ended a publish run. Every step
// here is container-level: there is exactly one artifact per run and
// no partial-success concept.
type ContainerError struct {
	Step string
	Err  error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("publish step %q failed: %v", e.Step, e.Err)
}

func (e *ContainerError) Unwrap() error { return e.Err }

// Result reports whether the episode was submitted.
type Result struct {
	State     State
	Submitted bool
	Err       error
	Elapsed   time.Duration
}

// Session is the subset of the browser session handle this workflow
// drives. Satisfied by *browser.Session.
type Session interface {
	step.Runner
	Acquire() error
	Release()
}

// Performer executes one step to a terminal outcome.
type Performer interface {
	Perform(ctx context.Context, s step.Step) step.Result
}

// Config tunes a publish workflow.
type Config struct {
	// WizardURL overrides the episode upload wizard address.
	WizardURL string
	// StepTimeout bounds one attempt of each step; zero uses the
	// executor default.
	StepTimeout time.Duration
	// UploadTimeout bounds the single audio upload attempt.
	UploadTimeout time.Duration
	// MaxAttempts bounds retries of each step; zero uses the executor
	// default.
	MaxAttempts int
}

// Workflow sequences "upload artifact, fill metadata, attach cover,
// submit" against one exclusively-held session.
type Workflow struct {
	session Session
	perform Performer
	cfg     Config
}

// New creates a publish workflow reporting step events to reporter.
func New(session Session, reporter report.Reporter, cfg Config) *Workflow {
	if cfg.WizardURL == "" {
		cfg.WizardURL = DefaultWizardURL
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	return &Workflow{
		session: session,
		perform: step.NewExecutor(WorkflowName, session, reporter),
		cfg:     cfg,
	}
}

// Run publishes one episode. Any step failure ends the run as failed;
// the cover-upload transition is skipped entirely (no step event) when
// the request carries no cover reference. The session guard error is
// the only error returned directly.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := w.session.Acquire(); err != nil {
		return nil, err
	}
	defer w.session.Release()

	res := &Result{State: StateInit}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	sel := newSelectors(w.detectLanguage(ctx))

	if r := w.perform.Perform(ctx, w.step("open upload wizard",
		nil,
		chromedp.Navigate(w.cfg.WizardURL),
		sel.audioInput().Present(),
	)); r.Failed() {
		return w.fail(res, r), nil
	}

	upload := w.step("upload episode audio",
		sel.audioInput().Present(),
		sel.audioInput().Upload(req.AudioPath),
		sel.nextButton().Visible(), // upload finished when the wizard advances
	)
	upload.Timeout = w.cfg.UploadTimeout
	upload.MaxAttempts = 1
	if r := w.perform.Perform(ctx, upload); r.Failed() {
		return w.fail(res, r), nil
	}
	res.State = StateArtifactLoaded

	details := []chromedp.Action{
		sel.titleInput().Fill(req.Title),
		sel.descriptionBox().Click(),
		chromedp.SendKeys(sel.descriptionBox().Query, req.Description, chromedp.ByQuery),
	}
	if req.Category != "" {
		details = append(details, sel.categorySelect().SetValue(req.Category))
	}
	details = append(details, sel.detailsSubmit().Ready(), sel.detailsSubmit().Click())

	if r := w.perform.Perform(ctx, w.step("fill episode details",
		sel.titleInput().Ready(),
		chromedp.Tasks(details),
		sel.publishButton().Visible(),
	)); r.Failed() {
		return w.fail(res, r), nil
	}
	res.State = StateMetadataFilled

	if req.CoverPath != "" {
		if r := w.perform.Perform(ctx, w.step("upload cover art",
			sel.coverInput().Present(),
			sel.coverInput().Upload(req.CoverPath),
			nil,
		)); r.Failed() {
			return w.fail(res, r), nil
		}
		res.State = StateCoverUploaded
	}

	if r := w.perform.Perform(ctx, w.step("submit episode",
		sel.publishButton().Ready(),
		sel.publishButton().Click(),
		nil,
	)); r.Failed() {
		return w.fail(res, r), nil
	}
	res.State = StateSubmitted
	res.Submitted = true

	slog.Info("episode submitted", "title", req.Title, "audio", req.AudioPath)
	return res, nil
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

func (w *Workflow) fail(res *Result, r step.Result) *Result {
	res.State = StateFailed
	res.Err = &ContainerError{Step: r.Step, Err: r.Err}
	return res
}

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
