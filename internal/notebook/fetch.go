package notebook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// audioLoadTimeout bounds how long the player is given to surface an
// already-generated episode. It does not wait for generation itself;
// fetching a notebook whose generation has not finished fails here.
const audioLoadTimeout = 2 * time.Minute

// FetchRequest asks for the generated audio of an existing notebook.
type FetchRequest struct {
	// NotebookURL is the address of a notebook whose generation job has
	// already finished out-of-band.
	NotebookURL string
	// OutputDir receives the downloaded artifact. Empty means a fresh
	// temporary directory.
	OutputDir string
}

// FetchResult carries the downloaded artifact and the notebook
// metadata, shaped to feed a publish request.
type FetchResult struct {
	AudioPath   string
	Title       string
	Description string
}

// Fetch navigates to an existing notebook, reads its title and
// summary, resolves the audio download link, and downloads the
// artifact over HTTP with the browser's cookies. Every step is
// container-level: any failure ends the fetch.
func (w *Workflow) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	if req.NotebookURL == "" {
		return nil, fmt.Errorf("notebook URL is required")
	}

	if err := w.session.Acquire(); err != nil {
		return nil, err
	}
	defer w.session.Release()

	if r := w.perform.Perform(ctx, w.step("open notebook",
		nil,
		chromedp.Navigate(req.NotebookURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)); r.Failed() {
		return nil, stepError(r)
	}

	sel := newSelectors(w.detectLanguage(ctx))
	res := &FetchResult{}

	title := sel.notebookTitle()
	if r := w.perform.Perform(ctx, w.step("read notebook title",
		title.Visible(),
		title.Text(&res.Title),
		nil,
	)); r.Failed() {
		return nil, stepError(r)
	}

	summary := sel.notebookSummary()
	if r := w.perform.Perform(ctx, w.step("read notebook summary",
		summary.Visible(),
		summary.Text(&res.Description),
		nil,
	)); r.Failed() {
		return nil, stepError(r)
	}

	// A dormant player shows a load affordance first; click it when
	// present, then wait for the player to become playable.
	load := w.step("load audio player",
		nil,
		clickIfPresent(sel.labels.loadAudio),
		sel.playAudioButton().Visible(),
	)
	load.Timeout = audioLoadTimeout
	load.MaxAttempts = 1
	if r := w.perform.Perform(ctx, load); r.Failed() {
		return nil, stepError(r)
	}

	options := sel.audioOptionsButton()
	download := sel.downloadLink()
	if r := w.perform.Perform(ctx, w.step("open audio options menu",
		options.Ready(),
		options.Click(),
		download.Visible(),
	)); r.Failed() {
		return nil, stepError(r)
	}

	var href string
	var ok bool
	if r := w.perform.Perform(ctx, w.step("resolve download link",
		nil,
		download.Attribute("href", &href, &ok),
		nil,
	)); r.Failed() {
		return nil, stepError(r)
	}
	if !ok || href == "" {
		return nil, fmt.Errorf("download link has no href attribute")
	}

	path, err := w.downloadArtifact(ctx, href, req)
	if err != nil {
		return nil, err
	}
	res.AudioPath = path
	return res, nil
}

// downloadArtifact fetches the audio over plain HTTP, reusing the
// browser's cookies so the download is authorized like an in-page one.
func (w *Workflow) downloadArtifact(ctx context.Context, href string, req FetchRequest) (string, error) {
	outputDir := req.OutputDir
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "castpilot-audio-")
		if err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		outputDir = dir
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	cookies, err := w.session.Cookies(ctx, href, req.NotebookURL)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg,audio/*,*/*")
	httpReq.Header.Set("Referer", req.NotebookURL)
	for _, c := range cookies {
		httpReq.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("audio download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio download failed: %s", resp.Status)
	}

	path := filepath.Join(outputDir, uuid.NewString()+".mp3")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write artifact file %s: %w", path, err)
	}

	slog.Info("audio artifact downloaded", "path", path, "bytes", n)
	return path, nil
}

// clickIfPresent clicks the first button carrying the given label, if
// any. Unlike a locator click it does not fail when the button is
// absent; an already-loaded player has no load affordance.
func clickIfPresent(label string) chromedp.Action {
	script := fmt.Sprintf(`(() => {
		const btn = [...document.querySelectorAll("button")].find(b => b.textContent.includes(%q));
		if (!btn) return false;
		btn.click();
		return true;
	})()`, label)

	var clicked bool
	return chromedp.Evaluate(script, &clicked)
}
