package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultHost is used when a descriptor omits the endpoint address.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the conventional Chrome remote debugging port.
	DefaultPort = 9222

	attachTimeout = 15 * time.Second
)

// Descriptor identifies the remote debugging endpoint of an
// already-running browser instance. Immutable once a run starts.
type Descriptor struct {
	Host string
	Port int
}

func (d Descriptor) withDefaults() Descriptor {
	if strings.TrimSpace(d.Host) == "" {
		d.Host = DefaultHost
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
	return d
}

// URL returns the http address of the devtools endpoint.
func (d Descriptor) URL() string {
	d = d.withDefaults()
	return fmt.Sprintf("http://%s:%d", d.Host, d.Port)
}

// Session wraps an attached connection to one browser page reached
// through the remote debugging endpoint. A session holds no buffered
// data of its own; all side effects live in the remote browser.
//
// A session is exclusively owned by one workflow run at a time; runs
// take ownership through Acquire and return it through Release.
type Session struct {
	desc        Descriptor
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	inUse       atomic.Bool
}

// Attach connects to the browser identified by desc and opens a fresh
// page context. It fails with a *ConnectionError when the endpoint is
// unreachable or no debuggable target answers within a bounded timeout.
func Attach(ctx context.Context, desc Descriptor) (*Session, error) {
	desc = desc.withDefaults()

	wsURL, err := resolveWebSocketURL(ctx, desc)
	if err != nil {
		return nil, &ConnectionError{Endpoint: desc.URL(), Err: err}
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, wsURL, chromedp.NoModifyURL)
	pageCtx, pageCancel := chromedp.NewContext(allocCtx)

	// Establishing the page target is lazy in chromedp; force it now so
	// attach failures surface here as typed errors, not mid-workflow.
	probeCtx, probeCancel := context.WithTimeout(pageCtx, attachTimeout)
	defer probeCancel()
	if err := chromedp.Run(probeCtx); err != nil {
		pageCancel()
		allocCancel()
		return nil, &ConnectionError{Endpoint: desc.URL(), Err: err}
	}

	slog.Debug("attached to browser", "endpoint", desc.URL(), "ws", wsURL)

	return &Session{
		desc:        desc,
		allocCancel: allocCancel,
		ctx:         pageCtx,
		cancel:      pageCancel,
	}, nil
}

// resolveWebSocketURL asks the devtools http endpoint for the browser's
// websocket debugger address.
func resolveWebSocketURL(ctx context.Context, desc Descriptor) (string, error) {
	versionURL := desc.URL() + "/json/version"

	reqCtx, cancel := context.WithTimeout(ctx, attachTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, versionURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("devtools endpoint unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("devtools endpoint returned %s", resp.Status)
	}

	var payload struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("invalid devtools version payload: %w", err)
	}
	if payload.WebSocketDebuggerURL == "" {
		return "", fmt.Errorf("devtools version payload missing webSocketDebuggerUrl")
	}
	return payload.WebSocketDebuggerURL, nil
}

// Descriptor returns the endpoint this session is attached to.
func (s *Session) Descriptor() Descriptor { return s.desc }

// Acquire takes exclusive ownership of the session for one workflow
// run. It fails with ErrSessionBusy if another run holds the session.
func (s *Session) Acquire() error {
	if !s.inUse.CompareAndSwap(false, true) {
		return ErrSessionBusy
	}
	return nil
}

// Release returns ownership taken by Acquire.
func (s *Session) Release() {
	s.inUse.Store(false)
}

// Run executes actions against the session's page, honoring ctx for
// cancellation and deadlines. It fails with ErrSessionLost when the
// underlying connection has dropped.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	if s.ctx.Err() != nil {
		return ErrSessionLost
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if s.ctx.Err() != nil {
		return ErrSessionLost
	}
	return err
}

// EnsureViewport resizes the page to at least width x height. The
// notebook's three-column layout depends on the viewport floor, but a
// resize failure is non-fatal: downstream layout assumptions may still
// hold, so the error is logged and swallowed.
func (s *Session) EnsureViewport(ctx context.Context, width, height int64) {
	err := s.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return emulation.SetDeviceMetricsOverride(width, height, 1, false).Do(ctx)
	}))
	if err != nil {
		slog.Warn("viewport resize failed", "width", width, "height", height, "error", err)
	}
}

// Cookies exports the page's cookies for the given URLs so artifacts
// can be downloaded over plain HTTP with the browser's credentials.
func (s *Session) Cookies(ctx context.Context, urls ...string) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	err := s.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := network.GetCookies()
		if len(urls) > 0 {
			params = params.WithUrls(urls)
		}
		raw, err := params.Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range raw {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to export cookies: %w", err)
	}
	return cookies, nil
}

// Close detaches from the browser. The browser process itself is never
// touched; the engine only ever attaches to an existing instance.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}
