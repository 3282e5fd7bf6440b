package source

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind classifies how a source URL is handed to the notebook UI: the
// add-source dialog offers separate affordances for websites and for
// video-hosting links.
type Kind string

const (
	KindWebsite Kind = "website"
	KindVideo   Kind = "video"
)

// ReaderProxyOrigin is prepended to website URLs when the
// content-extraction proxy option is enabled. Video URLs are never
// rewritten; the notebook ingests them natively.
const ReaderProxyOrigin = "https://r.jina.ai/"

// Item is one normalized input, created once per raw URL and consumed
// exactly once by the notebook workflow.
type Item struct {
	Raw  string
	Kind Kind
	URL  string
}

// Options controls preprocessing behavior.
type Options struct {
	// UseReaderProxy rewrites website URLs through ReaderProxyOrigin.
	UseReaderProxy bool
}

// InvalidInputError marks a raw input that cannot be classified or
// resolved. The item is recorded as failed; the workflow continues.
type InvalidInputError struct {
	Raw    string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid source input %q: %s", e.Raw, e.Reason)
}

var videoHosts = map[string]struct{}{
	"youtube.com": {},
	"youtu.be":    {},
}

// Resolve classifies and normalizes one raw input line. It is a pure
// function: the same raw input always yields the same kind and
// rewritten form, and re-resolving an already-rewritten URL is stable.
func Resolve(raw string, opts Options) (Item, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Item{}, &InvalidInputError{Raw: raw, Reason: "empty input"}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Item{}, &InvalidInputError{Raw: raw, Reason: err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Item{}, &InvalidInputError{Raw: raw, Reason: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return Item{}, &InvalidInputError{Raw: raw, Reason: "missing host"}
	}

	item := Item{Raw: raw, Kind: KindWebsite, URL: trimmed}

	if isVideoHost(parsed.Host) {
		item.Kind = KindVideo
		return item, nil
	}

	// A proxied URL embeds the original after the proxy origin; classify
	// and rewrite it as the website it wraps.
	if opts.UseReaderProxy && !strings.HasPrefix(trimmed, ReaderProxyOrigin) {
		item.URL = ReaderProxyOrigin + trimmed
	}
	return item, nil
}

func isVideoHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	_, ok := videoHosts[host]
	return ok
}
