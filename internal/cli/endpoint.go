package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/browser/sessionfile"
)

// resolveDescriptor turns the --host/--port flags into a session
// descriptor. When no port is given it falls back to the saved session
// file; when that is absent too, the defaults apply.
func resolveDescriptor(ctx context.Context, host string, port int) browser.Descriptor {
	if port != 0 {
		return browser.Descriptor{Host: host, Port: port}
	}

	savedHost, savedPort, err := sessionfile.Read(ctx)
	if err != nil {
		slog.Debug("no saved session, using defaults", "error", err)
		return browser.Descriptor{Host: host}
	}

	if host != "" && host != browser.DefaultHost {
		// An explicit host flag wins over the saved one.
		savedHost = host
	}
	slog.Debug("using saved session", "host", savedHost, "port", savedPort)
	return browser.Descriptor{Host: savedHost, Port: savedPort}
}

func addEndpointFlags(flags *pflag.FlagSet, host *string, port *int) {
	flags.StringVar(host, "host", browser.DefaultHost, "Remote debugging host of the running browser")
	flags.IntVar(port, "port", 0, "Remote debugging port (0 means saved session or default)")
}
