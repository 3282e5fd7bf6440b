package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/browser/sessionfile"
)

func TestResolveDescriptorExplicitPort(t *testing.T) {
	t.Setenv("CASTPILOT_RUN_DIR", t.TempDir())

	desc := resolveDescriptor(context.Background(), "devbox.local", 9333)
	assert.Equal(t, browser.Descriptor{Host: "devbox.local", Port: 9333}, desc)
}

func TestResolveDescriptorNoSavedSession(t *testing.T) {
	t.Setenv("CASTPILOT_RUN_DIR", t.TempDir())

	desc := resolveDescriptor(context.Background(), browser.DefaultHost, 0)
	assert.Equal(t, browser.Descriptor{Host: browser.DefaultHost}, desc)
}

func TestResolveDescriptorSavedSessionFallback(t *testing.T) {
	t.Setenv("CASTPILOT_RUN_DIR", t.TempDir())
	require.NoError(t, sessionfile.Write(context.Background(), "10.0.0.5", 9444))

	desc := resolveDescriptor(context.Background(), browser.DefaultHost, 0)
	assert.Equal(t, browser.Descriptor{Host: "10.0.0.5", Port: 9444}, desc)
}

func TestResolveDescriptorHostFlagOverridesSaved(t *testing.T) {
	t.Setenv("CASTPILOT_RUN_DIR", t.TempDir())
	require.NoError(t, sessionfile.Write(context.Background(), "10.0.0.5", 9444))

	desc := resolveDescriptor(context.Background(), "devbox.local", 0)
	assert.Equal(t, browser.Descriptor{Host: "devbox.local", Port: 9444}, desc)
}
