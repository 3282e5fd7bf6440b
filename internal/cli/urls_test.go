package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectURLsFromArgs(t *testing.T) {
	urls, err := CollectURLs([]string{"https://a.example", " https://b.example "}, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestCollectURLsFromFlag(t *testing.T) {
	urls, err := CollectURLs(nil, "https://a.example, https://b.example,,", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestCollectURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.txt")
	content := `# morning reading
https://a.example

https://b.example
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := CollectURLs(nil, "", path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestCollectURLsFromStdin(t *testing.T) {
	stdin := strings.NewReader("https://a.example\nhttps://b.example\n")

	urls, err := CollectURLs(nil, "", "", stdin)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestCollectURLsOrderAcrossOrigins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://c.example\n"), 0o644))

	urls, err := CollectURLs([]string{"https://a.example"}, "https://b.example", path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, urls)
}

func TestCollectURLsIgnoresStdinWhenFlagsGiven(t *testing.T) {
	stdin := strings.NewReader("https://piped.example\n")

	urls, err := CollectURLs(nil, "https://a.example", "", stdin)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example"}, urls)
}

func TestCollectURLsNothingGiven(t *testing.T) {
	_, err := CollectURLs(nil, "", "", nil)
	assert.Error(t, err)
}

func TestCollectURLsMissingFile(t *testing.T) {
	_, err := CollectURLs(nil, "", filepath.Join(t.TempDir(), "nope.txt"), nil)
	assert.Error(t, err)
}
