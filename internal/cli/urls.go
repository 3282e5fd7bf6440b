package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// CollectURLs gathers source URLs from, in precedence order, positional
// arguments, the --urls flag, a --urls-file, and finally piped stdin.
// Order within each origin is preserved; the caller's ordering is the
// attachment ordering.
func CollectURLs(args []string, urlsFlag, urlsFile string, stdin io.Reader) ([]string, error) {
	var urls []string

	for _, arg := range args {
		if u := strings.TrimSpace(arg); u != "" {
			urls = append(urls, u)
		}
	}

	if urlsFlag != "" {
		for _, part := range strings.Split(urlsFlag, ",") {
			if u := strings.TrimSpace(part); u != "" {
				urls = append(urls, u)
			}
		}
	}

	if urlsFile != "" {
		fileURLs, err := readURLFile(urlsFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fileURLs...)
	}

	// Only consume stdin when something was actually piped in; an
	// interactive terminal would block forever.
	if len(urls) == 0 && stdin != nil && !stdinIsTerminal(stdin) {
		stdinURLs, err := readURLLines(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read urls from stdin: %w", err)
		}
		urls = append(urls, stdinURLs...)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no source urls given: pass them as arguments, --urls, --urls-file, or on stdin")
	}

	return urls, nil
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open url file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	urls, err := readURLLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read url file %s: %w", path, err)
	}
	return urls, nil
}

// readURLLines reads one URL per line, skipping blanks and # comments.
func readURLLines(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
