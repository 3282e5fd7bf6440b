package sessionfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	runDir := "/tmp/castpilot"
	expected := filepath.Join(runDir, "session.json")
	if got := Path(runDir); got != expected {
		t.Fatalf("Path() = %s, want %s", got, expected)
	}
}

func TestWriteReadRemove(t *testing.T) {
	runDir := t.TempDir()
	t.Setenv("CASTPILOT_RUN_DIR", runDir)
	ctx := context.Background()

	baseDir, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if baseDir != runDir {
		t.Fatalf("BaseDir() = %s, want %s", baseDir, runDir)
	}

	const (
		host = "127.0.0.1"
		port = 9223
	)

	if err := Write(ctx, host, port); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	gotHost, gotPort, err := Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if gotHost != host {
		t.Fatalf("Read() host = %s, want %s", gotHost, host)
	}
	if gotPort != port {
		t.Fatalf("Read() port = %d, want %d", gotPort, port)
	}

	if err := Remove(ctx); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, _, err := Read(ctx); err == nil {
		t.Fatalf("Read() expected error after removal, got nil")
	}
}

func TestWriteValidation(t *testing.T) {
	t.Setenv("CASTPILOT_RUN_DIR", t.TempDir())
	ctx := context.Background()

	if err := Write(ctx, "", 9222); err == nil {
		t.Fatalf("Write() expected error for empty host, got nil")
	}
	if err := Write(ctx, "localhost", 0); err == nil {
		t.Fatalf("Write() expected error for port 0, got nil")
	}
	if err := Write(ctx, "localhost", 70000); err == nil {
		t.Fatalf("Write() expected error for out-of-range port, got nil")
	}
}

func TestReadValidation(t *testing.T) {
	runDir := t.TempDir()
	t.Setenv("CASTPILOT_RUN_DIR", runDir)
	ctx := context.Background()

	// Missing host and port
	if err := os.WriteFile(Path(runDir), []byte(`{"createdAt":"2024-01-01T00:00:00Z"}`), 0o600); err != nil {
		t.Fatalf("failed to write invalid session file: %v", err)
	}

	if _, _, err := Read(ctx); err == nil {
		t.Fatalf("Read() expected validation error, got nil")
	}
}
