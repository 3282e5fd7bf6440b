package sessionfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultRunDirName = ".castpilot"
	sessionFileName   = "session.json"
)

type sessionPayload struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	CreatedAt string `json:"createdAt"`
}

// Path returns the location of the saved session descriptor under runDir.
func Path(runDir string) string {
	return filepath.Join(runDir, sessionFileName)
}

// Read loads the saved session descriptor. Commands fall back to it
// when no endpoint flags are given.
func Read(ctx context.Context) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	runDir, err := resolveRunDir()
	if err != nil {
		return "", 0, err
	}

	path := Path(runDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read session file %s: %w", path, err)
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", 0, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}

	if payload.Host == "" {
		return "", 0, fmt.Errorf("session file %s missing host", path)
	}
	if payload.Port <= 0 || payload.Port > 65535 {
		return "", 0, fmt.Errorf("session file %s has invalid port %d", path, payload.Port)
	}
	if payload.CreatedAt == "" {
		return "", 0, fmt.Errorf("session file %s missing createdAt", path)
	}
	if _, err := time.Parse(time.RFC3339, payload.CreatedAt); err != nil {
		return "", 0, fmt.Errorf("session file %s has invalid createdAt: %w", path, err)
	}

	return payload.Host, payload.Port, nil
}

// Write saves the session descriptor for later runs.
func Write(ctx context.Context, host string, port int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if host == "" {
		return errors.New("host is required")
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", port)
	}

	runDir, err := resolveRunDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}

	payload := sessionPayload{
		Host:      host,
		Port:      port,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	path := Path(runDir)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to finalize session file %s: %w", path, err)
	}

	return nil
}

// Remove deletes the saved session descriptor.
func Remove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runDir, err := resolveRunDir()
	if err != nil {
		return err
	}

	path := Path(runDir)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session file %s not found", path)
		}
		return fmt.Errorf("failed to remove session file %s: %w", path, err)
	}

	return nil
}

// BaseDir returns the directory holding the session file.
func BaseDir() (string, error) {
	return resolveRunDir()
}

func resolveRunDir() (string, error) {
	if dir := os.Getenv("CASTPILOT_RUN_DIR"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve CASTPILOT_RUN_DIR %s: %w", dir, err)
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, defaultRunDirName), nil
}
