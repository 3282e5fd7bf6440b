package publish

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Request carries everything the publish workflow needs for one
// episode. It is supplied whole by the caller and never mutated.
type Request struct {
	// AudioPath points at the generated media artifact on disk.
	AudioPath string `yaml:"audio"`
	Title     string `yaml:"title"`
	// Description is the episode show notes.
	Description string `yaml:"description"`
	// CoverPath is optional; when empty the cover-upload transition is
	// a no-op.
	CoverPath string `yaml:"cover,omitempty"`
	// Category is optional; when empty the category control is left at
	// its default.
	Category string `yaml:"category,omitempty"`
}

// LoadRequest reads a publish request from a YAML file.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}

	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}
	return &req, nil
}

// Validate checks the request before any browser interaction happens.
func (r *Request) Validate() error {
	if r.AudioPath == "" {
		return errors.New("audio path is required")
	}
	if _, err := os.Stat(r.AudioPath); err != nil {
		return fmt.Errorf("audio file not found: %w", err)
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	if r.CoverPath != "" {
		if _, err := os.Stat(r.CoverPath); err != nil {
			return fmt.Errorf("cover file not found: %w", err)
		}
	}
	return nil
}
