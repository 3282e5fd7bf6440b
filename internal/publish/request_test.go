package publish

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadRequest(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, dir, "episode.mp3", "mp3")

	reqPath := writeFile(t, dir, "request.yaml", `
audio: `+audio+`
title: "Episode 1"
description: |
  Multi-line
  show notes.
category: Technology
`)

	req, err := LoadRequest(reqPath)
	if err != nil {
		t.Fatalf("LoadRequest failed: %v", err)
	}

	if req.AudioPath != audio {
		t.Errorf("AudioPath = %q, want %q", req.AudioPath, audio)
	}
	if req.Title != "Episode 1" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.Description != "Multi-line\nshow notes.\n" {
		t.Errorf("Description = %q", req.Description)
	}
	if req.Category != "Technology" {
		t.Errorf("Category = %q", req.Category)
	}
	if req.CoverPath != "" {
		t.Errorf("CoverPath = %q, want empty", req.CoverPath)
	}

	if err := req.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadRequestMissingFile(t *testing.T) {
	if _, err := LoadRequest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadRequest succeeded for a missing file")
	}
}

func TestLoadRequestBadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "audio: [unclosed")
	if _, err := LoadRequest(path); err == nil {
		t.Fatal("LoadRequest succeeded for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, dir, "episode.mp3", "mp3")

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"complete", Request{AudioPath: audio, Title: "t", Description: "d"}, false},
		{"missing audio path", Request{Title: "t", Description: "d"}, true},
		{"audio file absent", Request{AudioPath: filepath.Join(dir, "gone.mp3"), Title: "t", Description: "d"}, true},
		{"missing title", Request{AudioPath: audio, Description: "d"}, true},
		{"missing description", Request{AudioPath: audio, Title: "t"}, true},
		{"cover file absent", Request{AudioPath: audio, Title: "t", Description: "d", CoverPath: filepath.Join(dir, "gone.png")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
