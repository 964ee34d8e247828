package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/portscope/internal/record"
)

func writePrefs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load = %#v, want %#v", p, Default())
	}

	dir := filepath.Join(home, ".config", "portscope")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err = Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", p.Theme)
	}
}

func TestLoad_Decode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Prefs
	}{
		{
			name:    "theme only keeps metadata on",
			content: "theme = \"Slate\"\n",
			want:    Prefs{Theme: "Slate", ShowMetadata: true},
		},
		{
			name:    "empty theme falls back",
			content: "theme = \"\"\n",
			want:    Default(),
		},
		{
			name:    "render mode normalized",
			content: "theme = \"  Kanagawa \"\nrender_mode = \" MIXED \"\nshow_metadata = false\n",
			want:    Prefs{Theme: "Kanagawa", RenderMode: record.Mixed, HasMode: true},
		},
		{
			name:    "unknown render mode ignored",
			content: "render_mode = \"octal\"\n",
			want:    Default(),
		},
		{
			name:    "invalid toml",
			content: "not valid toml {{{\n",
			want:    Default(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Load(writePrefs(t, tt.content))
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p != tt.want {
				t.Fatalf("Load = %#v, want %#v", p, tt.want)
			}
		})
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	p := Prefs{Theme: "Slate", RenderMode: record.Hex, HasMode: true, ShowMetadata: false}
	if err := Save(path, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != p {
		t.Fatalf("Load = %#v, want %#v", loaded, p)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("prefs dir has %d entries, want only prefs.toml", len(entries))
	}
}

func TestSave_WithoutModeLeavesItToConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	if err := Save(path, Prefs{Theme: "Nightfox", RenderMode: record.Hex, ShowMetadata: true}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.HasMode {
		t.Fatalf("HasMode = true, want false when no mode was saved")
	}
}
