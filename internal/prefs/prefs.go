// Package prefs persists what the viewer lets users change at runtime: the
// theme, the render mode and the metadata gutter. The file lives at
// ~/.config/portscope/prefs.toml and is rewritten on every change.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/portscope/internal/config"
	"github.com/five82/portscope/internal/record"
)

// Prefs are the saved viewer settings. HasMode is false until a render mode
// has been saved; the config file decides until then.
type Prefs struct {
	Theme        string
	RenderMode   record.Mode
	HasMode      bool
	ShowMetadata bool
}

// fileFormat is the on-disk layout. Pointers tell "absent" from "false".
type fileFormat struct {
	Theme        string `toml:"theme"`
	RenderMode   string `toml:"render_mode,omitempty"`
	ShowMetadata *bool  `toml:"show_metadata,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/portscope/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used before anything was saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, ShowMetadata: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path (empty uses the default location). A
// missing or unreadable file yields Default; only an unresolvable path is an
// error.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default(), nil
	}
	var raw fileFormat
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), nil
	}
	return raw.decode(), nil
}

func (f fileFormat) decode() Prefs {
	p := Default()
	if theme := strings.TrimSpace(f.Theme); theme != "" {
		p.Theme = theme
	}
	if f.ShowMetadata != nil {
		p.ShowMetadata = *f.ShowMetadata
	}
	if strings.TrimSpace(f.RenderMode) != "" {
		if mode, err := record.ParseMode(f.RenderMode); err == nil {
			p.RenderMode = mode
			p.HasMode = true
		}
	}
	return p
}

// Save writes preferences to path, creating directories as needed. The file
// is replaced atomically so a crash never leaves it half written.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	raw := fileFormat{Theme: p.Theme, ShowMetadata: &p.ShowMetadata}
	if p.HasMode {
		raw.RenderMode = p.RenderMode.String()
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
