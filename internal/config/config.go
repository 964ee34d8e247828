package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/portscope/internal/record"
)

// Config holds every tunable of the viewer.
type Config struct {
	Capacity        int
	CrossLineWindow int
	MaxContext      int
	InputDebounce   time.Duration
	VisibleDebounce time.Duration
	FollowTolerance int
	ManualOverride  time.Duration
	RenderMode      record.Mode
	FeedURL         string
	FollowFile      string
	PollInterval    time.Duration
	LogFile         string
	ExportDir       string
}

const (
	defaultConfigPath      = "~/.config/portscope/config.toml"
	defaultLogFile         = "~/.local/state/portscope/portscope.log"
	defaultCapacity        = 10000
	defaultCrossLineWindow = 5
	defaultMaxContext      = 10
	defaultInputDebounce   = 300 * time.Millisecond
	defaultVisibleDebounce = 50 * time.Millisecond
	defaultFollowTolerance = 2
	defaultManualOverride  = time.Second
	defaultPollInterval    = 500 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Capacity:        defaultCapacity,
		CrossLineWindow: defaultCrossLineWindow,
		MaxContext:      defaultMaxContext,
		InputDebounce:   defaultInputDebounce,
		VisibleDebounce: defaultVisibleDebounce,
		FollowTolerance: defaultFollowTolerance,
		ManualOverride:  defaultManualOverride,
		RenderMode:      record.ASCII,
		PollInterval:    defaultPollInterval,
		LogFile:         mustExpand(defaultLogFile),
		ExportDir:       ".",
	}
}

type rawConfig struct {
	Capacity          int    `toml:"capacity"`
	CrossLineWindow   int    `toml:"cross_line_window"`
	MaxContext        int    `toml:"max_context"`
	InputDebounceMS   int    `toml:"input_debounce_ms"`
	VisibleDebounceMS int    `toml:"visible_debounce_ms"`
	FollowTolerance   *int   `toml:"follow_tolerance"`
	ManualOverrideMS  int    `toml:"manual_override_ms"`
	RenderMode        string `toml:"render_mode"`
	FeedURL           string `toml:"feed_url"`
	FollowFile        string `toml:"follow_file"`
	PollMS            int    `toml:"poll_ms"`
	LogFile           string `toml:"log_file"`
	ExportDir         string `toml:"export_dir"`
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Empty or non-positive values keep their defaults, except
// follow_tolerance where 0 means the exact tail.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	positive(&cfg.Capacity, raw.Capacity)
	positive(&cfg.CrossLineWindow, raw.CrossLineWindow)
	positive(&cfg.MaxContext, raw.MaxContext)
	if raw.FollowTolerance != nil && *raw.FollowTolerance >= 0 {
		cfg.FollowTolerance = *raw.FollowTolerance
	}
	millis(&cfg.InputDebounce, raw.InputDebounceMS)
	millis(&cfg.VisibleDebounce, raw.VisibleDebounceMS)
	millis(&cfg.ManualOverride, raw.ManualOverrideMS)
	millis(&cfg.PollInterval, raw.PollMS)

	if mode := strings.TrimSpace(raw.RenderMode); mode != "" {
		parsed, err := record.ParseMode(mode)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.RenderMode = parsed
	}

	cfg.FeedURL = strings.TrimSpace(raw.FeedURL)
	if follow := strings.TrimSpace(raw.FollowFile); follow != "" {
		cfg.FollowFile = mustExpand(follow)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if exportDir := strings.TrimSpace(raw.ExportDir); exportDir != "" {
		cfg.ExportDir = mustExpand(exportDir)
	}

	return cfg, nil
}

// ExportPath returns the file an export taken at t is written to.
func (c Config) ExportPath(t time.Time) string {
	dir := strings.TrimSpace(c.ExportDir)
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "portscope-"+t.Format("20060102-150405")+".log")
}

func positive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func millis(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
