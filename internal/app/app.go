package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/portscope/internal/config"
	"github.com/five82/portscope/internal/engine"
	"github.com/five82/portscope/internal/feed"
	"github.com/five82/portscope/internal/logtail"
	"github.com/five82/portscope/internal/prefs"
	"github.com/five82/portscope/internal/record"
	"github.com/five82/portscope/internal/scroll"
	"github.com/five82/portscope/internal/ui"
)

// Options configure the viewer. Non-empty values override the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/portscope/prefs.toml
	FeedURL    string
	FollowFile string
	LoadFile   string
	Poll       time.Duration
}

// Run boots the viewer until the UI exits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	if userPrefs.HasMode {
		cfg.RenderMode = userPrefs.RenderMode
	}

	closeLog := redirectLog(cfg.LogFile)
	defer closeLog()

	store := record.NewStore(cfg.Capacity)
	if opts.LoadFile != "" {
		recs, err := logtail.ReadFile(opts.LoadFile, cfg.Capacity)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		store.Replace(recs)
	}

	eng := engine.New(store, engine.Options{
		CrossLineWindow: cfg.CrossLineWindow,
		MaxContext:      cfg.MaxContext,
		Mode:            cfg.RenderMode,
		Scroll: scroll.Options{
			Tolerance:      followTolerance(cfg.FollowTolerance),
			Debounce:       cfg.VisibleDebounce,
			ManualOverride: cfg.ManualOverride,
		},
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	program := ui.NewProgram(gctx, ui.Options{
		Engine:    eng,
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
	sink := notifier{store: store, program: program}

	if cfg.FeedURL != "" {
		client, err := feed.NewClient(cfg.FeedURL)
		if err != nil {
			return fmt.Errorf("init feed client: %w", err)
		}
		poller := feed.NewPoller(client, sink, cfg.PollInterval)
		g.Go(func() error { return poller.Run(gctx) })
	}

	if cfg.FollowFile != "" {
		path := cfg.FollowFile
		g.Go(func() error {
			err := logtail.Follow(gctx, path, logtail.FollowOptions{}, func(recs []record.Record) {
				sink.Append(recs...)
			})
			if err != nil {
				// The viewer stays up without the file feed.
				log.Printf("follow %s failed: %v", path, err)
				sink.Append(record.Textual(record.Error, fmt.Sprintf("follow %s: %v", path, err)))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// notifier appends to the store and wakes the UI so it syncs without waiting
// for the next tick.
type notifier struct {
	store   *record.Store
	program interface{ Send(tea.Msg) }
}

func (n notifier) Append(recs ...record.Record) int {
	added := n.store.Append(recs...)
	if added > 0 {
		n.program.Send(ui.AppendedMsg{})
	}
	return added
}

// followTolerance maps the config value, where 0 is meaningful, onto the
// scroll options, where 0 selects the default.
func followTolerance(rows int) int {
	if rows == 0 {
		return scroll.ExactTail
	}
	return rows
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.FeedURL != "" {
		cfg.FeedURL = opts.FeedURL
	}
	if opts.FollowFile != "" {
		cfg.FollowFile = opts.FollowFile
	}
	if opts.Poll > 0 {
		cfg.PollInterval = opts.Poll
	}
}

// redirectLog sends the standard logger to path while the TUI owns the
// terminal. Without a usable file, log output is discarded.
func redirectLog(path string) func() {
	log.SetOutput(io.Discard)
	restore := func() { log.SetOutput(os.Stderr) }
	if path == "" {
		return restore
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return restore
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return restore
	}
	log.SetOutput(file)
	return func() {
		restore()
		_ = file.Close()
	}
}
