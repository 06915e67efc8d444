package commands

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"github.com/vormadev/assetmanager"
)

const watchDebounce = 50 * time.Millisecond

// WatchAction prints script and link tags for each bundle, then prints them
// again every time the local manifest is rewritten. Each round uses a fresh
// Manager, since a production Manager never rereads its manifest.
func WatchAction(c *cli.Context) error {
	bundles := c.Args().Slice()
	if len(bundles) == 0 {
		return errors.New("expected at least one bundle name")
	}

	m, err := newManager(c)
	if err != nil {
		return err
	}
	if m.Config().DevelopmentMode {
		return errors.New("watch needs a local manifest; the dev server manifest is never cached")
	}
	log, err := newLogger(c)
	if err != nil {
		return err
	}

	render := func() {
		m, err := newManager(c)
		if err == nil {
			err = printBundleTags(c.Context, c.App.Writer, m, bundles)
		}
		if err != nil {
			log.Error("render failed", "error", err)
		}
	}

	render()
	return watchFile(c.Context, m.Config().ManifestPath, log, render)
}

func printBundleTags(ctx context.Context, w io.Writer, m *assetmanager.Manager, bundles []string) error {
	for _, b := range bundles {
		script, err := m.GetScriptTag(ctx, b, "", assetmanager.ScriptLoadNormal)
		if err != nil {
			return err
		}
		link, err := m.GetLinkTag(ctx, b, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)
		for _, tag := range []template.HTML{script, link} {
			if tag != "" {
				fmt.Fprintf(w, "  %s\n", tag)
			}
		}
	}
	return nil
}

// watchFile calls onChange, debounced, whenever file is written, created or
// renamed into place. The parent directory is watched because build tools
// usually replace the manifest rather than write it in place.
func watchFile(ctx context.Context, file string, log *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching manifest", "path", abs)

	d := newDebouncer(watchDebounce, onChange)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != abs || !evt.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("manifest changed", "op", evt.Op.String())
			d.trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)
		}
	}
}

// debouncer coalesces bursts of triggers into one callback. Callbacks never
// overlap; a trigger during a callback schedules one more run.
type debouncer struct {
	duration time.Duration
	callback func()
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	inFlight bool
	pending  bool
}

func newDebouncer(d time.Duration, cb func()) *debouncer {
	return &debouncer{duration: d, callback: cb}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.inFlight {
		d.pending = true
		d.mu.Unlock()
		return
	}
	d.inFlight = true
	d.mu.Unlock()

	d.callback()

	d.mu.Lock()
	d.inFlight = false
	if d.pending && !d.stopped {
		d.pending = false
		d.timer = time.AfterFunc(d.duration, d.flush)
	}
	d.mu.Unlock()
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
