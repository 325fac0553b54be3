package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/aturpin0504/scancfg/internal/settings"
)

const reloadWindow = 250 * time.Millisecond

// Watcher reloads the settings document when another process rewrites it.
// It watches the document's parent directory rather than the file itself:
// editors and atomic writers replace the file by rename, which would
// otherwise detach a direct watch. It never watches the monitored
// directories the document describes.
type Watcher struct {
	store    *Store
	onReload func(*settings.Settings, settings.LoadStats)

	fsw      *fsnotify.Watcher
	debounce *reloadDebouncer
}

// NewWatcher returns a Watcher that calls onReload with each successfully
// reassembled document.
func NewWatcher(store *Store, onReload func(*settings.Settings, settings.LoadStats)) *Watcher {
	return &Watcher{store: store, onReload: onReload}
}

// Start watches until ctx is cancelled. Call Stop for ordered teardown.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	dir := filepath.Dir(w.store.Path)
	if err := fsw.Add(dir); err != nil {
		return err
	}

	log := zerolog.Ctx(ctx)
	w.debounce = newReloadDebouncer(reloadWindow, func() {
		w.reload(ctx)
	})

	target := filepath.Base(w.store.Path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !concernsDocument(ev, target) {
				continue
			}
			w.debounce.Feed()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

// Stop drops any pending reload and closes the directory watch.
func (w *Watcher) Stop() {
	if w.debounce != nil {
		w.debounce.Stop()
	}
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
}

// reload reassembles the document after the debounce window settles. A
// failing load is logged and skipped: mid-rewrite reads and transient
// deletes resolve themselves on the next event.
func (w *Watcher) reload(ctx context.Context) {
	s, stats, err := w.store.Load(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("reload skipped")
		return
	}
	zerolog.Ctx(ctx).Info().Str("stats", stats.Summary()).Msg("settings reloaded")
	w.onReload(s, stats)
}

// concernsDocument reports whether ev is a change to the watched document.
// Create and rename count alongside write: atomic writers surface as a
// rename onto the target name.
func concernsDocument(ev fsnotify.Event, target string) bool {
	if filepath.Base(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}
