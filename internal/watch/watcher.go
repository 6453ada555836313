// Package watch keeps documentation in sync with a package source tree.
// It combines a recursive filesystem watcher with a periodic full rebuild
// and optional metrics and build event publishing.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// SourceWatcher monitors a package tree for changes to module files.
// Relevant changes are coalesced into the Events channel.
type SourceWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	ext     string
	marker  string

	Events chan struct{}
}

// NewSourceWatcher creates a watcher for the package directory.
func NewSourceWatcher(dir, ext, marker string) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve watch directory: %w", err)
	}

	return &SourceWatcher{
		watcher: watcher,
		dir:     abs,
		ext:     ext,
		marker:  marker,
		Events:  make(chan struct{}, 1),
	}, nil
}

// Start registers the package tree and begins dispatching events until the
// context is canceled.
func (w *SourceWatcher) Start(ctx context.Context) error {
	err := filepath.WalkDir(w.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("failed to watch package tree: %w", err)
	}

	slog.Info("watching package tree", logfields.Path(w.dir))
	go w.loop(ctx)
	return nil
}

// Close shuts down the underlying watcher.
func (w *SourceWatcher) Close() error {
	return w.watcher.Close()
}

func (w *SourceWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", logfields.Error(err))
		}
	}
}

func (w *SourceWatcher) handle(event fsnotify.Event) {
	// New directories need to be registered to keep the watch recursive.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				slog.Warn("failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return
		}
	}

	if !w.relevant(event.Name) {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	slog.Debug("source change detected", logfields.Path(event.Name))
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// relevant reports whether a path is a module file of the watched package.
func (w *SourceWatcher) relevant(path string) bool {
	base := filepath.Base(path)
	return base == w.marker || strings.HasSuffix(base, w.ext)
}
