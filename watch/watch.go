// Package watch converts pictures as they are dropped into a folder.
package watch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"inkframe/frame"
	"inkframe/parallel"

	"github.com/fsnotify/fsnotify"
)

// Watcher converts every picture of Dir on start and then each picture that
// is created or rewritten there. Sub-folders are not watched.
type Watcher struct {
	Dir       string
	Converter *frame.Converter
	Delay     time.Duration
	Workers   int
	Logger    *slog.Logger

	mu     sync.Mutex
	closed bool
	pool   *parallel.Pool
}

// Run blocks until ctx is cancelled, then waits for in-flight conversions.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}

	w.pool = parallel.Start(w.Workers)
	db := newDebouncer(w.Delay, w.submit)

	w.initialScan()
	w.Logger.Info("watching", "dir", w.Dir, "dest", w.Converter.Dest)

	w.eventLoop(ctx, fw, db)

	db.stop()
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.Logger.Info("waiting for in-flight conversions")
	stats := w.pool.Wait()
	w.Logger.Info("stats", "processed", stats.Processed, "errors", stats.Failed, "total", stats.Total())
	return nil
}

func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher, db *debouncer) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if w.wants(ev.Name) {
				db.trigger(ev.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.Logger.Error("watcher error", "error", err)
		}
	}
}

// initialScan converts pictures that have no bitmap yet or changed since.
func (w *Watcher) initialScan() {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		w.Logger.Error("unable to read folder", "dir", w.Dir, "error", err)
		return
	}

	for _, entry := range entries {
		path := filepath.Join(w.Dir, entry.Name())
		if entry.IsDir() || !w.wants(path) || w.upToDate(path) {
			continue
		}
		w.submit(path)
	}
}

func (w *Watcher) wants(path string) bool {
	if !frame.IsImage(path) {
		return false
	}
	// bitmaps written next to their sources must not be picked up again
	return filepath.Clean(filepath.Dir(path)) != filepath.Clean(w.Converter.Dest)
}

// upToDate reports whether the bitmap for path is at least as recent as path
// itself. Only the picture header is read to work out the bitmap's size.
func (w *Watcher) upToDate(path string) bool {
	src, err := os.Stat(path)
	if err != nil {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return false
	}

	c := w.Converter
	base := filepath.Base(path)
	// EXIF orientation may turn the picture before it is rendered
	for _, size := range [][2]int{{cfg.Width, cfg.Height}, {cfg.Height, cfg.Width}} {
		width, height := c.OutputSize(size[0], size[1])
		out, err := os.Stat(filepath.Join(c.Dest, frame.OutputName(base, "bmp", width, height)))
		if err == nil && !out.ModTime().Before(src.ModTime()) {
			return true
		}
	}
	return false
}

func (w *Watcher) submit(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.pool.Do(func() error {
		logger := w.Logger.With("file", path)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Debug("file vanished before conversion")
			return nil
		}
		if _, err := w.Converter.Convert(logger, path); err != nil {
			logger.Error("could not convert image", "error", err)
			return err
		}
		return nil
	})
}
