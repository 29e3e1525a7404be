package watch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"inkframe/config"
	"inkframe/frame"
	"inkframe/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	writePNGSize(t, path, 16, 12)
}

func writePNGSize(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDebouncerCoalesces(t *testing.T) {
	var mu sync.Mutex
	fired := map[string]int{}
	db := newDebouncer(30*time.Millisecond, func(path string) {
		mu.Lock()
		fired[path]++
		mu.Unlock()
	})
	defer db.stop()

	for range 5 {
		db.trigger("a")
		db.trigger("b")
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired["a"] == 1 && fired["b"] == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, fired)
	mu.Unlock()
}

func TestDebouncerStop(t *testing.T) {
	fired := make(chan string, 1)
	db := newDebouncer(20*time.Millisecond, func(path string) { fired <- path })

	db.trigger("a")
	db.stop()
	db.trigger("b")

	select {
	case p := <-fired:
		t.Fatalf("callback fired after stop for %q", p)
	case <-time.After(80 * time.Millisecond):
	}
}

func newWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	dest := filepath.Join(dir, "framed")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	pal, _ := palette.Preset("bw")
	return &Watcher{
		Dir: dir,
		Converter: &frame.Converter{
			Palette:   pal,
			Width:     8,
			Height:    6,
			Rotate:    frame.RotateNever,
			Crop:      true,
			Dither:    true,
			Dest:      dest,
			Overwrite: true,
		},
		Delay:   20 * time.Millisecond,
		Workers: 1,
		Logger:  slog.New(slog.DiscardHandler),
	}, dest
}

func TestWants(t *testing.T) {
	w, dest := newWatcher(t)

	assert.True(t, w.wants(filepath.Join(w.Dir, "a.jpg")))
	assert.False(t, w.wants(filepath.Join(w.Dir, "a.txt")))
	assert.False(t, w.wants(filepath.Join(dest, "a_8_6.bmp")))
}

func TestUpToDate(t *testing.T) {
	w, dest := newWatcher(t)
	src := filepath.Join(w.Dir, "a.png")
	writePNG(t, src)

	assert.False(t, w.upToDate(src))

	out := filepath.Join(dest, "a_8_6.bmp")
	require.NoError(t, os.WriteFile(out, nil, 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(out, future, future))
	assert.True(t, w.upToDate(src))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(out, past, past))
	assert.False(t, w.upToDate(src))
}

func TestUpToDateWithoutCrop(t *testing.T) {
	w, dest := newWatcher(t)
	w.Converter.Crop = false

	src := filepath.Join(w.Dir, "wide.png")
	writePNGSize(t, src, 32, 8)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, past, past))

	out, err := w.Converter.Convert(slog.New(slog.DiscardHandler), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "wide_8_2.bmp"), out)

	assert.True(t, w.upToDate(src))
}

func TestRunConvertsExistingAndNewPictures(t *testing.T) {
	w, dest := newWatcher(t)
	writePNG(t, filepath.Join(w.Dir, "before.png"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	exists := func(name string) func() bool {
		return func() bool {
			_, err := os.Stat(filepath.Join(dest, name))
			return err == nil
		}
	}

	require.Eventually(t, exists("before_8_6.bmp"), 5*time.Second, 10*time.Millisecond)

	// give the watcher time to register before the new file lands
	time.Sleep(50 * time.Millisecond)
	writePNG(t, filepath.Join(w.Dir, "after.png"))
	require.Eventually(t, exists("after_8_6.bmp"), 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestCLIRunNeedsFolder(t *testing.T) {
	cfg := configWithoutWatchDir()
	assert.Error(t, (&CLICmd{}).Run(cfg))

	file := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, file)
	assert.Error(t, (&CLICmd{Dir: file}).Run(cfg))
}

func configWithoutWatchDir() *config.Config {
	cfg := config.Default()
	cfg.Watch.Dir = ""
	return cfg
}
