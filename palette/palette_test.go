package palette

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Table
	}{
		{"empty", nil, Table{}},
		{"one byte", []byte{1}, Table{}},
		{"two bytes", []byte{1, 2}, Table{}},
		{"single", []byte{1, 2, 3}, Table{{1, 2, 3}}},
		{"trailing partial", []byte{1, 2, 3, 4, 5, 6, 7, 8}, Table{{1, 2, 3}, {4, 5, 6}}},
		{"duplicates kept", []byte{9, 9, 9, 9, 9, 9}, Table{{9, 9, 9}, {9, 9, 9}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Load(tt.in))
		})
	}
}

func TestLoadDropsPartialTriple(t *testing.T) {
	for n := range 10 {
		b := bytes.Repeat([]byte{0x10}, 3*n+2)
		assert.Len(t, Load(b), n)
	}
}

func TestBytesInvertsLoad(t *testing.T) {
	raw := []byte{0, 0, 0, 255, 255, 255, 12, 34, 56}
	assert.Equal(t, raw, Load(raw).Bytes())
}

func TestIndex(t *testing.T) {
	bw := Table{{0, 0, 0}, {255, 255, 255}}

	assert.Equal(t, -1, Table{}.Index(Color{1, 2, 3}))
	assert.Equal(t, 0, bw.Index(Color{10, 20, 30}))
	assert.Equal(t, 1, bw.Index(Color{200, 128, 250}))
	assert.Equal(t, 1, bw.Index(Color{255, 255, 255}))
}

func TestIndexTieBreaksOnFirstEntry(t *testing.T) {
	c := Color{1, 1, 1}

	assert.Equal(t, 0, Table{{0, 0, 0}, {2, 2, 2}}.Index(c))
	assert.Equal(t, 0, Table{{2, 2, 2}, {0, 0, 0}}.Index(c))
	assert.Equal(t, 1, Table{{9, 9, 9}, {0, 0, 0}, {2, 2, 2}}.Index(c))
}

func TestConvert(t *testing.T) {
	assert.Equal(t, Color{7, 8, 9}, Table{}.Convert(Color{7, 8, 9}))
	assert.Equal(t, Color{255, 0, 0}, Table{{0, 0, 0}, {255, 0, 0}}.Convert(Color{180, 40, 20}))
}

func TestPaletteConversion(t *testing.T) {
	tbl, ok := Preset("spectra6")
	require.True(t, ok)

	pal := tbl.Palette()
	require.Len(t, pal, len(tbl))
	for i, c := range tbl {
		assert.Equal(t, c, pal[i])
	}

	_, _, _, a := pal[0].RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestPresets(t *testing.T) {
	names := Presets()
	assert.Contains(t, names, "spectra6")
	assert.Contains(t, names, "bw")

	for _, name := range names {
		tbl, ok := Preset(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, tbl, name)
	}

	gray, _ := Preset("gray16")
	require.Len(t, gray, 16)
	assert.Equal(t, Color{0xff, 0xff, 0xff}, gray[15])

	_, ok := Preset("nope")
	assert.False(t, ok)
}

func TestPresetIsACopy(t *testing.T) {
	a, _ := Preset("bw")
	a[0] = Color{1, 2, 3}

	b, _ := Preset("bw")
	assert.Equal(t, Color{0, 0, 0}, b[0])
}

func TestRIFFRoundTrip(t *testing.T) {
	in := []Table{
		{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}},
		{{1, 2, 3}},
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, in)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "RIFF", buf.String()[:4])
	assert.Equal(t, "PAL ", buf.String()[8:12])

	out, err := ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadFromRejectsOtherForms(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("RIFF\x04\x00\x00\x00WAVE"))
	assert.Error(t, err)
}

func TestLoadPalette(t *testing.T) {
	dir := t.TempDir()

	act := filepath.Join(dir, "frame.act")
	require.NoError(t, os.WriteFile(act, []byte{0, 0, 0, 255, 255, 255, 0x42}, 0o644))

	tbl, err := LoadPalette(act)
	require.NoError(t, err)
	assert.Equal(t, Table{{0, 0, 0}, {255, 255, 255}}, tbl)

	var buf bytes.Buffer
	_, err = WriteTo(&buf, []Table{{{10, 20, 30}}, {{40, 50, 60}}})
	require.NoError(t, err)
	pal := filepath.Join(dir, "frame.PAL")
	require.NoError(t, os.WriteFile(pal, buf.Bytes(), 0o644))

	tbl, err = LoadPalette(pal)
	require.NoError(t, err)
	assert.Equal(t, Table{{10, 20, 30}, {40, 50, 60}}, tbl)

	tbl, err = LoadPalette("bw")
	require.NoError(t, err)
	assert.Len(t, tbl, 2)

	_, err = LoadPalette(filepath.Join(dir, "missing.act"))
	assert.Error(t, err)
}

func TestWriteListing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, Table{{0, 0, 0}, {255, 128, 0}}))
	assert.Equal(t, "  0 #000000\n  1 #ff8000\n", buf.String())
}

func TestExportCmd(t *testing.T) {
	dir := t.TempDir()

	out := filepath.Join(dir, "spectra6.act")
	cmd := ExportCmd{Name: "spectra6", Out: out}
	require.NoError(t, cmd.Run())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	want, _ := Preset("spectra6")
	assert.Equal(t, want, Load(raw))

	assert.Error(t, cmd.Run(), "existing file must not be replaced")

	cmd.Overwrite = true
	cmd.Name = "bw"
	require.NoError(t, cmd.Run())
	raw, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, Load(raw), 2)

	out = filepath.Join(dir, "bw.pal")
	require.NoError(t, (&ExportCmd{Name: "bw", Out: out}).Run())
	tbl, err := LoadPalette(out)
	require.NoError(t, err)
	assert.Len(t, tbl, 2)
}
