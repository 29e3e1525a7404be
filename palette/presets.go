package palette

import (
	"maps"
	"slices"
)

// raw RGB triples, parsed with Load
var presets = map[string][]byte{
	"bw": {
		0x00, 0x00, 0x00,
		0xff, 0xff, 0xff,
	},
	"gray4": {
		0x00, 0x00, 0x00,
		0x55, 0x55, 0x55,
		0xaa, 0xaa, 0xaa,
		0xff, 0xff, 0xff,
	},
	"gray16": gray16(),
	// E Ink Spectra 6
	"spectra6": {
		0x00, 0x00, 0x00,
		0xff, 0xff, 0xff,
		0xff, 0xff, 0x00,
		0xff, 0x00, 0x00,
		0x00, 0x00, 0xff,
		0x00, 0xff, 0x00,
	},
	// E Ink ACeP 7-color (Gallery Palette)
	"acep7": {
		0x00, 0x00, 0x00,
		0xff, 0xff, 0xff,
		0x00, 0xff, 0x00,
		0x00, 0x00, 0xff,
		0xff, 0x00, 0x00,
		0xff, 0xff, 0x00,
		0xff, 0x80, 0x00,
	},
	"vga16": {
		0x00, 0x00, 0x00,
		0x00, 0x00, 0xaa,
		0x00, 0xaa, 0x00,
		0x00, 0xaa, 0xaa,
		0xaa, 0x00, 0x00,
		0xaa, 0x00, 0xaa,
		0xaa, 0x55, 0x00,
		0xaa, 0xaa, 0xaa,
		0x55, 0x55, 0x55,
		0x55, 0x55, 0xff,
		0x55, 0xff, 0x55,
		0x55, 0xff, 0xff,
		0xff, 0x55, 0x55,
		0xff, 0x55, 0xff,
		0xff, 0xff, 0x55,
		0xff, 0xff, 0xff,
	},
}

func gray16() []byte {
	b := make([]byte, 0, 16*3)
	for i := range 16 {
		v := byte(i * 0x11)
		b = append(b, v, v, v)
	}
	return b
}

// Preset returns a fresh copy of a built-in palette.
func Preset(name string) (Table, bool) {
	b, ok := presets[name]
	if !ok {
		return nil, false
	}
	return Load(b), true
}

// Presets lists the built-in palette names in sorted order.
func Presets() []string {
	return slices.Sorted(maps.Keys(presets))
}
