// Package palette holds the ordered colour sequences used for clouds and trend lines.
package palette

import (
	"fmt"
	"sort"
)

// Default is the palette used when none is configured.
const Default = "nuuk"

// Palette is an ordered list of hex colours.
type Palette []string

var palettes = map[string]Palette{
	"nuuk": {
		"#05598c", "#296284", "#4a7283", "#6f878d", "#929c96",
		"#abad96", "#bab98d", "#c7c684", "#e0e08e", "#fefeb2",
	},
	"imola": {
		"#1a33b3", "#2446a9", "#2e599f", "#3a6a98", "#4a7c92",
		"#5b8f8b", "#6da484", "#80ba7b", "#9ad374", "#ffff66",
	},
	"buda": {
		"#b301b3", "#b32ba8", "#b8469f", "#be5e97", "#c4748e",
		"#cb8a86", "#d1a07d", "#d7b675", "#dece6d", "#ffff66",
	},
	"romaO": {
		"#733957", "#7e3f3f", "#8a5531", "#a07333", "#ba9a4b", "#cec07a",
		"#c7d8a9", "#9cd1c5", "#6ab0c8", "#5282b7", "#55568f", "#733957",
	},
	"hawaii": {
		"#8c0273", "#922a59", "#964742", "#996330", "#9d831e",
		"#97a51b", "#7dc35b", "#5fd398", "#50dcc4", "#b3f2fd",
	},
}

// Get returns the named palette.
func Get(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names lists the available palettes, sorted.
func Names() []string {
	out := make([]string, 0, len(palettes))
	for name := range palettes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Color returns the colour at index i, clamped to the palette bounds.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		return ""
	}
	return p[max(0, min(len(p)-1, i))]
}
