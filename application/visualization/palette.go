package visualization

import "github.com/cespare/xxhash/v2"

// NeutralColor is used for untagged nodes
const NeutralColor = "#9ca3af"

// Palette is the fixed set of node colors a first tag hashes into
var Palette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// ColorFor maps a tag to a palette color. The same tag always yields the
// same color, across sessions too.
func ColorFor(tag string) string {
	if tag == "" {
		return NeutralColor
	}
	return Palette[xxhash.Sum64String(tag)%uint64(len(Palette))]
}
