package layout

// palette holds the fixed depth-cycled node colors. Five entries; depths
// wrap around with modular arithmetic, so depth d and depth d+5 share a
// color.
var palette = [5]string{
	"#4e79a7", // blue
	"#f28e2b", // orange
	"#59a14f", // green
	"#e15759", // red
	"#b07aa1", // purple
}

// PaletteSize is the number of distinct color tokens.
const PaletteSize = len(palette)

// ColorToken returns the color token for a node at the given depth.
// It is a pure, total function of depth: ColorToken(d) == ColorToken(d+5)
// for every d >= 0. Negative depths are clamped to 0.
func ColorToken(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return palette[depth%PaletteSize]
}

// Palette returns a copy of the color palette in depth order.
func Palette() []string {
	p := palette
	return p[:]
}
