package render

// DefaultPalette is used for routes whose feed does not declare a color.
// Twenty visually distinct colors; routes beyond that share colors.
var DefaultPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
	"#aaffc3", "#808000", "#ffd8b1", "#000075", "#808080",
}

// Palette assigns colors to route keys. Each previously unseen key gets the
// next unused palette entry, wrapping around once the palette is exhausted.
// Assignment depends only on the order keys are first requested, so callers
// that iterate their routes in a fixed order get identical colors on every
// run.
type Palette struct {
	colors   []string
	assigned map[string]string
	next     int
}

// NewPalette returns a palette over the given colors, or over DefaultPalette
// when colors is empty.
func NewPalette(colors []string) *Palette {
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	return &Palette{
		colors:   colors,
		assigned: map[string]string{},
	}
}

// ColorFor returns the color assigned to key, allocating one on first use.
func (p *Palette) ColorFor(key string) string {
	if color, ok := p.assigned[key]; ok {
		return color
	}
	color := p.colors[p.next%len(p.colors)]
	p.next++
	p.assigned[key] = color
	return color
}
