package layout

// DefaultPalette is the fixed ordered display palette. The first entry
// is reserved for main/master and the second for develop; remaining
// entries are handed out first-unused and then cycled once exhausted.
// Colors are based on gitk's defaults, which stay readable on both
// light and dark backgrounds.
var DefaultPalette = []string{
	"#00cc00", // main/master
	"#0055cc", // develop
	"#cc0000",
	"#aa00aa",
	"#ff8c00",
	"#008b8b",
	"#8b4513",
	"#cc0066",
	"#555555",
	"#667700",
}

// ColorAssigner maps branch names to stable display colors. The same
// name always yields the same color within an assigner's lifetime.
// main and master are pre-seeded with the first palette entry and
// develop with the second, so the most common branch names look the
// same across unrelated histories.
//
// ColorAssigner is not safe for concurrent use; construct one per
// layout call or serialize access externally.
type ColorAssigner struct {
	palette  []string
	byBranch map[string]string
	assigned map[string]bool
	cursor   int
}

// NewColorAssigner creates an assigner over palette, or over
// [DefaultPalette] when palette is empty.
func NewColorAssigner(palette []string) *ColorAssigner {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	a := &ColorAssigner{palette: palette}
	a.Reset()
	return a
}

// ColorFor returns the color for the given branch name, assigning one
// on first sight. It picks the first palette entry not yet assigned to
// another branch; once the palette is exhausted it cycles through the
// palette in order, accepting reuse. ColorFor is total: an empty name
// is a key like any other.
func (a *ColorAssigner) ColorFor(branch string) string {
	if c, ok := a.byBranch[branch]; ok {
		return c
	}
	color := ""
	for _, c := range a.palette {
		if !a.assigned[c] {
			color = c
			break
		}
	}
	if color == "" {
		color = a.palette[a.cursor%len(a.palette)]
		a.cursor++
	}
	a.byBranch[branch] = color
	a.assigned[color] = true
	return color
}

// Reset drops all cached assignments except the pre-seeded
// main/master/develop entries and rewinds the cycle cursor. Call it
// between unrelated histories to avoid color bleed and unbounded cache
// growth.
func (a *ColorAssigner) Reset() {
	a.byBranch = map[string]string{
		"main":    a.palette[0],
		"master":  a.palette[0],
		"develop": a.palette[min(1, len(a.palette)-1)],
	}
	a.assigned = make(map[string]bool, len(a.byBranch))
	for _, c := range a.byBranch {
		a.assigned[c] = true
	}
	a.cursor = 0
}
