package overlay

import (
	"fmt"
	"image/color"
)

// Grid describes a coordinate grid built from ordinary overlay items.
type Grid struct {
	// Width and Height bound the area the lines cover, usually the canvas size.
	Width, Height int
	// Spacing is the distance between lines in pixels. Lines start at Spacing,
	// not at 0.
	Spacing int
	Color   color.Color
	// Labels adds an "x,y" tag at every intersection.
	Labels   bool
	FontSize int
}

// MaxGridSize caps Grid.Width and Grid.Height; larger values are clamped.
const MaxGridSize = 8192

// MaxGridLabels is the most intersections a labeled grid may have.
const MaxGridLabels = 4096

var (
	gridLabelColor      = color.NRGBA{255, 255, 255, 255}
	gridLabelBackground = color.NRGBA{0, 0, 0, 180}
)

// AddGrid appends the lines of g as 1-pixel filled rectangles, then the
// intersection labels, and returns the number of items added.
func (o *Overlay) AddGrid(g Grid) (int, error) {
	if g.Spacing <= 0 {
		return 0, fmt.Errorf("grid spacing must be positive, got %d", g.Spacing)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return 0, fmt.Errorf("grid area must be positive, got %dx%d", g.Width, g.Height)
	}
	g.Width = min(g.Width, MaxGridSize)
	g.Height = min(g.Height, MaxGridSize)

	// Lines sit at i*Spacing for i in [1, cols] and [1, rows], all < Width/Height.
	cols := (g.Width - 1) / g.Spacing
	rows := (g.Height - 1) / g.Spacing
	if g.Labels && cols*rows > MaxGridLabels {
		return 0, fmt.Errorf("grid spacing %d gives %d labeled intersections, limit is %d",
			g.Spacing, cols*rows, MaxGridLabels)
	}

	before := len(o.items)
	for i := 1; i <= cols; i++ {
		o.AddRect(i*g.Spacing, 0, 1, g.Height, g.Color, true)
	}
	for j := 1; j <= rows; j++ {
		o.AddRect(0, j*g.Spacing, g.Width, 1, g.Color, true)
	}

	if g.Labels {
		size := g.FontSize
		if size <= 0 {
			size = 10
		}
		for j := 1; j <= rows; j++ {
			for i := 1; i <= cols; i++ {
				x, y := i*g.Spacing, j*g.Spacing
				label := fmt.Sprintf("%d,%d", x, y)
				// Glyph advance is roughly 0.6em for the default font.
				w := len(label)*size*3/5 + 2
				o.AddRect(x+1, y+1, w, size+2, gridLabelBackground, true)
				o.AddText(label, x+2, y+1+size, gridLabelColor, size)
			}
		}
	}
	return len(o.items) - before, nil
}
