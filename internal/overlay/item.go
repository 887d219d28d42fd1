package overlay

import (
	"image"
	"image/color"
)

// Surface is the drawing backend an overlay renders onto.
//
// Implementations keep an active font size and color, which Text and stroked
// Rect items set before drawing. FillRect takes its color explicitly and must
// not change the active color.
type Surface interface {
	SetFontSize(px int)
	SetColor(c color.Color)
	// DrawText draws text with its baseline origin at (x, y).
	DrawText(text string, x, y int)
	FillRect(x, y, width, height int, c color.Color)
	// StrokeRect outlines the rectangle with the active color.
	StrokeRect(x, y, width, height int)
	// DrawImage blits img with its top-left corner at (x, y), unscaled.
	DrawImage(img image.Image, x, y int)
}

// Item is one drawable unit of an overlay.
//
// The three implementations are Text, Rect, and Image. Items are values and
// are never modified after they are added.
type Item interface {
	Render(s Surface)
}

// Text draws a string in a single color.
type Text struct {
	X, Y     int
	Text     string
	Color    color.Color
	FontSize int
}

func (t Text) Render(s Surface) {
	s.SetFontSize(t.FontSize)
	s.SetColor(t.Color)
	s.DrawText(t.Text, t.X, t.Y)
}

// Rect draws a filled or outlined rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
	Color         color.Color
	Filled        bool
}

func (r Rect) Render(s Surface) {
	if r.Filled {
		s.FillRect(r.X, r.Y, r.Width, r.Height, r.Color)
		return
	}
	s.SetColor(r.Color)
	s.StrokeRect(r.X, r.Y, r.Width, r.Height)
}

// Image draws a pixel buffer that was fully processed before the item was
// created. The buffer is owned by the item; callers reading it through Items
// must not modify it.
type Image struct {
	X, Y   int
	Pixels image.Image
}

func (i Image) Render(s Surface) {
	s.DrawImage(i.Pixels, i.X, i.Y)
}
