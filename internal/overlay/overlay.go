package overlay

import (
	"errors"
	"image"
	"image/color"

	"github.com/ironsheep/overlay-tools-mcp/internal/imaging"
)

// ErrEmptyImage is returned by AddRawImage for a nil or zero-sized image.
var ErrEmptyImage = errors.New("empty custom image")

// Logger receives error messages for failed overlay operations.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Overlay is an ordered collection of drawable items plus a visibility flag.
//
// Items render in insertion order. An Overlay is not safe for concurrent use;
// all mutation and rendering must happen on one goroutine or behind a single
// lock held by the caller.
type Overlay struct {
	items  []Item
	hidden bool

	loader imaging.Loader
	logger Logger
}

// New returns an empty, visible overlay. Images added by path are resolved
// through loader; failures are reported to logger, which may be nil.
func New(loader imaging.Loader, logger Logger) *Overlay {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Overlay{loader: loader, logger: logger}
}

// AddText appends a text item. It always succeeds.
func (o *Overlay) AddText(text string, x, y int, c color.Color, fontSize int) {
	o.items = append(o.items, Text{X: x, Y: y, Text: text, Color: c, FontSize: fontSize})
}

// AddRect appends a filled or outlined rectangle. It always succeeds.
func (o *Overlay) AddRect(x, y, width, height int, c color.Color, filled bool) {
	o.items = append(o.items, Rect{X: x, Y: y, Width: width, Height: height, Color: c, Filled: filled})
}

// AddImage runs the image transform pipeline for req and appends the result at
// (x, y). On failure the error is logged, nothing is appended, and the error is
// returned; it matches imaging.ErrImageLoad or imaging.ErrOutOfBounds.
func (o *Overlay) AddImage(x, y int, req imaging.Request) error {
	if o.loader == nil {
		err := &imaging.LoadError{Path: req.Path}
		o.logger.Printf("%v", err)
		return err
	}
	img, err := imaging.Prepare(o.loader, req)
	if err != nil {
		o.logger.Printf("%v", err)
		return err
	}
	o.items = append(o.items, Image{X: x, Y: y, Pixels: img})
	return nil
}

// AddRawImage appends img at (x, y) without any processing. The overlay takes
// ownership of img. A nil or empty image is logged and rejected.
func (o *Overlay) AddRawImage(x, y int, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		o.logger.Printf("Failed to load custom image")
		return ErrEmptyImage
	}
	o.items = append(o.items, Image{X: x, Y: y, Pixels: img})
	return nil
}

// RenderItems draws every item in insertion order, or nothing when hidden.
//
// The traversal works on the item sequence as it was when the call started, so
// items added or cleared by a Surface callback take effect on the next pass.
func (o *Overlay) RenderItems(s Surface) {
	if o.hidden {
		return
	}
	for _, item := range o.items {
		item.Render(s)
	}
}

// ClearItems drops every item. Calling it on an empty overlay does nothing.
func (o *Overlay) ClearItems() {
	o.items = nil
}

// Items returns a copy of the item sequence in paint order.
func (o *Overlay) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Len returns the number of items.
func (o *Overlay) Len() int { return len(o.items) }

// SetHidden sets the visibility flag. Items are kept while hidden.
func (o *Overlay) SetHidden(hidden bool) { o.hidden = hidden }

// Hidden reports whether RenderItems currently draws nothing.
func (o *Overlay) Hidden() bool { return o.hidden }
