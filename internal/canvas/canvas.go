// Package canvas provides a raster drawing surface for rendering overlays.
//
// Canvas implements overlay.Surface on top of a gg context. Text uses the
// embedded Go Regular font at 72 DPI, so font sizes are pixel heights.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ironsheep/overlay-tools-mcp/internal/imaging"
)

// DefaultFontSize is the pixel size used until SetFontSize is called.
const DefaultFontSize = 12

var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	fontErr     error
)

// loadFont parses the embedded Go regular font once.
func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse embedded font: %w", err)
			return
		}
		regularFont = parsed
	})
	return regularFont, fontErr
}

// Canvas is an in-memory RGBA drawing surface.
type Canvas struct {
	dc       *gg.Context
	fontSize int
	faces    map[int]font.Face
}

// New returns a width×height canvas filled with background. A nil background
// leaves the canvas transparent.
func New(width, height int, background color.Color) *Canvas {
	dc := gg.NewContext(width, height)
	if background != nil {
		dc.SetColor(background)
		dc.Clear()
	}
	return newCanvas(dc)
}

// NewFromImage returns a canvas initialized with a copy of base. base itself
// is never drawn on.
func NewFromImage(base image.Image) *Canvas {
	return newCanvas(gg.NewContextForImage(base))
}

func newCanvas(dc *gg.Context) *Canvas {
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	return &Canvas{
		dc:       dc,
		fontSize: DefaultFontSize,
		faces:    make(map[int]font.Face),
	}
}

// SetFontSize sets the pixel size for later DrawText calls. Non-positive
// sizes are ignored and the previous size stays active.
func (c *Canvas) SetFontSize(px int) {
	if px > 0 {
		c.fontSize = px
	}
}

// SetColor sets the active color. A nil color selects black.
func (c *Canvas) SetColor(col color.Color) {
	if col == nil {
		col = color.Black
	}
	c.dc.SetColor(col)
}

// DrawText draws text in the active color with its baseline starting at (x, y).
func (c *Canvas) DrawText(text string, x, y int) {
	if text == "" {
		return
	}
	face, err := c.face(c.fontSize)
	if err != nil {
		log.Printf("canvas: %v", err)
		return
	}
	c.dc.SetFontFace(face)
	c.dc.DrawString(text, float64(x), float64(y))
}

// FillRect fills the rectangle with col without changing the active color.
func (c *Canvas) FillRect(x, y, width, height int, col color.Color) {
	if col == nil {
		col = color.Black
	}
	c.dc.Push()
	defer c.dc.Pop()
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(width), float64(height))
	c.dc.Fill()
}

// StrokeRect draws a one pixel outline in the active color. The outline covers
// columns x and x+width and rows y and y+height.
func (c *Canvas) StrokeRect(x, y, width, height int) {
	c.dc.SetLineWidth(1)
	c.dc.DrawRectangle(float64(x)+0.5, float64(y)+0.5, float64(width), float64(height))
	c.dc.Stroke()
}

// DrawImage composites img over the canvas with its top-left corner at (x, y).
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	if img == nil {
		return
	}
	c.dc.DrawImage(img, x, y)
}

// face returns a cached font face for the given pixel size.
func (c *Canvas) face(px int) (font.Face, error) {
	if f, ok := c.faces[px]; ok {
		return f, nil
	}
	parsed, err := loadFont()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	c.faces[px] = f
	return f, nil
}

// Image returns the canvas pixels. The image is live: later drawing changes it.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.dc.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.dc.Height() }

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// RenderResult contains a rendered canvas encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Items       int    `json:"items"`
}

// Result encodes the canvas. items is reported back unchanged so callers can
// tell how many overlay items contributed to the picture.
func (c *Canvas) Result(items int) (*RenderResult, error) {
	encoded, err := imaging.EncodePNGBase64(c.dc.Image())
	if err != nil {
		return nil, err
	}
	return &RenderResult{
		Width:       c.Width(),
		Height:      c.Height(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Items:       items,
	}, nil
}

// Close releases cached font faces.
func (c *Canvas) Close() error {
	for px, f := range c.faces {
		f.Close()
		delete(c.faces, px)
	}
	return nil
}
