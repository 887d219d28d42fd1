package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Request describes how to turn a source image file into an overlay pixel buffer.
type Request struct {
	// Path is passed to the Loader unchanged.
	Path string

	// Width and Height of the region to extract. Values <= 0 select the full
	// source dimension.
	Width  int
	Height int

	// Offset is the row-major index of the region's top-left pixel in the source.
	Offset uint

	XFlip bool
	YFlip bool

	// Palette overwrites color table entries 0..len(Palette)-1 of indexed
	// images. Nil entries leave the existing color in place.
	Palette []color.Color

	// SetTransparency forces color table entry 0 to fully transparent. It is
	// applied after Palette.
	SetTransparency bool
}

// Prepare runs the transform pipeline for req and returns a new image owned
// by the caller.
//
// Steps, in order:
//  1. Load the image; a missing, undecodable, or empty image fails with *LoadError.
//  2. Resolve non-positive Width/Height to the full source dimensions.
//  3. Fail with *OutOfBoundsError when Width*Height + Offset exceeds the pixel count.
//  4. Extract the sub-region at Offset unless the full image was requested.
//  5. Mirror horizontally and/or vertically.
//  6. Remap the color table (indexed images only).
//  7. Make index 0 transparent (indexed images only).
//
// The image returned by the loader is never modified, so cached images can be
// shared safely between requests.
func Prepare(loader Loader, req Request) (image.Image, error) {
	src, err := loader.GetImage(req.Path)
	if err != nil || src == nil || src.Bounds().Empty() {
		return nil, &LoadError{Path: req.Path, Err: err}
	}

	bounds := src.Bounds()
	fullWidth, fullHeight := bounds.Dx(), bounds.Dy()

	width, height := req.Width, req.Height
	if width <= 0 {
		width = fullWidth
	}
	if height <= 0 {
		height = fullHeight
	}

	if int64(width)*int64(height)+int64(req.Offset) > int64(fullWidth)*int64(fullHeight) {
		return nil, &OutOfBoundsError{
			Path:       req.Path,
			Width:      width,
			Height:     height,
			Offset:     req.Offset,
			FullWidth:  fullWidth,
			FullHeight: fullHeight,
		}
	}

	img := src
	owned := false
	if width != fullWidth || height != fullHeight {
		img = extractRegion(src, regionAt(bounds, width, height, req.Offset))
		owned = true
	}

	if req.XFlip || req.YFlip {
		img = Flip(img, req.XFlip, req.YFlip)
		owned = true
	}

	if !owned {
		img = cloneImage(img)
	}

	if p, ok := img.(*image.Paletted); ok {
		RemapPalette(p, req.Palette)
		if req.SetTransparency && len(p.Palette) > 0 {
			p.Palette[0] = color.NRGBA{}
		}
	}

	return img, nil
}

// Flip mirrors img horizontally when xflip is set and vertically when yflip is
// set. Setting both yields a point reflection. Indexed images keep their color
// table; other images come back as *image.RGBA. The result is always a new image.
func Flip(img image.Image, xflip, yflip bool) image.Image {
	if p, ok := img.(*image.Paletted); ok {
		return flipPaletted(p, xflip, yflip)
	}
	if !xflip && !yflip {
		return cloneImage(img)
	}
	if xflip {
		img = transform.FlipH(img)
	}
	if yflip {
		img = transform.FlipV(img)
	}
	return img
}

func flipPaletted(src *image.Paletted, xflip, yflip bool) *image.Paletted {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewPaletted(image.Rect(0, 0, w, h), clonePalette(src.Palette))

	for y := 0; y < h; y++ {
		dy := y
		if yflip {
			dy = h - 1 - y
		}
		srow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		drow := dst.Pix[dst.PixOffset(0, dy):]
		for x := 0; x < w; x++ {
			dx := x
			if xflip {
				dx = w - 1 - x
			}
			drow[dx] = srow[x]
		}
	}
	return dst
}

// RemapPalette overwrites p's color table sequentially from index 0. Entries at
// or beyond len(palette) keep their color, and palette entries past the end of
// the table are ignored.
func RemapPalette(p *image.Paletted, palette []color.Color) {
	for i, c := range palette {
		if i >= len(p.Palette) {
			return
		}
		if c != nil {
			p.Palette[i] = c
		}
	}
}

// cloneImage returns a deep copy of img. Indexed images stay indexed.
func cloneImage(img image.Image) image.Image {
	if p, ok := img.(*image.Paletted); ok {
		return clonePaletted(p)
	}
	return imaging.Clone(img)
}
