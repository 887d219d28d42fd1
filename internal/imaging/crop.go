package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// regionAt returns the width×height rectangle whose top-left pixel sits at the
// row-major position offset within bounds.
func regionAt(bounds image.Rectangle, width, height int, offset uint) image.Rectangle {
	fullWidth := uint(bounds.Dx())
	origin := bounds.Min.Add(image.Pt(int(offset%fullWidth), int(offset/fullWidth)))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(width, height))}
}

// extractRegion copies region out of src into a new image of exactly the
// region's size. Pixels outside src are left zero: index 0 for indexed images,
// transparent otherwise.
func extractRegion(src image.Image, region image.Rectangle) image.Image {
	if p, ok := src.(*image.Paletted); ok {
		return cropPaletted(p, region)
	}

	dst := imaging.New(region.Dx(), region.Dy(), color.Transparent)
	return imaging.Paste(dst, imaging.Crop(src, region), image.Pt(0, 0))
}

// cropPaletted is the indexed counterpart of imaging.Crop, which would
// otherwise flatten the color table into NRGBA pixels.
func cropPaletted(src *image.Paletted, region image.Rectangle) *image.Paletted {
	dst := image.NewPaletted(image.Rect(0, 0, region.Dx(), region.Dy()), clonePalette(src.Palette))

	inter := region.Intersect(src.Bounds())
	if inter.Empty() {
		return dst
	}
	for y := inter.Min.Y; y < inter.Max.Y; y++ {
		si := src.PixOffset(inter.Min.X, y)
		di := dst.PixOffset(inter.Min.X-region.Min.X, y-region.Min.Y)
		copy(dst.Pix[di:di+inter.Dx()], src.Pix[si:si+inter.Dx()])
	}
	return dst
}

func clonePalette(p color.Palette) color.Palette {
	out := make(color.Palette, len(p))
	copy(out, p)
	return out
}

// clonePaletted deep-copies src with its bounds moved to the origin.
func clonePaletted(src *image.Paletted) *image.Paletted {
	return cropPaletted(src, src.Bounds())
}
