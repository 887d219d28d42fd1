// Package imaging loads source images and turns them into overlay pixel buffers.
//
// This package implements image acquisition (a path-keyed cache with optional file
// monitoring), color string parsing, and the transform pipeline used by overlay
// image items: sub-region extraction by row-major offset, horizontal and vertical
// flips, color table remapping, and transparency injection.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Offsets count pixels in row-major order, so offset o addresses
//     column o mod width, row o div width
//
// # Indexed Images
//
// Indexed PNG and GIF files decode to *image.Paletted. The pipeline keeps such
// images indexed through every step so that palette remapping and transparency
// injection can operate on the color table. Other image types pass through
// extraction and flipping but ignore the palette steps.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Images handed out by the cache
// are shared and must not be modified; Prepare always returns a fresh image.
//
// # Error Handling
//
// Prepare reports its two failure kinds as *LoadError and *OutOfBoundsError,
// which match ErrImageLoad and ErrOutOfBounds with errors.Is. Their messages are
// suitable for showing to script authors as-is.
package imaging
