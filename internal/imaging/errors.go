package imaging

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad matches any *LoadError with errors.Is.
	ErrImageLoad = errors.New("image load failed")

	// ErrOutOfBounds matches any *OutOfBoundsError with errors.Is.
	ErrOutOfBounds = errors.New("image region out of bounds")
)

// LoadError reports that the source image could not be found or decoded.
type LoadError struct {
	Path string
	Err  error // underlying loader error, may be nil
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("Failed to load image '%s'", e.Path)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrImageLoad }

// OutOfBoundsError reports a requested region that does not fit in the source.
type OutOfBoundsError struct {
	Path       string
	Width      int
	Height     int
	Offset     uint
	FullWidth  int
	FullHeight int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%dx%d image starting at offset %d exceeds the image size for '%s'",
		e.Width, e.Height, e.Offset, e.Path)
}

func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }
