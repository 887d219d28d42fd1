// Package overlay holds script-drawn annotations and renders them onto a host canvas.
//
// An Overlay owns an ordered list of items (Text, Rect, Image) and a hidden flag.
// Scripts append items through AddText, AddRect, AddImage and AddRawImage; the host
// calls RenderItems once per paint cycle with a Surface that provides the actual
// drawing primitives. Items are validated and, for images, fully transformed
// before they are stored, so rendering never fails and never re-processes pixels.
//
// AddGrid expands a coordinate grid into plain Rect and Text items, so a grid
// renders, lists, and clears like anything else in its layer.
//
// A Stack groups overlays by layer number and paints them lowest layer first.
//
// # Concurrency
//
// Overlay and Stack are meant to be driven from the goroutine that owns the
// drawing surface. Callers that share them across goroutines must serialize
// every call. RenderItems iterates the item list as it was when the call
// began, so a Surface callback that adds or clears items does not disturb the
// pass in progress.
package overlay
