package overlay

import (
	"sort"

	"github.com/ironsheep/overlay-tools-mcp/internal/imaging"
)

// Stack keeps one Overlay per numbered layer. Layers render in ascending
// order, so higher layers paint over lower ones.
//
// Like Overlay, a Stack is not safe for concurrent use.
type Stack struct {
	layers map[int]*Overlay
	loader imaging.Loader
	logger Logger
}

// NewStack returns an empty stack whose overlays share loader and logger.
func NewStack(loader imaging.Loader, logger Logger) *Stack {
	return &Stack{
		layers: make(map[int]*Overlay),
		loader: loader,
		logger: logger,
	}
}

// Layer returns the overlay for layer n, creating an empty visible one on
// first use.
func (s *Stack) Layer(n int) *Overlay {
	o, ok := s.layers[n]
	if !ok {
		o = New(s.loader, s.logger)
		s.layers[n] = o
	}
	return o
}

// Lookup returns the overlay for layer n without creating it.
func (s *Stack) Lookup(n int) (*Overlay, bool) {
	o, ok := s.layers[n]
	return o, ok
}

// Layers returns the existing layer numbers in ascending order.
func (s *Stack) Layers() []int {
	ns := make([]int, 0, len(s.layers))
	for n := range s.layers {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// Render draws every layer in ascending order. Hidden layers draw nothing.
func (s *Stack) Render(surface Surface) {
	for _, n := range s.Layers() {
		s.layers[n].RenderItems(surface)
	}
}

// Remove drops layer n and all of its items.
func (s *Stack) Remove(n int) {
	delete(s.layers, n)
}

// ClearAll empties every layer. Layers keep their visibility.
func (s *Stack) ClearAll() {
	for _, o := range s.layers {
		o.ClearItems()
	}
}

// SetHiddenAll sets the visibility flag of every existing layer.
func (s *Stack) SetHiddenAll(hidden bool) {
	for _, o := range s.layers {
		o.SetHidden(hidden)
	}
}

// Len returns the total number of items across all layers.
func (s *Stack) Len() int {
	total := 0
	for _, o := range s.layers {
		total += o.Len()
	}
	return total
}
