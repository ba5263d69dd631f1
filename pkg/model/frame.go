// Package model defines the shared data types for flame graph analysis.
package model

// Frame is one sampled call-stack position extracted from a rendered
// flame graph: a name/count/percentage annotation plus, when present,
// the rectangle geometry of the element that carried it.
//
// Frame identity is positional, not nominal: two frames may share a
// label (recursion, inlining) but remain distinct records keyed by
// (X, Width, Depth).
type Frame struct {
	Label   string  `json:"label"`
	Samples int64   `json:"samples"`
	Percent float64 `json:"percent"`

	// Geometry in the shared SVG coordinate space. Valid only when
	// HasGeometry is true. Label-only elements still contribute to
	// grouped statistics but cannot be placed in a call path.
	X           int  `json:"x,omitempty"`
	Width       int  `json:"width,omitempty"`
	Depth       int  `json:"depth,omitempty"`
	HasGeometry bool `json:"-"`
}

// End returns the inclusive right edge of the frame's horizontal range.
func (f *Frame) End() int {
	return f.X + f.Width
}

// Contains reports whether f's horizontal range fully contains the
// range [x, x+width]. Containment across depth levels is what links a
// frame to its ancestors in the rendered tree.
func (f *Frame) Contains(x, width int) bool {
	return f.X <= x && f.End() >= x+width
}

// TotalSamples sums the sample counts of the given frames.
func TotalSamples(frames []*Frame) int64 {
	var total int64
	for _, f := range frames {
		total += f.Samples
	}
	return total
}
