// Package geometry provides axis-aligned bounding box arithmetic used by
// detection fusion and evaluation.
package geometry

import "math"

// Box is an axis-aligned bounding box in pixel coordinates. X and Y locate
// the top-left corner. A box with non-positive width or height is degenerate
// and never stored as a detection.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Area returns the box area. Degenerate boxes have area 0.
func (b Box) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Valid reports whether the box describes a usable detection region.
func (b Box) Valid() bool {
	return b.Width > 0 && b.Height > 0 &&
		!math.IsNaN(b.X) && !math.IsNaN(b.Y) &&
		!math.IsNaN(b.Width) && !math.IsNaN(b.Height)
}

// IntersectionArea returns the overlap area of a and b, 0 when they do not
// overlap. Never negative.
func IntersectionArea(a, b Box) float64 {
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.X+a.Width, b.X+b.Width)
	y2 := math.Min(a.Y+a.Height, b.Y+b.Height)

	return math.Max(0, x2-x1) * math.Max(0, y2-y1)
}

// IoU returns the intersection-over-union of a and b in [0, 1]. A degenerate
// union yields 0 rather than a division by zero.
func IoU(a, b Box) float64 {
	inter := IntersectionArea(a, b)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
