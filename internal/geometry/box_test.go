package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoUIdentity(t *testing.T) {
	t.Parallel()

	b := Box{X: 10, Y: 20, Width: 30, Height: 40}
	assert.InDelta(t, 1.0, IoU(b, b), 1e-9)
}

func TestIoUSymmetry(t *testing.T) {
	t.Parallel()

	a := Box{X: 0, Y: 0, Width: 10, Height: 10}
	b := Box{X: 5, Y: 5, Width: 10, Height: 10}
	assert.InDelta(t, IoU(a, b), IoU(b, a), 1e-9)
}

func TestIoUDisjoint(t *testing.T) {
	t.Parallel()

	a := Box{X: 0, Y: 0, Width: 10, Height: 10}
	b := Box{X: 50, Y: 50, Width: 10, Height: 10}
	assert.InDelta(t, 0.0, IoU(a, b), 1e-9)
	assert.InDelta(t, 0.0, IntersectionArea(a, b), 1e-9)
}

func TestIoUTouchingEdges(t *testing.T) {
	t.Parallel()

	// Boxes sharing an edge overlap with zero area.
	a := Box{X: 0, Y: 0, Width: 10, Height: 10}
	b := Box{X: 10, Y: 0, Width: 10, Height: 10}
	assert.InDelta(t, 0.0, IoU(a, b), 1e-9)
}

func TestIoUContainment(t *testing.T) {
	t.Parallel()

	outer := Box{X: 0, Y: 0, Width: 20, Height: 20}
	inner := Box{X: 5, Y: 5, Width: 10, Height: 10}

	want := inner.Area() / outer.Area()
	assert.InDelta(t, want, IoU(outer, inner), 1e-9)
	assert.InDelta(t, want, IoU(inner, outer), 1e-9)
}

func TestIoUDegenerate(t *testing.T) {
	t.Parallel()

	zero := Box{X: 5, Y: 5, Width: 0, Height: 0}
	assert.InDelta(t, 0.0, IoU(zero, zero), 1e-9)
	assert.InDelta(t, 0.0, IoU(zero, Box{X: 0, Y: 0, Width: 10, Height: 10}), 1e-9)
}

func TestIntersectionArea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Box
		want float64
	}{
		{"half overlap", Box{0, 0, 10, 10}, Box{5, 0, 10, 10}, 50},
		{"corner overlap", Box{0, 0, 10, 10}, Box{5, 5, 10, 10}, 25},
		{"identical", Box{0, 0, 10, 10}, Box{0, 0, 10, 10}, 100},
		{"disjoint", Box{0, 0, 10, 10}, Box{20, 20, 5, 5}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, IntersectionArea(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBoxValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Box{X: 0, Y: 0, Width: 1, Height: 1}.Valid())
	assert.False(t, Box{X: 0, Y: 0, Width: 0, Height: 1}.Valid())
	assert.False(t, Box{X: 0, Y: 0, Width: 1, Height: -1}.Valid())
}
