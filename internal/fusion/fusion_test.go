package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/foodlens-go/internal/geometry"
)

func det(x, y, w, h, conf float64, src Source) Detection {
	return Detection{
		Box:        geometry.Box{X: x, Y: y, Width: w, Height: h},
		Confidence: conf,
		Source:     src,
	}
}

func TestFuseEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Fuse(nil, 0.5))
	assert.Empty(t, Fuse([]Detection{}, 0.5))
}

func TestFuseSingle(t *testing.T) {
	t.Parallel()

	in := []Detection{det(0, 0, 10, 10, 0.9, SourceDetector1)}
	out := Fuse(in, 0.5)
	require.Len(t, out, 1)
	assert.Equal(t, in[0], out[0])
}

func TestFuseSuppressesOverlap(t *testing.T) {
	t.Parallel()

	// Box 2 overlaps box 1 heavily, box 3 is far away. Output is ordered
	// by confidence descending.
	in := []Detection{
		det(0, 0, 10, 10, 0.9, SourceDetector1),
		det(1, 1, 10, 10, 0.8, SourceDetector2),
		det(50, 50, 10, 10, 0.7, SourceDetector1),
	}

	out := Fuse(in, 0.5)
	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[2], out[1])
}

func TestFuseMutuallyExclusive(t *testing.T) {
	t.Parallel()

	in := []Detection{
		det(0, 0, 10, 10, 0.9, SourceDetector1),
		det(100, 0, 10, 10, 0.5, SourceDetector2),
		det(0, 100, 10, 10, 0.2, SourceDetector2),
	}
	assert.Len(t, Fuse(in, 0.5), 3)
}

func TestFuseIdempotent(t *testing.T) {
	t.Parallel()

	in := []Detection{
		det(0, 0, 10, 10, 0.9, SourceDetector1),
		det(1, 1, 10, 10, 0.8, SourceDetector2),
		det(2, 0, 10, 10, 0.85, SourceDetector2),
		det(50, 50, 10, 10, 0.7, SourceDetector1),
		det(52, 50, 8, 10, 0.6, SourceDetector2),
	}

	for _, threshold := range []float64{0.1, 0.3, 0.5, 0.9} {
		once := Fuse(in, threshold)
		twice := Fuse(once, threshold)
		assert.Equal(t, once, twice, "threshold=%.1f", threshold)
	}
}

func TestFuseThresholdMonotonic(t *testing.T) {
	t.Parallel()

	in := []Detection{
		det(0, 0, 10, 10, 0.9, SourceDetector1),
		det(1, 1, 10, 10, 0.8, SourceDetector2),
		det(3, 3, 10, 10, 0.7, SourceDetector1),
		det(50, 50, 10, 10, 0.6, SourceDetector2),
		det(51, 51, 10, 10, 0.5, SourceDetector1),
	}

	prev := -1
	for _, threshold := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		n := len(Fuse(in, threshold))
		assert.GreaterOrEqual(t, n, prev, "threshold=%.2f", threshold)
		prev = n
	}
}

func TestFuseTieBreakStable(t *testing.T) {
	t.Parallel()

	// Two identical-confidence overlapping boxes: the one earlier in the
	// input pool wins, so detector1's proposal survives.
	in := []Detection{
		det(0, 0, 10, 10, 0.8, SourceDetector1),
		det(1, 1, 10, 10, 0.8, SourceDetector2),
	}

	out := Fuse(in, 0.5)
	require.Len(t, out, 1)
	assert.Equal(t, SourceDetector1, out[0].Source)
}

func TestFuseDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []Detection{
		det(1, 1, 10, 10, 0.8, SourceDetector2),
		det(0, 0, 10, 10, 0.9, SourceDetector1),
	}
	snapshot := make([]Detection, len(in))
	copy(snapshot, in)

	Fuse(in, 0.5)
	assert.Equal(t, snapshot, in)
}
