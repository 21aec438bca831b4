package imagery

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/geometry"
)

// writeTestImage writes a w x h PNG whose left half is red and right half
// is green.
func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{G: 255, A: 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestCrop(t *testing.T) {
	t.Parallel()

	path := writeTestImage(t, 100, 80)
	c := NewCropper()

	crop, err := c.Crop(path, geometry.Box{X: 10, Y: 10, Width: 30, Height: 20})
	require.NoError(t, err)
	assert.Equal(t, 30, crop.Bounds().Dx())
	assert.Equal(t, 20, crop.Bounds().Dy())
}

func TestCropClampsToBounds(t *testing.T) {
	t.Parallel()

	path := writeTestImage(t, 50, 50)
	c := NewCropper()

	// Box extends past the right and bottom edges.
	crop, err := c.Crop(path, geometry.Box{X: 40, Y: 40, Width: 100, Height: 100})
	require.NoError(t, err)
	assert.Equal(t, 10, crop.Bounds().Dx())
	assert.Equal(t, 10, crop.Bounds().Dy())
}

func TestCropOutsideImage(t *testing.T) {
	t.Parallel()

	path := writeTestImage(t, 50, 50)
	c := NewCropper()

	_, err := c.Crop(path, geometry.Box{X: 200, Y: 200, Width: 10, Height: 10})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryImageDecode))
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	c := NewCropper()
	_, err := c.Open(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.True(t, errors.IsRecoverable(err))
}

func TestOpenCaches(t *testing.T) {
	t.Parallel()

	path := writeTestImage(t, 10, 10)
	c := NewCropper()

	first, err := c.Open(path)
	require.NoError(t, err)

	// Remove the file; the cached decode keeps serving.
	require.NoError(t, os.Remove(path))
	second, err := c.Open(path)
	require.NoError(t, err)
	assert.Equal(t, first.Bounds(), second.Bounds())
}
