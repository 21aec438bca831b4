// Package imagery loads source images and extracts annotation crops for
// classification. Decoded images are cached because one source image is
// typically cropped many times, once per fused region.
package imagery

import (
	"image"
	"math"
	"time"

	"github.com/disintegration/imaging"
	gocache "github.com/patrickmn/go-cache"

	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/geometry"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Cropper extracts bounding-box sub-images from source images.
type Cropper struct {
	cache *gocache.Cache
}

// NewCropper returns a Cropper with an empty decode cache.
func NewCropper() *Cropper {
	return &Cropper{cache: gocache.New(cacheTTL, cacheCleanup)}
}

// Open decodes the image at path, serving repeated opens from the cache.
func (c *Cropper) Open(path string) (image.Image, error) {
	if cached, ok := c.cache.Get(path); ok {
		return cached.(image.Image), nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("imagery").
			Category(errors.CategoryImageDecode).
			ImageContext(path).
			Build()
	}

	c.cache.SetDefault(path, img)
	return img, nil
}

// Crop extracts the region described by box from the image at path. The box
// is clamped to the image bounds; a region that ends up empty is an error,
// matching the detector contract that stored boxes have positive area.
func (c *Cropper) Crop(path string, box geometry.Box) (image.Image, error) {
	img, err := c.Open(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	x1 := clamp(int(math.Floor(box.X)), bounds.Min.X, bounds.Max.X)
	y1 := clamp(int(math.Floor(box.Y)), bounds.Min.Y, bounds.Max.Y)
	x2 := clamp(int(math.Ceil(box.X+box.Width)), bounds.Min.X, bounds.Max.X)
	y2 := clamp(int(math.Ceil(box.Y+box.Height)), bounds.Min.Y, bounds.Max.Y)

	if x1 >= x2 || y1 >= y2 {
		return nil, errors.Newf("empty crop %+v for image %s", box, path).
			Component("imagery").
			Category(errors.CategoryImageDecode).
			ImageContext(path).
			Build()
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
