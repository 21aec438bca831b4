package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/geometry"
)

func box(x, y, w, h float64) geometry.Box {
	return geometry.Box{X: x, Y: y, Width: w, Height: h}
}

func mustRegister(t *testing.T, s *Store, fileName string, width, height int) ImageRecord {
	t.Helper()
	img, err := s.RegisterImage(fileName, width, height)
	require.NoError(t, err)
	return img
}

func TestRegisterImageIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	first := mustRegister(t, s, "fridge.jpg", 640, 480)
	second := mustRegister(t, s, "fridge.jpg", 640, 480)

	assert.Equal(t, first, second)
	assert.Len(t, s.Images(), 1)

	other := mustRegister(t, s, "counter.jpg", 800, 600)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Len(t, s.Images(), 2)
}

func TestRegisterImageRejectsBadInput(t *testing.T) {
	t.Parallel()

	s := NewStore()

	_, err := s.RegisterImage("", 640, 480)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = s.RegisterImage("fridge.jpg", 0, 480)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = s.RegisterImage("fridge.jpg", 640, -1)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	assert.Empty(t, s.Images())
}

func TestAddAnnotation(t *testing.T) {
	t.Parallel()

	s := NewStore()
	img := mustRegister(t, s, "fridge.jpg", 640, 480)

	ann, err := s.AddAnnotation(img.ID, box(10, 10, 50, 40))
	require.NoError(t, err)
	assert.Equal(t, img.ID, ann.ImageID)
	assert.False(t, ann.Labeled())
	assert.InDelta(t, 2000.0, ann.Area, 1e-9)
}

func TestAddAnnotationUnknownImage(t *testing.T) {
	t.Parallel()

	s := NewStore()
	_, err := s.AddAnnotation(99, box(0, 0, 10, 10))
	require.Error(t, err)
	assert.True(t, errors.IsReference(err))
	assert.Empty(t, s.Annotations())
}

func TestAddAnnotationRejectsDegenerateBox(t *testing.T) {
	t.Parallel()

	s := NewStore()
	img := mustRegister(t, s, "fridge.jpg", 640, 480)

	_, err := s.AddAnnotation(img.ID, box(5, 5, 0, 10))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	assert.Empty(t, s.Annotations())
}

func TestSetCategory(t *testing.T) {
	t.Parallel()

	s := NewStore()
	img := mustRegister(t, s, "fridge.jpg", 640, 480)
	cat := s.EnsureCategory("egg")
	ann, err := s.AddAnnotation(img.ID, box(0, 0, 10, 10))
	require.NoError(t, err)

	require.NoError(t, s.SetCategory(ann.ID, cat.ID))

	stored, ok := s.Annotation(ann.ID)
	require.True(t, ok)
	assert.Equal(t, cat.ID, stored.CategoryID)
}

func TestSetCategorySingleAssignment(t *testing.T) {
	t.Parallel()

	s := NewStore()
	img := mustRegister(t, s, "fridge.jpg", 640, 480)
	egg := s.EnsureCategory("egg")
	flour := s.EnsureCategory("flour")
	ann, err := s.AddAnnotation(img.ID, box(0, 0, 10, 10))
	require.NoError(t, err)

	require.NoError(t, s.SetCategory(ann.ID, egg.ID))
	err = s.SetCategory(ann.ID, flour.ID)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyLabeled(err))

	// The first assignment survives.
	stored, _ := s.Annotation(ann.ID)
	assert.Equal(t, egg.ID, stored.CategoryID)
}

func TestSetCategoryUnknownIDs(t *testing.T) {
	t.Parallel()

	s := NewStore()
	img := mustRegister(t, s, "fridge.jpg", 640, 480)
	cat := s.EnsureCategory("egg")
	ann, err := s.AddAnnotation(img.ID, box(0, 0, 10, 10))
	require.NoError(t, err)

	assert.True(t, errors.IsReference(s.SetCategory(999, cat.ID)))
	assert.True(t, errors.IsReference(s.SetCategory(ann.ID, 999)))

	// The annotation stays unlabeled after the failed attempts.
	stored, _ := s.Annotation(ann.ID)
	assert.False(t, stored.Labeled())
}

func TestEnsureCategoryIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	first := s.EnsureCategory("egg")
	second := s.EnsureCategory("egg")
	assert.Equal(t, first, second)
	assert.Len(t, s.Categories(), 1)
}

func TestIngredientsByImage(t *testing.T) {
	t.Parallel()

	s := NewStore()
	img := mustRegister(t, s, "fridge.jpg", 640, 480)
	_ = mustRegister(t, s, "empty.jpg", 640, 480)
	egg := s.EnsureCategory("egg")
	flour := s.EnsureCategory("flour")

	a1, _ := s.AddAnnotation(img.ID, box(0, 0, 10, 10))
	a2, _ := s.AddAnnotation(img.ID, box(20, 0, 10, 10))
	a3, _ := s.AddAnnotation(img.ID, box(40, 0, 10, 10))
	// This one stays unlabeled and must not appear in the result.
	_, err := s.AddAnnotation(img.ID, box(60, 0, 10, 10))
	require.NoError(t, err)

	require.NoError(t, s.SetCategory(a1.ID, egg.ID))
	require.NoError(t, s.SetCategory(a2.ID, egg.ID))
	require.NoError(t, s.SetCategory(a3.ID, flour.ID))

	got := s.IngredientsByImage()
	assert.Equal(t, []string{"egg", "flour"}, got["fridge.jpg"])
	assert.Empty(t, got["empty.jpg"])
}

func TestAnnotationsForImage(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a := mustRegister(t, s, "a.jpg", 100, 100)
	b := mustRegister(t, s, "b.jpg", 100, 100)

	_, err := s.AddAnnotation(a.ID, box(0, 0, 10, 10))
	require.NoError(t, err)
	_, err = s.AddAnnotation(b.ID, box(0, 0, 10, 10))
	require.NoError(t, err)
	_, err = s.AddAnnotation(a.ID, box(20, 20, 10, 10))
	require.NoError(t, err)

	assert.Len(t, s.AnnotationsForImage(a.ID), 2)
	assert.Len(t, s.AnnotationsForImage(b.ID), 1)
	assert.Empty(t, s.AnnotationsForImage(99))
}
