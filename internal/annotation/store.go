// Package annotation implements the canonical COCO-style store of images,
// detected regions and the category vocabulary. The store is the unit of
// persistence and of merge/relabel operations; it enforces that every
// annotation resolves to a registered image and, once labeled, to a known
// category.
package annotation

import (
	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/geometry"
)

// UnlabeledCategory is the category id of an annotation that has not been
// classified yet. It never collides with a real category id.
const UnlabeledCategory = 0

// Info is the free-form header block of the annotation file format.
type Info struct {
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Year        int    `json:"year,omitempty"`
	Contributor string `json:"contributor,omitempty"`
}

// Category is a named class in the store's vocabulary. Names are unique
// within one store; ids are stable only within one store's lifetime.
type Category struct {
	ID   int
	Name string
}

// ImageRecord describes one registered source image. Immutable after
// registration.
type ImageRecord struct {
	ID       int
	FileName string
	Width    int
	Height   int
}

// Annotation is one fused, stored region. Created unlabeled by the fusion
// engine, labeled exactly once by the region classifier, immutable after
// that.
type Annotation struct {
	ID         int
	ImageID    int
	CategoryID int // UnlabeledCategory until classified
	Box        geometry.Box
	Area       float64 // denormalized box area, kept for evaluation speed
}

// Labeled reports whether the annotation has been classified.
func (a Annotation) Labeled() bool {
	return a.CategoryID != UnlabeledCategory
}

// Store owns the three collections. The zero value is not usable; use
// NewStore or Load.
type Store struct {
	Info Info

	images      []ImageRecord
	annotations []Annotation
	categories  []Category

	imageIdx    map[int]int // image id -> index into images
	imageByName map[string]int
	annIdx      map[int]int
	catIdx      map[int]int
	catByName   map[string]int
	nextImageID int
	nextAnnID   int
	nextCatID   int
}

// NewStore returns an empty store. Ids are assigned densely from 1.
func NewStore() *Store {
	return &Store{
		imageIdx:    make(map[int]int),
		imageByName: make(map[string]int),
		annIdx:      make(map[int]int),
		catIdx:      make(map[int]int),
		catByName:   make(map[string]int),
		nextImageID: 1,
		nextAnnID:   1,
		nextCatID:   1,
	}
}

// Images returns the registered images in registration order.
func (s *Store) Images() []ImageRecord {
	out := make([]ImageRecord, len(s.images))
	copy(out, s.images)
	return out
}

// Annotations returns all annotations in creation order.
func (s *Store) Annotations() []Annotation {
	out := make([]Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// Categories returns the vocabulary in registration order.
func (s *Store) Categories() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Image looks up an image record by id.
func (s *Store) Image(id int) (ImageRecord, bool) {
	idx, ok := s.imageIdx[id]
	if !ok {
		return ImageRecord{}, false
	}
	return s.images[idx], true
}

// ImageByName looks up an image record by file name. When a merged store
// holds several records with the same file name the first one wins.
func (s *Store) ImageByName(fileName string) (ImageRecord, bool) {
	idx, ok := s.imageByName[fileName]
	if !ok {
		return ImageRecord{}, false
	}
	return s.images[idx], true
}

// Annotation looks up an annotation by id.
func (s *Store) Annotation(id int) (Annotation, bool) {
	idx, ok := s.annIdx[id]
	if !ok {
		return Annotation{}, false
	}
	return s.annotations[idx], true
}

// Category looks up a category by id.
func (s *Store) Category(id int) (Category, bool) {
	idx, ok := s.catIdx[id]
	if !ok {
		return Category{}, false
	}
	return s.categories[idx], true
}

// CategoryByName looks up a category by name.
func (s *Store) CategoryByName(name string) (Category, bool) {
	idx, ok := s.catByName[name]
	if !ok {
		return Category{}, false
	}
	return s.categories[idx], true
}

// RegisterImage registers a source image, idempotent by file name:
// registering an already-known file name returns the existing record.
func (s *Store) RegisterImage(fileName string, width, height int) (ImageRecord, error) {
	if fileName == "" {
		return ImageRecord{}, errors.Newf("image file name is empty").
			Component("annotation").
			Category(errors.CategoryValidation).
			Build()
	}
	if width <= 0 || height <= 0 {
		return ImageRecord{}, errors.Newf("image %s has degenerate dimensions %dx%d", fileName, width, height).
			Component("annotation").
			Category(errors.CategoryValidation).
			Build()
	}
	if idx, ok := s.imageByName[fileName]; ok {
		return s.images[idx], nil
	}
	rec := ImageRecord{ID: s.nextImageID, FileName: fileName, Width: width, Height: height}
	s.nextImageID++
	s.images = append(s.images, rec)
	s.imageIdx[rec.ID] = len(s.images) - 1
	s.imageByName[fileName] = len(s.images) - 1
	return rec, nil
}

// EnsureCategory returns the category with the given name, creating it with
// a fresh id when absent.
func (s *Store) EnsureCategory(name string) Category {
	if idx, ok := s.catByName[name]; ok {
		return s.categories[idx]
	}
	cat := Category{ID: s.nextCatID, Name: name}
	s.nextCatID++
	s.categories = append(s.categories, cat)
	s.catIdx[cat.ID] = len(s.categories) - 1
	s.catByName[cat.Name] = len(s.categories) - 1
	return cat
}

// AddAnnotation creates an unlabeled annotation for a fused region. The
// image must already be registered and the box must have positive area;
// nothing is stored otherwise.
func (s *Store) AddAnnotation(imageID int, box geometry.Box) (Annotation, error) {
	if _, ok := s.imageIdx[imageID]; !ok {
		return Annotation{}, errors.Newf("unknown image id %d", imageID).
			Component("annotation").
			Category(errors.CategoryReference).
			Build()
	}
	if !box.Valid() {
		return Annotation{}, errors.Newf("degenerate bbox %+v for image %d", box, imageID).
			Component("annotation").
			Category(errors.CategoryValidation).
			Build()
	}

	ann := Annotation{
		ID:         s.nextAnnID,
		ImageID:    imageID,
		CategoryID: UnlabeledCategory,
		Box:        box,
		Area:       box.Area(),
	}
	s.nextAnnID++
	s.annotations = append(s.annotations, ann)
	s.annIdx[ann.ID] = len(s.annotations) - 1
	return ann, nil
}

// SetCategory assigns a category to an unlabeled annotation. Labeling is
// single-assignment: a second call for the same annotation fails and the
// store is left untouched.
func (s *Store) SetCategory(annotationID, categoryID int) error {
	idx, ok := s.annIdx[annotationID]
	if !ok {
		return errors.Newf("unknown annotation id %d", annotationID).
			Component("annotation").
			Category(errors.CategoryReference).
			Build()
	}
	if _, ok := s.catIdx[categoryID]; !ok {
		return errors.Newf("unknown category id %d", categoryID).
			Component("annotation").
			Category(errors.CategoryReference).
			Build()
	}
	if s.annotations[idx].Labeled() {
		return errors.Newf("annotation %d already labeled with category %d",
			annotationID, s.annotations[idx].CategoryID).
			Component("annotation").
			Category(errors.CategoryAlreadyLabeled).
			Build()
	}

	s.annotations[idx].CategoryID = categoryID
	return nil
}

// AnnotationsForImage returns the annotations referencing the given image,
// in creation order.
func (s *Store) AnnotationsForImage(imageID int) []Annotation {
	var out []Annotation
	for _, ann := range s.annotations {
		if ann.ImageID == imageID {
			out = append(out, ann)
		}
	}
	return out
}

// IngredientsByImage maps every image file name to the de-duplicated list of
// category names found on it, in first-seen order. Unlabeled annotations are
// skipped: classification was skipped for them, they are not background.
func (s *Store) IngredientsByImage() map[string][]string {
	out := make(map[string][]string, len(s.images))
	for _, img := range s.images {
		out[img.FileName] = nil
	}
	for _, ann := range s.annotations {
		if !ann.Labeled() {
			continue
		}
		img, ok := s.Image(ann.ImageID)
		if !ok {
			continue
		}
		cat, ok := s.Category(ann.CategoryID)
		if !ok {
			continue
		}
		if !contains(out[img.FileName], cat.Name) {
			out[img.FileName] = append(out[img.FileName], cat.Name)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// insertImage adds an image record verbatim, used by merge and the codec.
func (s *Store) insertImage(rec ImageRecord) {
	s.images = append(s.images, rec)
	s.imageIdx[rec.ID] = len(s.images) - 1
	if _, ok := s.imageByName[rec.FileName]; !ok {
		s.imageByName[rec.FileName] = len(s.images) - 1
	}
	if rec.ID >= s.nextImageID {
		s.nextImageID = rec.ID + 1
	}
}

// insertCategory adds a category verbatim, used by merge and the codec.
func (s *Store) insertCategory(cat Category) {
	s.categories = append(s.categories, cat)
	s.catIdx[cat.ID] = len(s.categories) - 1
	if _, ok := s.catByName[cat.Name]; !ok {
		s.catByName[cat.Name] = len(s.categories) - 1
	}
	if cat.ID >= s.nextCatID {
		s.nextCatID = cat.ID + 1
	}
}

// insertAnnotation adds an annotation verbatim, used by merge and the codec.
func (s *Store) insertAnnotation(ann Annotation) {
	s.annotations = append(s.annotations, ann)
	s.annIdx[ann.ID] = len(s.annotations) - 1
	if ann.ID >= s.nextAnnID {
		s.nextAnnID = ann.ID + 1
	}
}
