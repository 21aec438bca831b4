package annotation

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/geometry"
)

// On-disk COCO-style document. Ids are written verbatim so that
// serialize -> parse yields an identical store. An unlabeled annotation is
// written without a category_id field. The iscrowd and segmentation fields
// are emitted for COCO tooling compatibility and ignored on decode.

type fileDoc struct {
	Info        Info             `json:"info"`
	Images      []fileImage      `json:"images"`
	Annotations []fileAnnotation `json:"annotations"`
	Categories  []fileCategory   `json:"categories"`
}

type fileImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type fileAnnotation struct {
	ID           int        `json:"id"`
	ImageID      int        `json:"image_id"`
	CategoryID   *int       `json:"category_id,omitempty"`
	BBox         [4]float64 `json:"bbox"`
	Area         float64    `json:"area"`
	IsCrowd      int        `json:"iscrowd"`
	Segmentation []any      `json:"segmentation"`
}

type fileCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Encode writes the store as indented JSON.
func (s *Store) Encode(w io.Writer) error {
	doc := fileDoc{
		Info:        s.Info,
		Images:      make([]fileImage, 0, len(s.images)),
		Annotations: make([]fileAnnotation, 0, len(s.annotations)),
		Categories:  make([]fileCategory, 0, len(s.categories)),
	}

	for _, img := range s.images {
		doc.Images = append(doc.Images, fileImage{
			ID: img.ID, FileName: img.FileName, Width: img.Width, Height: img.Height,
		})
	}
	for _, ann := range s.annotations {
		fa := fileAnnotation{
			ID:           ann.ID,
			ImageID:      ann.ImageID,
			BBox:         [4]float64{ann.Box.X, ann.Box.Y, ann.Box.Width, ann.Box.Height},
			Area:         ann.Area,
			Segmentation: []any{},
		}
		if ann.Labeled() {
			id := ann.CategoryID
			fa.CategoryID = &id
		}
		doc.Annotations = append(doc.Annotations, fa)
	}
	for _, cat := range s.categories {
		doc.Categories = append(doc.Categories, fileCategory{ID: cat.ID, Name: cat.Name})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return errors.New(err).
			Component("annotation").
			Category(errors.CategoryFileIO).
			Build()
	}
	return nil
}

// Decode parses an annotation document into a fresh store, preserving every
// id verbatim.
func Decode(r io.Reader) (*Store, error) {
	var doc fileDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.New(err).
			Component("annotation").
			Category(errors.CategoryFileParsing).
			Build()
	}

	s := NewStore()
	s.Info = doc.Info
	for _, img := range doc.Images {
		s.insertImage(ImageRecord{
			ID: img.ID, FileName: img.FileName, Width: img.Width, Height: img.Height,
		})
	}
	for _, cat := range doc.Categories {
		s.insertCategory(Category{ID: cat.ID, Name: cat.Name})
	}
	for _, fa := range doc.Annotations {
		ann := Annotation{
			ID:      fa.ID,
			ImageID: fa.ImageID,
			Box: geometry.Box{
				X: fa.BBox[0], Y: fa.BBox[1], Width: fa.BBox[2], Height: fa.BBox[3],
			},
			Area: fa.Area,
		}
		if fa.CategoryID != nil {
			ann.CategoryID = *fa.CategoryID
		}
		s.insertAnnotation(ann)
	}
	return s, nil
}

// Save writes the store to path, creating parent directories as needed.
func (s *Store) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Component("annotation").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.New(err).
			Component("annotation").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close() //nolint:errcheck // flushed by Encode, close error not actionable

	return s.Encode(f)
}

// Load reads an annotation document from path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("annotation").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return Decode(f)
}
