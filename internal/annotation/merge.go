package annotation

// Merge combines the receiver with other into a fresh store. Neither input
// is mutated.
//
// Categories are unioned by name: a name already present keeps the
// receiver's id, new names get fresh ids above the receiver's maximum.
// Images from other are renumbered above the receiver's maximum and are
// never de-duplicated by file name, since two stores may describe different
// crops of the same source image. Every annotation from other is renumbered
// and re-pointed at the merged image and category ids.
func (s *Store) Merge(other *Store) *Store {
	merged := NewStore()
	merged.Info = s.Info

	for _, img := range s.images {
		merged.insertImage(img)
	}
	for _, cat := range s.categories {
		merged.insertCategory(cat)
	}
	for _, ann := range s.annotations {
		merged.insertAnnotation(ann)
	}

	// Category union by name.
	catMap := make(map[int]int, len(other.categories)) // other id -> merged id
	for _, cat := range other.categories {
		if existing, ok := merged.CategoryByName(cat.Name); ok {
			catMap[cat.ID] = existing.ID
			continue
		}
		catMap[cat.ID] = merged.EnsureCategory(cat.Name).ID
	}

	// Images renumbered, no file-name dedup: append verbatim content under
	// fresh ids.
	imgMap := make(map[int]int, len(other.images))
	for _, img := range other.images {
		renumbered := ImageRecord{
			ID:       merged.nextImageID,
			FileName: img.FileName,
			Width:    img.Width,
			Height:   img.Height,
		}
		imgMap[img.ID] = renumbered.ID
		merged.insertImage(renumbered)
	}

	for _, ann := range other.annotations {
		renumbered := Annotation{
			ID:      merged.nextAnnID,
			ImageID: imgMap[ann.ImageID],
			Box:     ann.Box,
			Area:    ann.Area,
		}
		if ann.Labeled() {
			renumbered.CategoryID = catMap[ann.CategoryID]
		}
		merged.insertAnnotation(renumbered)
	}

	return merged
}
