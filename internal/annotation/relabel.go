package annotation

// RelabelMap maps an existing category name to its replacement. A nil value
// drops the category and every annotation referencing it. Names absent from
// the map pass through unchanged.
//
// The map form matches the on-disk YAML mapping file, where a null value
// marks a dropped category.
type RelabelMap map[string]*string

// Relabel applies the mapping and returns a fresh store; the receiver is
// not mutated. When a renamed category collides with an existing (possibly
// itself renamed) category, their annotations are merged onto the surviving
// category. Category ids are renumbered densely starting at 1 in the output;
// image and annotation ids are kept verbatim.
func (s *Store) Relabel(mapping RelabelMap) *Store {
	out := NewStore()
	out.Info = s.Info

	for _, img := range s.images {
		out.insertImage(img)
	}

	// Build the new vocabulary in stored order, assigning each surviving
	// name an id at its first appearance.
	dropped := make(map[int]bool)
	catMap := make(map[int]int, len(s.categories)) // old id -> new id
	nextID := 1
	newIDByName := make(map[string]int)

	for _, cat := range s.categories {
		target, mentioned := mapping[cat.Name]
		switch {
		case mentioned && target == nil:
			dropped[cat.ID] = true
			continue
		case mentioned:
			if id, ok := newIDByName[*target]; ok {
				catMap[cat.ID] = id
				continue
			}
			newIDByName[*target] = nextID
			out.insertCategory(Category{ID: nextID, Name: *target})
			catMap[cat.ID] = nextID
			nextID++
		default:
			if id, ok := newIDByName[cat.Name]; ok {
				catMap[cat.ID] = id
				continue
			}
			newIDByName[cat.Name] = nextID
			out.insertCategory(Category{ID: nextID, Name: cat.Name})
			catMap[cat.ID] = nextID
			nextID++
		}
	}

	for _, ann := range s.annotations {
		if dropped[ann.CategoryID] {
			continue
		}
		relabeled := ann
		if ann.Labeled() {
			relabeled.CategoryID = catMap[ann.CategoryID]
		}
		out.insertAnnotation(relabeled)
	}

	return out
}
