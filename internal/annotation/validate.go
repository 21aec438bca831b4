package annotation

import "fmt"

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueDanglingImage    IssueKind = "dangling-image"
	IssueDanglingCategory IssueKind = "dangling-category"
	IssueDuplicateID      IssueKind = "duplicate-id"
	IssueDuplicateName    IssueKind = "duplicate-name"
	IssueMalformedBox     IssueKind = "malformed-bbox"
	IssueAreaMismatch     IssueKind = "area-mismatch"
)

// Issue is one integrity finding. It is a value, not an error: validation
// never fails, it enumerates.
type Issue struct {
	Kind    IssueKind
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Validate runs a non-mutating integrity scan and returns every broken
// reference, duplicate id or name, and malformed bbox found. An empty result
// means the store upholds its invariants.
func (s *Store) Validate() []Issue {
	var issues []Issue

	seenImageIDs := make(map[int]bool, len(s.images))
	for _, img := range s.images {
		if seenImageIDs[img.ID] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateID,
				Message: fmt.Sprintf("image id %d appears more than once", img.ID),
			})
		}
		seenImageIDs[img.ID] = true
	}

	seenCatIDs := make(map[int]bool, len(s.categories))
	seenCatNames := make(map[string]bool, len(s.categories))
	for _, cat := range s.categories {
		if seenCatIDs[cat.ID] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateID,
				Message: fmt.Sprintf("category id %d appears more than once", cat.ID),
			})
		}
		seenCatIDs[cat.ID] = true
		if seenCatNames[cat.Name] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateName,
				Message: fmt.Sprintf("category name %q appears more than once", cat.Name),
			})
		}
		seenCatNames[cat.Name] = true
	}

	seenAnnIDs := make(map[int]bool, len(s.annotations))
	for _, ann := range s.annotations {
		if seenAnnIDs[ann.ID] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateID,
				Message: fmt.Sprintf("annotation id %d appears more than once", ann.ID),
			})
		}
		seenAnnIDs[ann.ID] = true

		if !seenImageIDs[ann.ImageID] {
			issues = append(issues, Issue{
				Kind:    IssueDanglingImage,
				Message: fmt.Sprintf("annotation %d references unknown image %d", ann.ID, ann.ImageID),
			})
		}
		if ann.Labeled() && !seenCatIDs[ann.CategoryID] {
			issues = append(issues, Issue{
				Kind:    IssueDanglingCategory,
				Message: fmt.Sprintf("annotation %d references unknown category %d", ann.ID, ann.CategoryID),
			})
		}
		if !ann.Box.Valid() {
			issues = append(issues, Issue{
				Kind:    IssueMalformedBox,
				Message: fmt.Sprintf("annotation %d has malformed bbox %+v", ann.ID, ann.Box),
			})
		} else if ann.Area != ann.Box.Area() {
			issues = append(issues, Issue{
				Kind:    IssueAreaMismatch,
				Message: fmt.Sprintf("annotation %d area %g does not match bbox area %g", ann.ID, ann.Area, ann.Box.Area()),
			})
		}
	}

	return issues
}
