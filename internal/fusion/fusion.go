// Package fusion merges the raw proposals of both object detectors for one
// image into a single de-duplicated region list using confidence-ordered
// greedy non-maximum suppression.
//
// Fusion is class and source agnostic: only geometry and confidence decide
// suppression, so two heavily overlapping proposals survive as one region
// even when they would later classify as different ingredients.
package fusion

import (
	"sort"

	"github.com/foodlens/foodlens-go/internal/geometry"
)

// Source identifies which detector produced a proposal.
type Source int

const (
	SourceUnknown Source = iota
	SourceDetector1
	SourceDetector2
)

// String returns a human readable detector name.
func (s Source) String() string {
	switch s {
	case SourceDetector1:
		return "detector1"
	case SourceDetector2:
		return "detector2"
	default:
		return "unknown"
	}
}

// Detection is a single detector's raw geometric proposal. It exists only
// between detector output and fusion; fused regions are stored as unlabeled
// annotations and the source distinction is dropped.
type Detection struct {
	Box        geometry.Box
	Confidence float64 // in [0, 1]
	Source     Source
}

// Fuse runs greedy non-maximum suppression over the pooled detections of one
// image. Detections are taken in confidence-descending order; every remaining
// candidate whose IoU against a kept box is >= iouThreshold is discarded.
//
// Equal confidences tie-break on input order (first detector's output before
// the second's, then original order), so the result is deterministic for a
// given input slice. The input is not modified.
func Fuse(detections []Detection, iouThreshold float64) []Detection {
	if len(detections) == 0 {
		return nil
	}

	// Sort a copy of the indices, not the input. sort.SliceStable keeps
	// input order for equal confidences.
	order := make([]int, len(detections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return detections[order[i]].Confidence > detections[order[j]].Confidence
	})

	kept := make([]Detection, 0, len(detections))
	suppressed := make([]bool, len(detections))

	for _, idx := range order {
		if suppressed[idx] {
			continue
		}
		best := detections[idx]
		kept = append(kept, best)

		for _, other := range order {
			if other == idx || suppressed[other] {
				continue
			}
			if geometry.IoU(best.Box, detections[other].Box) >= iouThreshold {
				suppressed[other] = true
			}
		}
	}

	return kept
}
