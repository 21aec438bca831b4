// Package evaluation scores a predicted annotation set against a ground
// truth set with per-class precision and recall.
package evaluation

import (
	"path/filepath"
	"sort"

	"github.com/foodlens/foodlens-go/internal/annotation"
	"github.com/foodlens/foodlens-go/internal/geometry"
)

// Options controls scoring.
type Options struct {
	// IoUThreshold is the minimum overlap for a prediction to count as a
	// match.
	IoUThreshold float64
	// CountEmptyClasses includes classes without any ground truth
	// instances in the mean precision and recall. Off by default, so a
	// class vocabulary larger than the test set does not dilute the
	// means.
	CountEmptyClasses bool
}

// ClassMetrics holds the counts and derived scores for one class.
type ClassMetrics struct {
	Name           string
	GroundTruth    int
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
}

// Report is the outcome of scoring one predicted set.
type Report struct {
	Classes       []ClassMetrics
	MeanPrecision float64
	MeanRecall    float64
}

// regionKey identifies one class on one image. Images are matched across
// the two stores by base file name, classes by name, so the stores may use
// unrelated numeric ids.
type regionKey struct {
	class string
	image string
}

// Evaluate scores predictions against truth. Within each class and image,
// predictions greedily claim the unmatched truth box with the highest IoU
// at or above the threshold; each truth box is claimed at most once.
// Unlabeled regions in either store are ignored.
func Evaluate(truth, predictions *annotation.Store, opts Options) *Report {
	truthBoxes := collectBoxes(truth)
	predBoxes := collectBoxes(predictions)

	classes := map[string]*ClassMetrics{}
	class := func(name string) *ClassMetrics {
		m, ok := classes[name]
		if !ok {
			m = &ClassMetrics{Name: name}
			classes[name] = m
		}
		return m
	}

	// Every ground-truth category is reported, including those with zero
	// annotations; they score 0/0 and enter the means only when
	// CountEmptyClasses is set.
	for _, cat := range truth.Categories() {
		class(cat.Name)
	}

	for key, boxes := range truthBoxes {
		class(key.class).GroundTruth += len(boxes)
	}

	keys := map[regionKey]struct{}{}
	for key := range truthBoxes {
		keys[key] = struct{}{}
	}
	for key := range predBoxes {
		keys[key] = struct{}{}
	}

	for key := range keys {
		m := class(key.class)
		tp, fp, fn := matchBoxes(truthBoxes[key], predBoxes[key], opts.IoUThreshold)
		m.TruePositives += tp
		m.FalsePositives += fp
		m.FalseNegatives += fn
	}

	report := &Report{}
	for _, m := range classes {
		m.Precision = ratio(m.TruePositives, m.TruePositives+m.FalsePositives)
		m.Recall = ratio(m.TruePositives, m.TruePositives+m.FalseNegatives)
		report.Classes = append(report.Classes, *m)
	}
	sort.Slice(report.Classes, func(i, j int) bool {
		return report.Classes[i].Name < report.Classes[j].Name
	})

	var sumP, sumR float64
	counted := 0
	for _, m := range report.Classes {
		if m.GroundTruth == 0 && !opts.CountEmptyClasses {
			continue
		}
		sumP += m.Precision
		sumR += m.Recall
		counted++
	}
	if counted > 0 {
		report.MeanPrecision = sumP / float64(counted)
		report.MeanRecall = sumR / float64(counted)
	}
	return report
}

// collectBoxes groups the labeled boxes of a store per class and image.
func collectBoxes(s *annotation.Store) map[regionKey][]geometry.Box {
	out := map[regionKey][]geometry.Box{}
	for _, ann := range s.Annotations() {
		if !ann.Labeled() {
			continue
		}
		cat, ok := s.Category(ann.CategoryID)
		if !ok {
			continue
		}
		img, ok := s.Image(ann.ImageID)
		if !ok {
			continue
		}
		key := regionKey{class: cat.Name, image: filepath.Base(img.FileName)}
		out[key] = append(out[key], ann.Box)
	}
	return out
}

// matchBoxes greedily pairs predictions with truth boxes. Each prediction
// takes the best-overlapping free truth box; predictions without a match
// are false positives and leftover truth boxes are false negatives. A pair
// with zero overlap never matches, even at a zero threshold: a threshold of
// 0 means "any overlap counts", not "any coexistence counts".
func matchBoxes(truth, preds []geometry.Box, threshold float64) (tp, fp, fn int) {
	claimed := make([]bool, len(truth))
	for _, p := range preds {
		best := -1
		bestIoU := 0.0
		for i, t := range truth {
			if claimed[i] {
				continue
			}
			iou := geometry.IoU(p, t)
			if iou >= threshold && iou > bestIoU {
				best = i
				bestIoU = iou
			}
		}
		if best >= 0 {
			claimed[best] = true
			tp++
		} else {
			fp++
		}
	}
	for _, c := range claimed {
		if !c {
			fn++
		}
	}
	return tp, fp, fn
}

// ratio returns num/den, or 0 when the denominator is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
