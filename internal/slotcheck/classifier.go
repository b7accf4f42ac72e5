// internal/slotcheck/classifier.go
package slotcheck

import "sort"

// Classify reduces the failed diagnoses to the single most informative
// one. Diagnoses are partitioned by shape: only missing slots, only
// invalid values, or both at once. Within each bucket the highest score
// wins (ties keep catalog order); across buckets a later bucket in the
// order missing-only, invalid-only, both replaces the running best only
// when its champion scores strictly higher. Returns nil when the input
// is empty.
func Classify(failed []Diagnosis) *ClassifiedError {
	var missingOnly, invalidOnly, both []Diagnosis
	for _, d := range failed {
		switch {
		case len(d.Missing) > 0 && len(d.Invalid) > 0:
			both = append(both, d)
		case len(d.Missing) > 0:
			missingOnly = append(missingOnly, d)
		case len(d.Invalid) > 0:
			invalidOnly = append(invalidOnly, d)
		}
	}

	var best *ClassifiedError
	consider := func(bucket []Diagnosis, category Category) {
		if len(bucket) == 0 {
			return
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Score > bucket[j].Score
		})
		if best == nil || bucket[0].Score > best.Score {
			best = &ClassifiedError{Diagnosis: bucket[0], Category: category}
		}
	}

	consider(missingOnly, CategoryMissing)
	consider(invalidOnly, CategoryInvalid)
	consider(both, CategoryBoth)
	return best
}
