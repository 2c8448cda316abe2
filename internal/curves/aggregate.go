package curves

import (
	"calcar/server/internal/models"
)

// yearBucket accumulates advertised prices for one model year within a segment.
type yearBucket struct {
	sum   float64
	count int
}

// segment holds the per-year buckets and the total routed record count for
// one segment key.
type segment struct {
	years map[int]*yearBucket
	total int
}

// aggregation maps segment keys to their accumulated buckets. Aggregations
// are built fresh per run and never shared; the fold has exactly one writer.
type aggregation map[string]*segment

func newAggregation() aggregation {
	return make(aggregation)
}

func (a aggregation) add(key string, year int, price float64) {
	seg, ok := a[key]
	if !ok {
		seg = &segment{years: make(map[int]*yearBucket)}
		a[key] = seg
	}
	bucket, ok := seg.years[year]
	if !ok {
		bucket = &yearBucket{}
		seg.years[year] = bucket
	}
	bucket.sum += price
	bucket.count++
	seg.total++
}

// standardKeys returns the four segment tiers a standard record contributes
// to, most specific first.
func standardKeys(makeName, fuelType string) []string {
	return []string{
		makeName + "|" + fuelType,
		makeName,
		fuelType,
		models.SegmentGlobal,
	}
}

// specialKeys returns the tiers the special-variant population is grouped by.
// Only make-level modifiers are derived, plus a global fallback.
func specialKeys(makeName string) []string {
	return []string{makeName, models.SegmentGlobal}
}

// meanPrice returns the mean advertised price of the given year bucket.
// Callers must only pass years that exist in the segment.
func (s *segment) meanPrice(year int) float64 {
	bucket := s.years[year]
	return bucket.sum / float64(bucket.count)
}

// qualifyingYears returns the model years whose buckets meet the reliability
// floor. Buckets below the floor are dropped entirely, not merged.
func (s *segment) qualifyingYears(minCount int) []int {
	var years []int
	for year, bucket := range s.years {
		if bucket.count >= minCount {
			years = append(years, year)
		}
	}
	return years
}
