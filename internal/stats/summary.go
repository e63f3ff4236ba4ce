// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(model.Record) string

// ByAgeGroup groups records by age group.
func ByAgeGroup(r model.Record) string { return r.AgeGroup }

// ByPlatform groups records by platform.
func ByPlatform(r model.Record) string { return r.Platform }

// ByPostType groups records by post type.
func ByPostType(r model.Record) string { return r.PostType }

// QuantileSorted returns the p-quantile of an ascending sample using linear
// interpolation at index p*(n-1). It returns NaN for an empty sample.
func QuantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// FiveNumber computes the five-number summary of the finite values.
func FiveNumber(values []float64) model.GroupSummary {
	finite := finiteSorted(values)
	if len(finite) == 0 {
		nan := math.NaN()
		return model.GroupSummary{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}
	return model.GroupSummary{
		Count:  len(finite),
		Min:    finite[0],
		Q1:     QuantileSorted(finite, 0.25),
		Median: QuantileSorted(finite, 0.50),
		Q3:     QuantileSorted(finite, 0.75),
		Max:    finite[len(finite)-1],
	}
}

// FiveNumberByGroup returns one summary of Likes per distinct key, in the
// order keys are first seen.
func FiveNumberByGroup(records []model.Record, key KeyFunc) []model.GroupSummary {
	order, groups := groupLikes(records, key)
	out := make([]model.GroupSummary, 0, len(order))
	for _, k := range order {
		summary := FiveNumber(groups[k])
		summary.Key = k
		out = append(out, summary)
	}
	return out
}

func groupLikes(records []model.Record, key KeyFunc) ([]string, map[string][]float64) {
	groups := make(map[string][]float64)
	order := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
			groups[k] = nil
		}
		groups[k] = append(groups[k], r.Likes)
	}
	return order, groups
}

func finiteSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
