package stats

import (
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// KeyOrder selects how MeanByPair orders its keys.
type KeyOrder int

const (
	// FirstSeen keeps outer keys in the order they first appear, and inner
	// keys in the order they first appear within their outer group.
	FirstSeen KeyOrder = iota
	// Lexical sorts both key levels lexically.
	Lexical
)

// MeanLikes returns the mean of the finite values and how many there were.
// The mean is NaN when no value is finite.
func MeanLikes(values []float64) (float64, int) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), 0
	}
	return mstats.Mean(finite), len(finite)
}

// MeanByPair averages Likes for every (outer, inner) key combination present
// in records and flattens the result into one entry per pair.
func MeanByPair(records []model.Record, outer, inner KeyFunc, order KeyOrder) []model.PlatformTypeMean {
	outerOrder, outerGroups := groupRecords(records, outer)
	if order == Lexical {
		sort.Strings(outerOrder)
	}
	var out []model.PlatformTypeMean
	for _, o := range outerOrder {
		innerOrder, innerGroups := groupLikes(outerGroups[o], inner)
		if order == Lexical {
			sort.Strings(innerOrder)
		}
		for _, in := range innerOrder {
			mean, count := MeanLikes(innerGroups[in])
			out = append(out, model.PlatformTypeMean{
				Platform: o,
				PostType: in,
				Count:    count,
				AvgLikes: mean,
			})
		}
	}
	return out
}

// PlatformTypeMeans is MeanByPair keyed by platform then post type.
func PlatformTypeMeans(records []model.Record, order KeyOrder) []model.PlatformTypeMean {
	return MeanByPair(records, ByPlatform, ByPostType, order)
}

func groupRecords(records []model.Record, key KeyFunc) ([]string, map[string][]model.Record) {
	groups := make(map[string][]model.Record)
	order := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return order, groups
}
