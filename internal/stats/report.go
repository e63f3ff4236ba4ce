package stats

import (
	"github.com/verte-zerg/engagecharts/internal/model"
)

// Report contains precomputed aggregates for all three charts.
type Report struct {
	Records      int
	Summaries    []model.GroupSummary
	Means        []model.PlatformTypeMean
	Daily        []model.DailyMean
	DroppedDates []string
	Coercion     []model.CoercionError
}

// BuildReport computes every aggregate from the dataset.
func BuildReport(ds model.Dataset, order KeyOrder) Report {
	return Report{
		Records:      len(ds.Records),
		Summaries:    FiveNumberByGroup(ds.Records, ByAgeGroup),
		Means:        PlatformTypeMeans(ds.Records, order),
		Daily:        DailyMeans(ds.Records),
		DroppedDates: DroppedDates(ds.Records),
		Coercion:     ds.CoercionErrors,
	}
}

// SkippedGroups returns the keys of summaries with no finite values.
func SkippedGroups(summaries []model.GroupSummary) []string {
	var out []string
	for _, s := range summaries {
		if !s.Valid() {
			out = append(out, s.Key)
		}
	}
	return out
}
