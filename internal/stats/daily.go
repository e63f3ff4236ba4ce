package stats

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/engagecharts/internal/model"
)

const (
	layoutMonthDayYear = "1/2/2006"
	layoutMonthDay     = "1/2"
)

// NormalizeDate strips any annotation after the first whitespace, so
// "3/2/2024 (Saturday)" becomes "3/2/2024".
func NormalizeDate(raw string) string {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}

// ParseDate parses a normalized date as month/day/year, falling back to
// month/day. hasYear is false for the fallback, whose year is left at the
// zero year and is only meaningful for ordering.
func ParseDate(key string) (day time.Time, hasYear bool, ok bool) {
	if key == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(layoutMonthDayYear, key); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(layoutMonthDay, key); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}

// DailyMeans averages Likes per normalized date. Dates that do not parse are
// dropped. The result is ordered by calendar day.
func DailyMeans(records []model.Record) []model.DailyMean {
	order, groups := groupLikes(records, func(r model.Record) string {
		return NormalizeDate(r.Date)
	})
	out := make([]model.DailyMean, 0, len(order))
	for _, key := range order {
		day, hasYear, ok := ParseDate(key)
		if !ok {
			continue
		}
		mean, count := MeanLikes(groups[key])
		out = append(out, model.DailyMean{
			Date:     key,
			Day:      day,
			HasYear:  hasYear,
			Count:    count,
			AvgLikes: mean,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

// DroppedDates returns the distinct normalized date keys that DailyMeans
// would drop, in first-seen order.
func DroppedDates(records []model.Record) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		key := NormalizeDate(r.Date)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, _, ok := ParseDate(key); !ok {
			out = append(out, key)
		}
	}
	return out
}
