package stats

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// Filter restricts records by case-insensitive substring matches. Empty
// fields match everything.
type Filter struct {
	Platform string
	PostType string
	AgeGroup string
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Platform) == "" &&
		strings.TrimSpace(f.PostType) == "" &&
		strings.TrimSpace(f.AgeGroup) == ""
}

// String renders the active filter terms.
func (f Filter) String() string {
	if f.IsZero() {
		return "none"
	}
	var parts []string
	add := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", name, v))
		}
	}
	add("platform", f.Platform)
	add("type", f.PostType)
	add("age", f.AgeGroup)
	return strings.Join(parts, "  ")
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []model.Record) []model.Record {
	if f.IsZero() {
		return records
	}
	platform := strings.ToLower(strings.TrimSpace(f.Platform))
	postType := strings.ToLower(strings.TrimSpace(f.PostType))
	ageGroup := strings.ToLower(strings.TrimSpace(f.AgeGroup))
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.Platform), platform) ||
			!strings.Contains(strings.ToLower(r.PostType), postType) ||
			!strings.Contains(strings.ToLower(r.AgeGroup), ageGroup) {
			continue
		}
		out = append(out, r)
	}
	return out
}
