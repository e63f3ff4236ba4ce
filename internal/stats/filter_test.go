package stats

import (
	"testing"

	"github.com/verte-zerg/engagecharts/internal/model"
)

func TestFilterApply(t *testing.T) {
	records := []model.Record{
		{Platform: "Instagram", PostType: "Photo", AgeGroup: "18-25"},
		{Platform: "Instagram", PostType: "Video", AgeGroup: "26-35"},
		{Platform: "Twitter", PostType: "Text", AgeGroup: "18-25"},
	}
	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "zero", filter: Filter{}, want: 3},
		{name: "platform", filter: Filter{Platform: "insta"}, want: 2},
		{name: "case insensitive", filter: Filter{PostType: "VIDEO"}, want: 1},
		{name: "combined", filter: Filter{Platform: "instagram", AgeGroup: "18"}, want: 1},
		{name: "no match", filter: Filter{Platform: "tiktok"}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(tc.filter.Apply(records)); got != tc.want {
				t.Fatalf("expected %d records, got %d", tc.want, got)
			}
		})
	}
}

func TestFilterString(t *testing.T) {
	if got := (Filter{}).String(); got != "none" {
		t.Fatalf("expected none, got %q", got)
	}
	if got := (Filter{Platform: "X", AgeGroup: " 18 "}).String(); got != "platform=X  age=18" {
		t.Fatalf("unexpected filter string %q", got)
	}
}
