package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/engagecharts/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleDailyMeans() []model.DailyMean {
	return []model.DailyMean{
		{Date: "1/1/2024", Day: day(2024, 1, 1), HasYear: true, Count: 2, AvgLikes: 15},
		{Date: "1/2/2024", Day: day(2024, 1, 2), HasYear: true, Count: 1, AvgLikes: math.NaN()},
		{Date: "1/3/2024", Day: day(2024, 1, 3), HasYear: true, Count: 1, AvgLikes: 40},
		{Date: "1/9/2024", Day: day(2024, 1, 9), HasYear: true, Count: 3, AvgLikes: 25.5},
	}
}

func TestPlotDaily(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	if err := PlotDaily(&buf, sampleDailyMeans(), 30, 4, true); err != nil {
		t.Fatalf("PlotDaily failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, colorReset) {
		t.Fatalf("expected NO_COLOR to disable color")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, stats, 4 plot rows, baseline, date labels
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Daily Average Likes" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != "days=3  min=15  max=40" {
		t.Fatalf("unexpected stats line %q", lines[1])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "40.0") {
		t.Fatalf("expected top label 40.0, got %q", lines[2])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[5]), "0 │") {
		t.Fatalf("expected zero baseline label, got %q", lines[5])
	}
	labels := strings.Fields(lines[7])
	if len(labels) != 2 || labels[0] != "1/1/2024" || labels[1] != "1/9/2024" {
		t.Fatalf("expected first and last dates, got %q", lines[7])
	}
}

func TestPlotDailySkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	daily := []model.DailyMean{{Date: "1/1/2024", Day: day(2024, 1, 1), AvgLikes: math.NaN()}}
	if err := PlotDaily(&buf, daily, 10, 4, false); err != nil {
		t.Fatalf("PlotDaily failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output without finite averages, got %q", buf.String())
	}
}

func TestDayColumnFollowsCalendar(t *testing.T) {
	first, last := day(2024, 1, 1), day(2024, 1, 5)
	if got := dayColumn(day(2024, 1, 2), first, last, 21); got != 5 {
		t.Fatalf("expected column 5, got %d", got)
	}
	if got := dayColumn(last, first, last, 21); got != 20 {
		t.Fatalf("expected last column 20, got %d", got)
	}
	if got := dayColumn(first, first, first, 21); got != 10 {
		t.Fatalf("expected single day centered, got %d", got)
	}
	yearless := time.Date(0, 3, 1, 0, 0, 0, 0, time.UTC)
	end := day(2024, 3, 7)
	a := dayColumn(day(2024, 3, 4), yearless, end, 10_000_000)
	b := dayColumn(end, yearless, end, 10_000_000)
	if dayColumn(yearless, yearless, end, 10_000_000) != 0 || a >= b {
		t.Fatalf("expected mixed-year extent to keep dated days apart, got %d and %d", a, b)
	}
}

func TestDotGridLine(t *testing.T) {
	g := newDotGrid(2, 1)
	g.line(0, 0, 3, 3)
	if got := g.row(0); got != string([]rune{0x2800 + 0x01 + 0x10, 0x2800 + 0x04 + 0x80}) {
		t.Fatalf("unexpected diagonal %q", got)
	}
}
