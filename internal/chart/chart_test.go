package chart

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/engagecharts/internal/model"
)

func sampleSummaries() []model.GroupSummary {
	return []model.GroupSummary{
		{Key: "18-25", Count: 3, Min: 10, Q1: 15, Median: 20, Q3: 25, Max: 30},
		{Key: "26-35", Count: 0, Min: math.NaN(), Q1: math.NaN(), Median: math.NaN(), Q3: math.NaN(), Max: math.NaN()},
		{Key: "36-45", Count: 2, Min: 40, Q1: 50, Median: 60, Q3: 70, Max: 80},
	}
}

func TestRenderBoxplot(t *testing.T) {
	cfg := DefaultConfig().Boxplot
	var buf bytes.Buffer
	if err := RenderBoxplot(&buf, sampleSummaries(), cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") || !strings.Contains(out, "</svg>") {
		t.Fatalf("expected a complete svg document, got %q", out)
	}
	if got := strings.Count(out, `class="box"`); got != 2 {
		t.Fatalf("expected 2 boxes, got %d", got)
	}
	for _, key := range []string{"18-25", "26-35", "36-45", "Age Group", "Likes"} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected %q in output", key)
		}
	}
	if !strings.Contains(out, "fill:#cfe8ff") {
		t.Fatalf("expected box fill in output")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	means := []model.PlatformTypeMean{
		{Platform: "Instagram", PostType: "Video", Count: 2, AvgLikes: 150},
		{Platform: "Instagram", PostType: "Image", Count: 1, AvgLikes: 90},
		{Platform: "TikTok", PostType: "Video", Count: 1, AvgLikes: 300},
	}
	renders := []func(io.Writer) error{
		func(w io.Writer) error { return RenderBoxplot(w, sampleSummaries(), cfg.Boxplot) },
		func(w io.Writer) error { return RenderBarplot(w, means, cfg.Barplot) },
		func(w io.Writer) error { return RenderLineplot(w, sampleDaily(), cfg.Lineplot) },
	}
	for i, render := range renders {
		var a, b bytes.Buffer
		if err := render(&a); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if err := render(&b); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if a.String() != b.String() {
			t.Fatalf("render %d is not deterministic", i)
		}
	}
}

func TestRenderBarplot(t *testing.T) {
	means := []model.PlatformTypeMean{
		{Platform: "Instagram", PostType: "Video", Count: 2, AvgLikes: 150},
		{Platform: "Instagram", PostType: "Image", Count: 1, AvgLikes: 90},
		{Platform: "TikTok", PostType: "Video", Count: 1, AvgLikes: 300},
		{Platform: "TikTok", PostType: "Text", Count: 0, AvgLikes: math.NaN()},
	}
	var buf bytes.Buffer
	if err := RenderBarplot(&buf, means, DefaultConfig().Barplot); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, `class="platformGroup"`); got != 2 {
		t.Fatalf("expected 2 platform groups, got %d", got)
	}
	// three bars plus three legend swatches
	if got := strings.Count(out, "<rect"); got != 6 {
		t.Fatalf("expected 6 rects, got %d", got)
	}
	if got := strings.Count(out, "fill:#1f77b4"); got != 3 {
		t.Fatalf("expected Video color on 2 bars and 1 swatch, got %d", got)
	}
	for _, label := range []string{"Video", "Image", "Text", "Platform", "Average Likes"} {
		if !strings.Contains(out, label) {
			t.Fatalf("expected %q in output", label)
		}
	}
}

func sampleDaily() []model.DailyMean {
	return []model.DailyMean{
		{Date: "1/1/2024", Day: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), HasYear: true, Count: 2, AvgLikes: 15},
		{Date: "1/2/2024", Day: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), HasYear: true, Count: 1, AvgLikes: 40},
		{Date: "1/5/2024", Day: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), HasYear: true, Count: 3, AvgLikes: 25},
	}
}

func TestRenderLineplot(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLineplot(&buf, sampleDaily(), DefaultConfig().Lineplot); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Fatalf("expected 3 points, got %d", got)
	}
	if !strings.Contains(out, "stroke:steelblue;stroke-width:2.5") {
		t.Fatalf("expected line stroke in output")
	}
	if !strings.Contains(out, "01/05") {
		t.Fatalf("expected day tick label in output")
	}
}

func TestRenderEmptyInputs(t *testing.T) {
	cfg := DefaultConfig()
	var buf bytes.Buffer
	if err := RenderBoxplot(&buf, nil, cfg.Boxplot); err != nil {
		t.Fatalf("boxplot: %v", err)
	}
	if err := RenderBarplot(&buf, nil, cfg.Barplot); err != nil {
		t.Fatalf("barplot: %v", err)
	}
	if err := RenderLineplot(&buf, nil, cfg.Lineplot); err != nil {
		t.Fatalf("lineplot: %v", err)
	}
	if strings.Count(buf.String(), "</svg>") != 3 {
		t.Fatalf("expected three empty documents")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRenderReportsWriteError(t *testing.T) {
	err := RenderBoxplot(failingWriter{}, sampleSummaries(), DefaultConfig().Boxplot)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestNaturalControlPointsOnLine(t *testing.T) {
	a, b := naturalControlPoints([]float64{0, 1, 2})
	want := [][2]float64{{1.0 / 3, 2.0 / 3}, {4.0 / 3, 5.0 / 3}}
	for i := range want {
		if !approx(a[i], want[i][0]) || !approx(b[i], want[i][1]) {
			t.Fatalf("segment %d: expected %v, got %v %v", i, want[i], a[i], b[i])
		}
	}
	if got := naturalPath([]float64{0, 1, 2}, []float64{0, 1, 2}); !strings.HasPrefix(got, "M0,0C") || !strings.HasSuffix(got, "2,2") {
		t.Fatalf("unexpected path %q", got)
	}
	if got := naturalPath([]float64{1, 5}, []float64{2, 3}); got != "M1,2L5,3" {
		t.Fatalf("unexpected two-point path %q", got)
	}
	if got := naturalPath(nil, nil); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	cfg.Barplot.Margins.Right = 2000
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected oversized margins to fail")
	}
	cfg.Barplot.Disabled = true
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected disabled chart to be ignored: %v", err)
	}
}
