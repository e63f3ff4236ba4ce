package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/samber/lo"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// RenderBoxplot draws one box-and-whisker glyph per age group. Groups
// without any finite value keep their slot on the axis but draw nothing.
func RenderBoxplot(w io.Writer, summaries []model.GroupSummary, cfg model.BoxplotConfig) error {
	f := beginFrame(w, cfg.Layout)

	keys := lo.Uniq(lo.Map(summaries, func(s model.GroupSummary, _ int) string { return s.Key }))
	x := NewBand(keys, 0, f.width, cfg.Padding)
	maxLikes := 0.0
	for _, s := range summaries {
		if s.Valid() {
			maxLikes = math.Max(maxLikes, s.Max)
		}
	}
	y := NewLinear(0, maxLikes, f.height, 0, true)

	f.bandAxisBottom(x)
	f.linearAxisLeft(y)
	f.axisLabels(45, 50)

	for _, s := range summaries {
		if !s.Valid() {
			continue
		}
		x0, _ := x.Map(s.Key)
		drawBox(f, x0, x.Bandwidth(), y, s, cfg.BoxFill)
	}
	return f.end()
}

func drawBox(f *frame, x0, bw float64, y Linear, s model.GroupSummary, fill string) {
	center := x0 + bw/2
	yMin, yMax := px(y.Map(s.Min)), px(y.Map(s.Max))
	yQ1, yQ3 := y.Map(s.Q1), y.Map(s.Q3)
	capLeft, capRight := px(center-bw*0.25), px(center+bw*0.25)

	f.canvas.Group(fmt.Sprintf(`class="box" data-group=%q`, s.Key))
	f.canvas.Line(px(center), yMin, px(center), yMax, "stroke:black")
	f.canvas.Line(capLeft, yMin, capRight, yMin, "stroke:black")
	f.canvas.Line(capLeft, yMax, capRight, yMax, "stroke:black")
	f.canvas.Rect(px(x0), px(yQ3), px(bw), px(math.Max(0, yQ1-yQ3)), fmt.Sprintf("fill:%s;stroke:black", fill))
	median := px(y.Map(s.Median))
	f.canvas.Line(px(x0), median, px(x0+bw), median, "stroke:black;stroke-width:2")
	f.canvas.Gend()
}
