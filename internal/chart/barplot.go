package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/samber/lo"

	"github.com/verte-zerg/engagecharts/internal/model"
)

const legendSwatch = 12

// RenderBarplot draws grouped bars of average likes: one group per platform,
// one bar per post type, with a color legend on the right.
func RenderBarplot(w io.Writer, means []model.PlatformTypeMean, cfg model.BarplotConfig) error {
	f := beginFrame(w, cfg.Layout)

	platforms := lo.Uniq(lo.Map(means, func(m model.PlatformTypeMean, _ int) string { return m.Platform }))
	types := lo.Uniq(lo.Map(means, func(m model.PlatformTypeMean, _ int) string { return m.PostType }))

	x0 := NewBand(platforms, 0, f.width, cfg.OuterPadding)
	x1 := NewBand(types, 0, x0.Bandwidth(), cfg.InnerPadding)
	maxAvg := 0.0
	for _, m := range means {
		if isFinite(m.AvgLikes) {
			maxAvg = math.Max(maxAvg, m.AvgLikes)
		}
	}
	y := NewLinear(0, maxAvg, f.height, 0, true)
	color := NewPalette(types, cfg.Colors)

	f.bandAxisBottom(x0)
	f.linearAxisLeft(y)
	f.axisLabels(55, 50)

	byPlatform := lo.GroupBy(means, func(m model.PlatformTypeMean) string { return m.Platform })
	for _, platform := range platforms {
		offset, _ := x0.Map(platform)
		f.canvas.Gtransform(fmt.Sprintf("translate(%d,0)", px(offset)))
		f.canvas.Group(fmt.Sprintf(`class="platformGroup" data-platform=%q`, platform))
		for _, m := range byPlatform[platform] {
			if !isFinite(m.AvgLikes) {
				continue
			}
			bx, _ := x1.Map(m.PostType)
			top := y.Map(m.AvgLikes)
			f.canvas.Rect(px(bx), px(top), px(x1.Bandwidth()), px(f.height-top),
				"fill:"+color.Color(m.PostType))
		}
		f.canvas.Gend()
		f.canvas.Gend()
	}

	drawLegend(f, types, color)
	return f.end()
}

func drawLegend(f *frame, types []string, color Palette) {
	f.canvas.Gtransform(fmt.Sprintf("translate(%d,0)", px(f.width)+20))
	for i, t := range types {
		f.canvas.Rect(0, i*20, legendSwatch, legendSwatch, "fill:"+color.Color(t))
		f.canvas.Text(20, i*20+10, t, `alignment-baseline="middle"`)
	}
	f.canvas.Gend()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
