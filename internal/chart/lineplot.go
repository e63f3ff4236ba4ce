package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/verte-zerg/engagecharts/internal/model"
)

const dayTickLayout = "01/02"

// RenderLineplot draws daily average likes in chronological order as a
// smoothed line with a marker per day.
func RenderLineplot(w io.Writer, daily []model.DailyMean, cfg model.LineplotConfig) error {
	f := beginFrame(w, cfg.Layout)

	points := make([]model.DailyMean, 0, len(daily))
	for _, d := range daily {
		if isFinite(d.AvgLikes) {
			points = append(points, d)
		}
	}

	days := make([]time.Time, len(points))
	maxAvg := 0.0
	for i, p := range points {
		days[i] = p.Day
		maxAvg = math.Max(maxAvg, p.AvgLikes)
	}
	x := NewTime(days, 0, f.width)
	y := NewLinear(0, maxAvg, f.height, 0, true)

	f.timeAxisBottom(x, len(points), dayTickLayout)
	f.linearAxisLeft(y)
	f.axisLabels(65, 50)

	if len(points) > 0 {
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = x.Map(p.Day)
			ys[i] = y.Map(p.AvgLikes)
		}
		width := strconv.FormatFloat(cfg.StrokeWidth, 'f', -1, 64)
		f.canvas.Path(naturalPath(xs, ys), fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", cfg.Stroke, width))
		for i, p := range points {
			f.canvas.Circle(px(xs[i]), px(ys[i]), cfg.PointRadius,
				"fill:"+cfg.Stroke, fmt.Sprintf(`data-date=%q`, p.Date))
		}
	}
	return f.end()
}
