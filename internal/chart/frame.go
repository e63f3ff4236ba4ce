package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/verte-zerg/engagecharts/internal/model"
)

const (
	tickSize    = 6
	tickPadding = 3
	fontAttrs   = `font-family="sans-serif" font-size="10"`
	axisStroke  = "stroke:currentColor;fill:none"
)

// errWriter remembers the first write error, since svgo does not report
// them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}

// frame is an SVG document whose drawing origin is the top-left corner of
// the plot area inside the margins.
type frame struct {
	out    *errWriter
	canvas *svg.SVG
	layout model.Layout
	width  float64
	height float64
}

func beginFrame(w io.Writer, layout model.Layout) *frame {
	out := &errWriter{w: w}
	f := &frame{
		out:    out,
		canvas: svg.New(out),
		layout: layout,
		width:  float64(layout.InnerWidth()),
		height: float64(layout.InnerHeight()),
	}
	f.canvas.Start(layout.Width, layout.Height)
	if layout.Title != "" {
		f.canvas.Title(layout.Title)
	}
	f.canvas.Translate(layout.Margins.Left, layout.Margins.Top)
	return f
}

func (f *frame) end() error {
	f.canvas.Gend()
	f.canvas.End()
	return f.out.err
}

func px(v float64) int {
	return int(math.Round(v))
}

func (f *frame) bandAxisBottom(b Band) {
	f.canvas.Gtransform(fmt.Sprintf("translate(0,%d)", px(f.height)))
	f.canvas.Group(fontAttrs, `text-anchor="middle"`)
	f.canvas.Path(fmt.Sprintf("M0,%dV0H%dV%d", tickSize, px(f.width), tickSize), axisStroke)
	for _, key := range b.Domain() {
		x, _ := b.Map(key)
		center := px(x + b.Bandwidth()/2)
		f.canvas.Line(center, 0, center, tickSize, "stroke:currentColor")
		f.canvas.Text(center, tickSize+tickPadding, key, `dy="0.71em"`, "fill:currentColor")
	}
	f.canvas.Gend()
	f.canvas.Gend()
}

func (f *frame) linearAxisLeft(l Linear) {
	ticks := l.Ticks(defaultTickCount)
	step := 0.0
	if len(ticks) > 1 {
		step = ticks[1] - ticks[0]
	}
	f.canvas.Group(fontAttrs, `text-anchor="end"`)
	f.canvas.Path(fmt.Sprintf("M-%d,%dH0V0H-%d", tickSize, px(f.height), tickSize), axisStroke)
	for _, t := range ticks {
		y := px(l.Map(t))
		f.canvas.Line(-tickSize, y, 0, y, "stroke:currentColor")
		f.canvas.Text(-(tickSize + tickPadding), y, formatTick(t, step), `dy="0.32em"`, "fill:currentColor")
	}
	f.canvas.Gend()
}

func (f *frame) timeAxisBottom(t Time, maxTicks int, layout string) {
	f.canvas.Gtransform(fmt.Sprintf("translate(0,%d)", px(f.height)))
	f.canvas.Group(fontAttrs)
	f.canvas.Path(fmt.Sprintf("M0,%dV0H%dV%d", tickSize, px(f.width), tickSize), axisStroke)
	for _, day := range t.DayTicks(maxTicks) {
		x := px(t.Map(day))
		f.canvas.Line(x, 0, x, tickSize, "stroke:currentColor")
		f.canvas.Text(x, tickSize+tickPadding, day.Format(layout),
			fmt.Sprintf(`dy="0.71em" text-anchor="end" transform="rotate(-35 %d %d)"`, x, tickSize+tickPadding),
			"fill:currentColor")
	}
	f.canvas.Gend()
	f.canvas.Gend()
}

// axisLabels draws the x label below the plot and the rotated y label left
// of it.
func (f *frame) axisLabels(xOffset, yOffset int) {
	if f.layout.XLabel != "" {
		f.canvas.Text(px(f.width/2), px(f.height)+xOffset, f.layout.XLabel, `text-anchor="middle"`)
	}
	if f.layout.YLabel != "" {
		f.canvas.Text(-px(f.height/2), -yOffset, f.layout.YLabel, `transform="rotate(-90)"`, `text-anchor="middle"`)
	}
}

// naturalPath builds an SVG path through the points using a natural cubic
// spline. Fewer than three points degrade to straight segments.
func naturalPath(xs, ys []float64) string {
	n := len(xs)
	if n == 0 {
		return ""
	}
	var path []byte
	path = appendPoint(append(path, 'M'), xs[0], ys[0])
	switch n {
	case 1:
		return string(path)
	case 2:
		path = appendPoint(append(path, 'L'), xs[1], ys[1])
		return string(path)
	}
	ax, bx := naturalControlPoints(xs)
	ay, by := naturalControlPoints(ys)
	for i := 0; i < n-1; i++ {
		path = append(path, 'C')
		path = appendPoint(path, ax[i], ay[i])
		path = append(path, ',')
		path = appendPoint(path, bx[i], by[i])
		path = append(path, ',')
		path = appendPoint(path, xs[i+1], ys[i+1])
	}
	return string(path)
}

// naturalControlPoints solves the tridiagonal system for the Bézier control
// points of a natural cubic spline through x.
func naturalControlPoints(x []float64) ([]float64, []float64) {
	n := len(x) - 1
	a := make([]float64, n)
	b := make([]float64, n)
	r := make([]float64, n)
	a[0], b[0], r[0] = 0, 2, x[0]+2*x[1]
	for i := 1; i < n-1; i++ {
		a[i], b[i], r[i] = 1, 4, 4*x[i]+2*x[i+1]
	}
	a[n-1], b[n-1], r[n-1] = 2, 7, 8*x[n-1]+x[n]
	for i := 1; i < n; i++ {
		m := a[i] / b[i-1]
		b[i] -= m
		r[i] -= m * r[i-1]
	}
	a[n-1] = r[n-1] / b[n-1]
	for i := n - 2; i >= 0; i-- {
		a[i] = (r[i] - a[i+1]) / b[i]
	}
	b[n-1] = (x[n] + a[n-1]) / 2
	for i := 0; i < n-1; i++ {
		b[i] = 2*x[i+1] - a[i+1]
	}
	return a, b
}

func appendPoint(path []byte, x, y float64) []byte {
	path = strconv.AppendFloat(path, x, 'g', 6, 64)
	path = append(path, ',')
	return strconv.AppendFloat(path, y, 'g', 6, 64)
}
