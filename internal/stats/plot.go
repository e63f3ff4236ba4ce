package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/term"

	"github.com/verte-zerg/engagecharts/internal/model"
)

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 8
	axisSeparator       = " │ "
	curveColor          = "\x1b[36m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// brailleBits[x][y] is the bit for dot (x, y) inside a 2x4 braille cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// dotGrid is a canvas of braille cells addressed in dots.
type dotGrid struct {
	cells [][]uint8
}

func newDotGrid(width, height int) *dotGrid {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &dotGrid{cells: cells}
}

func (g *dotGrid) set(x, y int) {
	row, col := y/4, x/2
	if x < 0 || y < 0 || row >= len(g.cells) || col >= len(g.cells[row]) {
		return
	}
	g.cells[row][col] |= brailleBits[x%2][y%4]
}

// line draws a Bresenham segment between two dots, endpoints included.
func (g *dotGrid) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (g *dotGrid) row(y int) string {
	var b strings.Builder
	for _, mask := range g.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

// PlotDaily draws daily averages as a braille curve. Days sit at their
// calendar position, so gaps between dates stay visible, and the value axis
// starts at zero like the SVG line chart. width is the plot area in cells.
func PlotDaily(w io.Writer, daily []model.DailyMean, width, height int, forceColor bool) error {
	points := lo.Filter(daily, func(d model.DailyMean, _ int) bool {
		return isFinite(d.AvgLikes)
	})
	if len(points) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	lowest, highest := math.Inf(1), 0.0
	for _, p := range points {
		lowest = math.Min(lowest, p.AvgLikes)
		highest = math.Max(highest, p.AvgLikes)
	}
	top := highest
	if top == 0 {
		top = 1
	}

	grid := newDotGrid(width, height)
	dotsX, dotsY := width*2, height*4
	first, last := points[0].Day, points[len(points)-1].Day
	prevX, prevY := -1, -1
	for _, p := range points {
		x := dayColumn(p.Day, first, last, dotsX)
		y := int(math.Round((1 - p.AvgLikes/top) * float64(dotsY-1)))
		if prevX >= 0 {
			grid.line(prevX, prevY, x, y)
		} else {
			grid.set(x, y)
		}
		prevX, prevY = x, y
	}

	useColor := shouldUseColor(w, forceColor)
	labels := valueLabels(height, top)
	lines := []string{
		"Daily Average Likes",
		fmt.Sprintf("days=%d  min=%s  max=%s", len(points), FormatValue(lowest), FormatValue(highest)),
	}
	for y := 0; y < height; y++ {
		curve := grid.row(y)
		if useColor {
			curve = curveColor + curve + colorReset
		}
		lines = append(lines, fmt.Sprintf("%*s%s%s", axisLabelWidth, labels[y], axisSeparator, curve))
	}
	indent := strings.Repeat(" ", axisLabelWidth)
	lines = append(lines,
		indent+" └"+strings.Repeat("─", width+1),
		indent+"   "+dateLabels(points[0].Date, points[len(points)-1].Date, width),
		"",
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// dayColumn places d on a dot column between first and last. A single day
// sits in the middle.
func dayColumn(d, first, last time.Time, dots int) int {
	span := last.Unix() - first.Unix()
	if span <= 0 {
		return dots / 2
	}
	pos := float64(d.Unix()-first.Unix()) / float64(span)
	return int(math.Round(pos * float64(dots-1)))
}

func valueLabels(height int, top float64) []string {
	labels := make([]string, height)
	labels[0] = axisValue(top)
	if height > 2 {
		mid := height / 2
		labels[mid] = axisValue(top * float64(height-1-mid) / float64(height-1))
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func axisValue(v float64) string {
	label := fmt.Sprintf("%.1f", v)
	if len(label) > axisLabelWidth {
		label = fmt.Sprintf("%.3g", v)
	}
	return label
}

// dateLabels puts from at the left edge and to at the right edge of the
// plot, dropping to when both do not fit.
func dateLabels(from, to string, width int) string {
	if from == to {
		return from
	}
	gap := width - utf8.RuneCountInString(from) - utf8.RuneCountInString(to)
	if gap < 1 {
		return from
	}
	return from + strings.Repeat(" ", gap) + to
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		return minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
