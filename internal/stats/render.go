package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// RenderOverview prints record and exclusion counts for a report.
func RenderOverview(w io.Writer, source string, report Report) error {
	if _, err := fmt.Fprintln(w, "Overview"); err != nil {
		return err
	}
	if source != "" {
		if _, err := fmt.Fprintf(w, "Source: %s\n", source); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Records: %d\n", report.Records); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Unusable likes: %d\n", len(report.Coercion)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Dropped dates: %d\n", len(report.DroppedDates)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderBoxSummary prints the five-number summary table per age group.
func RenderBoxSummary(w io.Writer, summaries []model.GroupSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No age groups found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Likes by Age Group"); err != nil {
		return err
	}
	headers := []string{"Age Group", "N", "Min", "Q1", "Median", "Q3", "Max"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Key,
			fmt.Sprintf("%d", s.Count),
			FormatValue(s.Min),
			FormatValue(s.Q1),
			FormatValue(s.Median),
			FormatValue(s.Q3),
			FormatValue(s.Max),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true})
}

// RenderPairMeans prints average likes per platform and post type.
func RenderPairMeans(w io.Writer, means []model.PlatformTypeMean) error {
	if len(means) == 0 {
		_, err := fmt.Fprintln(w, "No platforms found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Average Likes by Platform and Post Type"); err != nil {
		return err
	}
	headers := []string{"Platform", "Post Type", "N", "Avg Likes"}
	rows := make([][]string, 0, len(means))
	for _, m := range means {
		rows = append(rows, []string{
			m.Platform,
			m.PostType,
			fmt.Sprintf("%d", m.Count),
			FormatValue(m.AvgLikes),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{2: true, 3: true})
}

// RenderDailyMeans prints average likes per day.
func RenderDailyMeans(w io.Writer, daily []model.DailyMean) error {
	if len(daily) == 0 {
		_, err := fmt.Fprintln(w, "No dated posts found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Average Likes by Date"); err != nil {
		return err
	}
	headers := []string{"Date", "N", "Avg Likes"}
	rows := make([][]string, 0, len(daily))
	for _, d := range daily {
		rows = append(rows, []string{
			d.Date,
			fmt.Sprintf("%d", d.Count),
			FormatValue(d.AvgLikes),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true})
}

// RenderDailyCurve plots daily averages sized to the given total width.
func RenderDailyCurve(w io.Writer, daily []model.DailyMean, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotDaily(w, daily, width, height, useColor)
}

// RenderReport prints every section of the report.
func RenderReport(w io.Writer, source string, report Report, totalWidth int, useColor bool) error {
	if err := RenderOverview(w, source, report); err != nil {
		return err
	}
	if err := RenderBoxSummary(w, report.Summaries); err != nil {
		return err
	}
	if err := RenderPairMeans(w, report.Means); err != nil {
		return err
	}
	if err := RenderDailyMeans(w, report.Daily); err != nil {
		return err
	}
	return RenderDailyCurve(w, report.Daily, totalWidth, defaultPlotHeight, useColor)
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FormatValue prints whole numbers without decimals and NaN as "-".
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
