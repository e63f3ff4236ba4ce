package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out headers and rows in columns sized by display width.
// Columns listed in rightAlign are padded on the left.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	grid := rows
	if len(headers) > 0 {
		grid = append([][]string{headers}, rows...)
	}
	widths := columnWidths(grid)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, len(grid))
	cells := make([]string, len(widths))
	for i, row := range grid {
		for c, width := range widths {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if rightAlign[c] {
				cells[c] = runewidth.FillLeft(cell, width)
			} else {
				cells[c] = runewidth.FillRight(cell, width)
			}
		}
		lines[i] = strings.Join(cells, " ")
	}
	return lines
}

func columnWidths(grid [][]string) []int {
	var widths []int
	for _, row := range grid {
		for c, cell := range row {
			if c == len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], displayWidth(cell))
		}
	}
	return widths
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
