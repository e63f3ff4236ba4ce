package chart

import (
	"fmt"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// Default output file names.
const (
	BoxplotFile  = "boxplot.svg"
	BarplotFile  = "barplot.svg"
	LineplotFile = "lineplot.svg"
)

// DefaultColors is the post type palette of the bar chart.
var DefaultColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c"}

// DefaultConfig returns the stock layout of the three charts.
func DefaultConfig() model.ChartConfig {
	return model.ChartConfig{
		OutDir: ".",
		Boxplot: model.BoxplotConfig{
			Layout: model.Layout{
				Width:   750,
				Height:  420,
				Margins: model.Margins{Top: 30, Right: 30, Bottom: 60, Left: 70},
				Title:   "Likes by Age Group",
				XLabel:  "Age Group",
				YLabel:  "Likes",
			},
			File:    BoxplotFile,
			BoxFill: "#cfe8ff",
			Padding: 0.35,
		},
		Barplot: model.BarplotConfig{
			Layout: model.Layout{
				Width:   900,
				Height:  430,
				Margins: model.Margins{Top: 30, Right: 200, Bottom: 70, Left: 70},
				Title:   "Average Likes by Platform and Post Type",
				XLabel:  "Platform",
				YLabel:  "Average Likes",
			},
			File:         BarplotFile,
			Colors:       append([]string(nil), DefaultColors...),
			OuterPadding: 0.2,
			InnerPadding: 0.08,
		},
		Lineplot: model.LineplotConfig{
			Layout: model.Layout{
				Width:   900,
				Height:  430,
				Margins: model.Margins{Top: 30, Right: 30, Bottom: 85, Left: 70},
				Title:   "Average Likes by Date",
				XLabel:  "Date",
				YLabel:  "Average Likes",
			},
			File:        LineplotFile,
			Stroke:      "steelblue",
			StrokeWidth: 2.5,
			PointRadius: 4,
		},
	}
}

// ValidateLayout checks that a layout leaves a positive plot area.
func ValidateLayout(name string, l model.Layout) error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%s: width and height must be > 0", name)
	}
	m := l.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("%s: margins must be >= 0", name)
	}
	if l.InnerWidth() <= 0 || l.InnerHeight() <= 0 {
		return fmt.Errorf("%s: margins leave no room to plot", name)
	}
	return nil
}

// Validate checks every enabled chart layout.
func Validate(cfg model.ChartConfig) error {
	if !cfg.Boxplot.Disabled {
		if err := ValidateLayout("boxplot", cfg.Boxplot.Layout); err != nil {
			return err
		}
		if cfg.Boxplot.Padding < 0 || cfg.Boxplot.Padding >= 1 {
			return fmt.Errorf("boxplot: padding must be in [0, 1)")
		}
	}
	if !cfg.Barplot.Disabled {
		if err := ValidateLayout("barplot", cfg.Barplot.Layout); err != nil {
			return err
		}
		if len(cfg.Barplot.Colors) == 0 {
			return fmt.Errorf("barplot: at least one color is required")
		}
		if cfg.Barplot.OuterPadding < 0 || cfg.Barplot.OuterPadding >= 1 ||
			cfg.Barplot.InnerPadding < 0 || cfg.Barplot.InnerPadding >= 1 {
			return fmt.Errorf("barplot: padding must be in [0, 1)")
		}
	}
	if !cfg.Lineplot.Disabled {
		if err := ValidateLayout("lineplot", cfg.Lineplot.Layout); err != nil {
			return err
		}
		if cfg.Lineplot.PointRadius < 0 {
			return fmt.Errorf("lineplot: point radius must be >= 0")
		}
	}
	return nil
}
