// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"time"
)

// Record is one post observation from the engagement dataset.
type Record struct {
	Platform string
	PostType string
	AgeGroup string
	Date     string
	Likes    float64
}

// CoercionError describes a field that could not be converted to a number.
type CoercionError struct {
	Row   int
	Field string
	Value string
}

func (e CoercionError) Error() string {
	return fmt.Sprintf("row %d: %s value %q is not a finite non-negative number", e.Row, e.Field, e.Value)
}

// Dataset is a loaded, coerced set of records. It is treated as read-only
// once returned by a loader.
type Dataset struct {
	Source         string
	Records        []Record
	CoercionErrors []CoercionError
}

// GroupSummary holds the five-number summary of Likes for one group.
// All five values are NaN when the group had no finite values.
type GroupSummary struct {
	Key    string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Valid reports whether the summary was computed from at least one value.
func (s GroupSummary) Valid() bool {
	return s.Count > 0 && !math.IsNaN(s.Min)
}

// PlatformTypeMean is the mean Likes for one (Platform, PostType) pair.
type PlatformTypeMean struct {
	Platform string
	PostType string
	Count    int
	AvgLikes float64
}

// DailyMean is the mean Likes for one normalized date.
type DailyMean struct {
	Date     string
	Day      time.Time
	HasYear  bool
	Count    int
	AvgLikes float64
}

// Margins are the plot insets in pixels.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Layout defines the pixel geometry and labels of one chart.
type Layout struct {
	Width   int
	Height  int
	Margins Margins
	Title   string
	XLabel  string
	YLabel  string
}

// InnerWidth returns the plot area width.
func (l Layout) InnerWidth() int {
	return l.Width - l.Margins.Left - l.Margins.Right
}

// InnerHeight returns the plot area height.
func (l Layout) InnerHeight() int {
	return l.Height - l.Margins.Top - l.Margins.Bottom
}

// ChartConfig defines the rendering settings for all three charts.
type ChartConfig struct {
	OutDir   string
	Boxplot  BoxplotConfig
	Barplot  BarplotConfig
	Lineplot LineplotConfig
}

// BoxplotConfig configures the Likes-by-age-group boxplot.
type BoxplotConfig struct {
	Layout
	File     string
	BoxFill  string
	Padding  float64
	Disabled bool
}

// BarplotConfig configures the grouped bar chart.
type BarplotConfig struct {
	Layout
	File         string
	Colors       []string
	OuterPadding float64
	InnerPadding float64
	SortKeys     bool
	Disabled     bool
}

// LineplotConfig configures the daily time-series chart.
type LineplotConfig struct {
	Layout
	File        string
	Stroke      string
	StrokeWidth float64
	PointRadius int
	Disabled    bool
}

// SourceConfig selects where records are loaded from.
type SourceConfig struct {
	DataPath string
	DBPath   string
}
