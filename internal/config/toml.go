// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Input    InputConfig    `toml:"input"`
	Output   OutputConfig   `toml:"output"`
	Log      LogConfig      `toml:"log"`
	Boxplot  BoxplotConfig  `toml:"boxplot"`
	Barplot  BarplotConfig  `toml:"barplot"`
	Lineplot LineplotConfig `toml:"lineplot"`
}

// InputConfig selects the dataset source.
type InputConfig struct {
	Data *string `toml:"data"`
	DB   *string `toml:"db"`
}

// OutputConfig maps output settings.
type OutputConfig struct {
	Dir  *string  `toml:"dir"`
	Only []string `toml:"only"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LayoutConfig holds the geometry overrides shared by every chart.
type LayoutConfig struct {
	Width        *int    `toml:"width"`
	Height       *int    `toml:"height"`
	MarginTop    *int    `toml:"margin-top"`
	MarginRight  *int    `toml:"margin-right"`
	MarginBottom *int    `toml:"margin-bottom"`
	MarginLeft   *int    `toml:"margin-left"`
	Title        *string `toml:"title"`
	XLabel       *string `toml:"x-label"`
	YLabel       *string `toml:"y-label"`
	File         *string `toml:"file"`
}

// BoxplotConfig maps [boxplot].
type BoxplotConfig struct {
	LayoutConfig
	Fill    *string  `toml:"fill"`
	Padding *float64 `toml:"padding"`
}

// BarplotConfig maps [barplot].
type BarplotConfig struct {
	LayoutConfig
	Colors       []string `toml:"colors"`
	OuterPadding *float64 `toml:"outer-padding"`
	InnerPadding *float64 `toml:"inner-padding"`
	SortKeys     *bool    `toml:"sort-keys"`
}

// LineplotConfig maps [lineplot].
type LineplotConfig struct {
	LayoutConfig
	Stroke      *string  `toml:"stroke"`
	StrokeWidth *float64 `toml:"stroke-width"`
	PointRadius *int     `toml:"point-radius"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// ApplyCharts overlays the chart sections of the file onto charts.
func ApplyCharts(fc FileConfig, charts *model.ChartConfig) {
	setString(&charts.OutDir, fc.Output.Dir)

	applyLayout(fc.Boxplot.LayoutConfig, &charts.Boxplot.Layout, &charts.Boxplot.File)
	setString(&charts.Boxplot.BoxFill, fc.Boxplot.Fill)
	setFloat(&charts.Boxplot.Padding, fc.Boxplot.Padding)

	applyLayout(fc.Barplot.LayoutConfig, &charts.Barplot.Layout, &charts.Barplot.File)
	if len(fc.Barplot.Colors) > 0 {
		charts.Barplot.Colors = append([]string(nil), fc.Barplot.Colors...)
	}
	setFloat(&charts.Barplot.OuterPadding, fc.Barplot.OuterPadding)
	setFloat(&charts.Barplot.InnerPadding, fc.Barplot.InnerPadding)
	if fc.Barplot.SortKeys != nil {
		charts.Barplot.SortKeys = *fc.Barplot.SortKeys
	}

	applyLayout(fc.Lineplot.LayoutConfig, &charts.Lineplot.Layout, &charts.Lineplot.File)
	setString(&charts.Lineplot.Stroke, fc.Lineplot.Stroke)
	setFloat(&charts.Lineplot.StrokeWidth, fc.Lineplot.StrokeWidth)
	setInt(&charts.Lineplot.PointRadius, fc.Lineplot.PointRadius)
}

func applyLayout(lc LayoutConfig, layout *model.Layout, file *string) {
	setInt(&layout.Width, lc.Width)
	setInt(&layout.Height, lc.Height)
	setInt(&layout.Margins.Top, lc.MarginTop)
	setInt(&layout.Margins.Right, lc.MarginRight)
	setInt(&layout.Margins.Bottom, lc.MarginBottom)
	setInt(&layout.Margins.Left, lc.MarginLeft)
	setString(&layout.Title, lc.Title)
	setString(&layout.XLabel, lc.XLabel)
	setString(&layout.YLabel, lc.YLabel)
	setString(file, lc.File)
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}
