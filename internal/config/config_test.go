package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/engagecharts/internal/chart"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Input.Data != nil || cfg.Boxplot.Width != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[input]
data = "posts.csv"

[output]
dir = "charts"

[boxplot]
width = 800
margin-left = 90
title = "Likes per cohort"
fill = "#eeeeee"

[barplot]
colors = ["red", "blue"]
sort-keys = true
file = "bars.svg"

[lineplot]
stroke = "tomato"
point-radius = 6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Input.Data == nil || *fc.Input.Data != "posts.csv" {
		t.Fatalf("expected data path, got %v", fc.Input.Data)
	}

	charts := chart.DefaultConfig()
	ApplyCharts(fc, &charts)
	if charts.OutDir != "charts" {
		t.Fatalf("expected out dir charts, got %q", charts.OutDir)
	}
	if charts.Boxplot.Width != 800 || charts.Boxplot.Height != 420 {
		t.Fatalf("unexpected boxplot size %dx%d", charts.Boxplot.Width, charts.Boxplot.Height)
	}
	if charts.Boxplot.Margins.Left != 90 || charts.Boxplot.Margins.Top != 30 {
		t.Fatalf("unexpected boxplot margins %+v", charts.Boxplot.Margins)
	}
	if charts.Boxplot.Title != "Likes per cohort" || charts.Boxplot.BoxFill != "#eeeeee" {
		t.Fatalf("unexpected boxplot overrides %+v", charts.Boxplot)
	}
	if strings.Join(charts.Barplot.Colors, ",") != "red,blue" || !charts.Barplot.SortKeys {
		t.Fatalf("unexpected barplot overrides %+v", charts.Barplot)
	}
	if charts.Barplot.File != "bars.svg" || charts.Lineplot.File != chart.LineplotFile {
		t.Fatalf("unexpected file names %q %q", charts.Barplot.File, charts.Lineplot.File)
	}
	if charts.Lineplot.Stroke != "tomato" || charts.Lineplot.PointRadius != 6 || charts.Lineplot.StrokeWidth != 2.5 {
		t.Fatalf("unexpected lineplot overrides %+v", charts.Lineplot)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[boxplot]\nwidht = 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "widht") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("ENGAGECHARTS_OUT_DIR=from-dotenv\nENGAGECHARTS_DATA=dotenv.csv\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ENGAGECHARTS_DATA", "env.csv")
	t.Setenv("ENGAGECHARTS_LOG_LEVEL", "debug")
	// registered so the value loaded from .env is cleared afterwards
	t.Setenv("ENGAGECHARTS_OUT_DIR", "")
	if err := os.Unsetenv("ENGAGECHARTS_OUT_DIR"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	env, err := LoadEnv(dotenv)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.Data != "env.csv" {
		t.Fatalf("expected process env to win over .env, got %q", env.Data)
	}
	if env.OutDir != "from-dotenv" || env.LogLevel != "debug" {
		t.Fatalf("unexpected env config %+v", env)
	}
}

func TestLoadEnvMissingDotenv(t *testing.T) {
	t.Setenv("ENGAGECHARTS_DB", "posts.db")
	env, err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.DB != "posts.db" {
		t.Fatalf("expected db from env, got %q", env.DB)
	}
}

func TestPtr(t *testing.T) {
	if Ptr("") != nil {
		t.Fatalf("expected nil for empty value")
	}
	if p := Ptr("x"); p == nil || *p != "x" {
		t.Fatalf("unexpected pointer %v", p)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/xdg", "engagecharts", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultEnvPath(); got != filepath.Join("/tmp/xdg", "engagecharts", ".env") {
		t.Fatalf("unexpected env path %q", got)
	}
}
