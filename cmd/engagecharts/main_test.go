package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/engagecharts/internal/config"
)

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("expected commented template to load: %v", err)
	}
}

func TestDefaultConfigTemplateKeysAreKnown(t *testing.T) {
	// uncomment every key and make sure the decoder accepts all of them
	uncommented := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`).ReplaceAllString(defaultConfigTemplate(), "$1")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(uncommented), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("expected uncommented template to load: %v", err)
	}
	if cfg.Boxplot.Width == nil || *cfg.Boxplot.Width != 750 {
		t.Fatalf("expected boxplot width from template, got %v", cfg.Boxplot.Width)
	}
	if len(cfg.Barplot.Colors) != 3 {
		t.Fatalf("expected palette from template, got %v", cfg.Barplot.Colors)
	}
}

func TestApplyStringConfigRespectsFlags(t *testing.T) {
	var target string
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&target, "data", "default.csv", "")

	fromFile := "file.csv"
	applyStringConfig(cmd, "data", &target, &fromFile)
	if target != "file.csv" {
		t.Fatalf("expected config value, got %q", target)
	}
	applyStringConfig(cmd, "data", &target, nil)
	if target != "file.csv" {
		t.Fatalf("expected nil value to be ignored, got %q", target)
	}

	if err := cmd.Flags().Set("data", "flag.csv"); err != nil {
		t.Fatalf("set: %v", err)
	}
	applyStringConfig(cmd, "data", &target, &fromFile)
	if target != "flag.csv" {
		t.Fatalf("expected explicit flag to win, got %q", target)
	}
}

func TestLoadSettingsLogsEnvWarningThroughConsole(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	// a directory where the .env file should be cannot be read
	if err := os.MkdirAll(filepath.Join(dir, "engagecharts", ".env"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cmd := newRootCmd()
	var logs bytes.Buffer
	if _, _, err := loadSettings(cmd, &logs); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "WRN") || !strings.Contains(out, "failed to load .env file") {
		t.Fatalf("expected console-formatted .env warning, got %q", out)
	}
}
