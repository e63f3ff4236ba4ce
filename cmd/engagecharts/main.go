// Package main provides the CLI entrypoint for engagecharts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/engagecharts/internal/chart"
	"github.com/verte-zerg/engagecharts/internal/config"
	"github.com/verte-zerg/engagecharts/internal/dataset"
	"github.com/verte-zerg/engagecharts/internal/fsutil"
	"github.com/verte-zerg/engagecharts/internal/generator"
	"github.com/verte-zerg/engagecharts/internal/logging"
	"github.com/verte-zerg/engagecharts/internal/model"
	"github.com/verte-zerg/engagecharts/internal/pipeline"
	"github.com/verte-zerg/engagecharts/internal/stats"
	"github.com/verte-zerg/engagecharts/internal/statsui"
	"github.com/verte-zerg/engagecharts/internal/store"
)

var (
	configPath string
	logLevel   string
	dataPath   string
	dbPath     string

	renderOut      string
	renderOnly     []string
	renderSortKeys bool

	summaryColor    bool
	summaryPlatform string
	summaryPostType string
	summaryAgeGroup string

	generateRows  int
	generateSeed  int64
	generateDays  int
	generateStart string
)

func main() {
	rootCmd := newRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "engagecharts",
		Short:         "Render social media engagement charts",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runRenderCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to the TOML config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", config.DefaultDataPath, "CSV dataset path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (takes precedence over --data)")
	addRenderFlags(rootCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write the boxplot, bar chart and line chart as SVG",
		Args:  cobra.NoArgs,
		RunE:  runRenderCmd,
	}
	addRenderFlags(renderCmd)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&renderOut, "out", config.DefaultOutDir, "output directory")
	cmd.Flags().StringSliceVar(&renderOnly, "only", nil, "charts to render (boxplot,barplot,lineplot)")
	cmd.Flags().BoolVar(&renderSortKeys, "sort-keys", false, "sort platforms and post types lexically")
}

// loadSettings layers defaults, the TOML file, the environment and explicit
// flags, in that order, and configures logging.
func loadSettings(cmd *cobra.Command, logOut io.Writer) (model.SourceConfig, model.ChartConfig, error) {
	// config and .env warnings go through the console writer at the flag level
	if err := logging.Setup(logOut, logLevel, !isTerminal(os.Stderr)); err != nil {
		return model.SourceConfig{}, model.ChartConfig{}, err
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.SourceConfig{}, model.ChartConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv(config.DefaultEnvPath())
	if err != nil {
		return model.SourceConfig{}, model.ChartConfig{}, err
	}

	dataChanged := cmd.Flags().Changed("data")
	applyStringConfig(cmd, "data", &dataPath, fileCfg.Input.Data)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Input.DB)
	applyStringConfig(cmd, "out", &renderOut, fileCfg.Output.Dir)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyBoolConfig(cmd, "sort-keys", &renderSortKeys, fileCfg.Barplot.SortKeys)
	if len(fileCfg.Output.Only) > 0 && !cmd.Flags().Changed("only") {
		renderOnly = fileCfg.Output.Only
	}

	applyStringConfig(cmd, "data", &dataPath, config.Ptr(env.Data))
	applyStringConfig(cmd, "db", &dbPath, config.Ptr(env.DB))
	applyStringConfig(cmd, "out", &renderOut, config.Ptr(env.OutDir))
	applyStringConfig(cmd, "log-level", &logLevel, config.Ptr(env.LogLevel))

	// an explicit --data wins over a database configured elsewhere
	if dataChanged && !cmd.Flags().Changed("db") {
		dbPath = ""
	}

	if err := logging.Setup(logOut, logLevel, !isTerminal(os.Stderr)); err != nil {
		return model.SourceConfig{}, model.ChartConfig{}, err
	}

	charts := chart.DefaultConfig()
	config.ApplyCharts(fileCfg, &charts)
	charts.OutDir = renderOut
	charts.Barplot.SortKeys = renderSortKeys
	if err := pipeline.Select(&charts, renderOnly); err != nil {
		return model.SourceConfig{}, model.ChartConfig{}, err
	}
	if err := chart.Validate(charts); err != nil {
		return model.SourceConfig{}, model.ChartConfig{}, fmt.Errorf("invalid chart config: %w", err)
	}
	return model.SourceConfig{DataPath: dataPath, DBPath: dbPath}, charts, nil
}

func runRenderCmd(cmd *cobra.Command, _ []string) error {
	src, charts, err := loadSettings(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ds, err := pipeline.Load(ctx, src)
	if err != nil {
		return err
	}
	results, err := pipeline.Run(ctx, ds, charts)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if _, werr := fmt.Fprintln(cmd.OutOrStdout(), r.Path); werr != nil {
			return fmt.Errorf("failed to write output: %w", werr)
		}
	}
	return err
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the aggregates as text tables",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	cmd.Flags().BoolVar(&summaryColor, "color", false, "force colored plot output")
	cmd.Flags().StringVar(&summaryPlatform, "platform", "", "only posts whose platform contains this text")
	cmd.Flags().StringVar(&summaryPostType, "post-type", "", "only posts whose type contains this text")
	cmd.Flags().StringVar(&summaryAgeGroup, "age-group", "", "only posts whose age group contains this text")
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	src, charts, err := loadSettings(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ds, err := pipeline.Load(cmd.Context(), src)
	if err != nil {
		return err
	}
	filter := stats.Filter{
		Platform: summaryPlatform,
		PostType: summaryPostType,
		AgeGroup: summaryAgeGroup,
	}
	ds.Records = filter.Apply(ds.Records)
	report := stats.BuildReport(ds, keyOrder(charts))

	out := cmd.OutOrStdout()
	width := 0
	if file, ok := out.(*os.File); ok && isTerminal(file) {
		if w, _, err := term.GetSize(int(file.Fd())); err == nil {
			width = w
		}
	}
	if err := stats.RenderReport(out, ds.Source, report, width, summaryColor); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Explore the aggregates in a terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	// the UI owns the terminal, so log output is dropped
	src, charts, err := loadSettings(cmd, io.Discard)
	if err != nil {
		return err
	}
	loader := func(ctx context.Context) (model.Dataset, error) {
		return pipeline.Load(ctx, src)
	}
	ctx := cmd.Context()
	ds, err := loader(ctx)
	if err != nil {
		return err
	}
	ui := statsui.NewModel(ctx, ds, loader, keyOrder(charts))
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browse TUI: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Replace the posts in the SQLite database given by --db with the CSV dataset",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	if _, _, err := loadSettings(cmd, os.Stderr); err != nil {
		return err
	}
	if dbPath == "" {
		return fmt.Errorf("--db is required for import")
	}
	ctx := cmd.Context()
	ds, err := dataset.LoadFile(ctx, dataPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}()
	if err := st.ReplaceRecords(ctx, ds.Records); err != nil {
		return fmt.Errorf("failed to import records: %w", err)
	}
	log.Info().
		Str("from", dataPath).
		Str("to", dbPath).
		Int("records", len(ds.Records)).
		Int("unusable", len(ds.CoercionErrors)).
		Msg("dataset imported")
	return nil
}

func newGenerateCmd() *cobra.Command {
	defaults := generator.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic CSV dataset to --data",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().IntVar(&generateRows, "rows", defaults.Rows, "number of posts")
	cmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&generateDays, "days", defaults.Days, "number of days the posts are spread over")
	cmd.Flags().StringVar(&generateStart, "start", defaults.Start.Format("2006-01-02"), "first day (YYYY-MM-DD)")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	if _, _, err := loadSettings(cmd, os.Stderr); err != nil {
		return err
	}
	if generateRows <= 0 {
		return fmt.Errorf("--rows must be > 0")
	}
	if generateDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	start, err := time.ParseInLocation("2006-01-02", generateStart, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --start value: %w", err)
	}
	opts := generator.DefaultOptions()
	opts.Rows = generateRows
	opts.Days = generateDays
	opts.Start = start

	gen := generator.New()
	if generateSeed != 0 {
		gen = generator.NewSeeded(generateSeed)
	}
	records := gen.Generate(opts)
	if err := fsutil.WriteFile(dataPath, func(w io.Writer) error {
		return dataset.Write(w, records)
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", dataPath, err)
	}
	log.Info().Str("path", dataPath).Int("records", len(records)).Msg("dataset generated")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func keyOrder(charts model.ChartConfig) stats.KeyOrder {
	if charts.Barplot.SortKeys {
		return stats.Lexical
	}
	return stats.FirstSeen
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := chart.DefaultConfig()
	return fmt.Sprintf(`# engagecharts configuration
# Uncomment a value to enable it. Environment variables (ENGAGECHARTS_*)
# override config values and CLI flags override both.

[input]
# data = %q               # CSV dataset path
# db = "posts.db"         # SQLite database, used instead of data when set

[output]
# dir = %q                # Output directory for SVG files
# only = ["boxplot", "barplot", "lineplot"]

[log]
# level = %q              # debug, info, warn, error

[boxplot]
# width = %d
# height = %d
# margin-top = %d
# margin-right = %d
# margin-bottom = %d
# margin-left = %d
# title = %q
# fill = %q
# padding = %.2f
# file = %q

[barplot]
# width = %d
# height = %d
# margin-right = %d
# colors = ["#1f77b4", "#ff7f0e", "#2ca02c"]
# outer-padding = %.2f
# inner-padding = %.2f
# sort-keys = false       # Sort platforms and post types lexically
# file = %q

[lineplot]
# width = %d
# height = %d
# margin-bottom = %d
# stroke = %q
# stroke-width = %.1f
# point-radius = %d
# file = %q
`,
		config.DefaultDataPath,
		config.DefaultOutDir,
		logging.DefaultLevel,
		defaults.Boxplot.Width,
		defaults.Boxplot.Height,
		defaults.Boxplot.Margins.Top,
		defaults.Boxplot.Margins.Right,
		defaults.Boxplot.Margins.Bottom,
		defaults.Boxplot.Margins.Left,
		defaults.Boxplot.Title,
		defaults.Boxplot.BoxFill,
		defaults.Boxplot.Padding,
		defaults.Boxplot.File,
		defaults.Barplot.Width,
		defaults.Barplot.Height,
		defaults.Barplot.Margins.Right,
		defaults.Barplot.OuterPadding,
		defaults.Barplot.InnerPadding,
		defaults.Barplot.File,
		defaults.Lineplot.Width,
		defaults.Lineplot.Height,
		defaults.Lineplot.Margins.Bottom,
		defaults.Lineplot.Stroke,
		defaults.Lineplot.StrokeWidth,
		defaults.Lineplot.PointRadius,
		defaults.Lineplot.File,
	)
}
