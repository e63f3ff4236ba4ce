// Package pipeline loads the engagement dataset and renders every chart.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/engagecharts/internal/chart"
	"github.com/verte-zerg/engagecharts/internal/dataset"
	"github.com/verte-zerg/engagecharts/internal/fsutil"
	"github.com/verte-zerg/engagecharts/internal/model"
	"github.com/verte-zerg/engagecharts/internal/stats"
	"github.com/verte-zerg/engagecharts/internal/store"
)

// Chart names, also accepted by --only.
const (
	Boxplot  = "boxplot"
	Barplot  = "barplot"
	Lineplot = "lineplot"
)

// ChartNames lists every chart in render order.
var ChartNames = []string{Boxplot, Barplot, Lineplot}

const maxLoggedCoercions = 20

// Result reports the outcome of one chart chain.
type Result struct {
	Chart    string
	Path     string
	Items    int
	Duration time.Duration
	Err      error
}

// Load reads the dataset from the configured source. A database path takes
// precedence over a CSV path.
func Load(ctx context.Context, src model.SourceConfig) (model.Dataset, error) {
	var (
		ds  model.Dataset
		err error
	)
	switch {
	case src.DBPath != "":
		ds, err = store.LoadFile(ctx, src.DBPath)
	case src.DataPath != "":
		ds, err = dataset.LoadFile(ctx, src.DataPath)
	default:
		err = fmt.Errorf("no data source configured")
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to load dataset: %w", err)
	}
	logCoercionErrors(ds.CoercionErrors)
	log.Debug().
		Str("source", ds.Source).
		Int("records", len(ds.Records)).
		Msg("dataset loaded")
	return ds, nil
}

func logCoercionErrors(errs []model.CoercionError) {
	for i, cerr := range errs {
		if i == maxLoggedCoercions {
			log.Warn().Int("more", len(errs)-i).Msg("further unusable likes values not shown")
			return
		}
		log.Warn().
			Int("row", cerr.Row).
			Str("field", cerr.Field).
			Str("value", cerr.Value).
			Msg("unusable likes value treated as missing")
	}
}

// Select disables every chart not named in only. An empty list keeps all
// charts enabled.
func Select(cfg *model.ChartConfig, only []string) error {
	if len(only) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		switch name {
		case Boxplot, Barplot, Lineplot:
			wanted[name] = true
		default:
			return fmt.Errorf("unknown chart %q (available: boxplot, barplot, lineplot)", name)
		}
	}
	cfg.Boxplot.Disabled = !wanted[Boxplot]
	cfg.Barplot.Disabled = !wanted[Barplot]
	cfg.Lineplot.Disabled = !wanted[Lineplot]
	return nil
}

type chain struct {
	name string
	file string
	run  func() (int, func(io.Writer) error)
}

// Run renders every enabled chart from ds concurrently. The dataset is only
// read. A failing chart does not stop the others; the returned error joins
// every chain failure.
func Run(ctx context.Context, ds model.Dataset, cfg model.ChartConfig) ([]Result, error) {
	if err := chart.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid chart config: %w", err)
	}
	chains := buildChains(ds, cfg)
	results := make([]Result, len(chains))

	var g errgroup.Group
	for i, c := range chains {
		i, c := i, c
		g.Go(func() error {
			results[i] = runChain(ctx, cfg.OutDir, c)
			return results[i].Err
		})
	}
	if err := g.Wait(); err == nil {
		return results, nil
	}
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Chart, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func buildChains(ds model.Dataset, cfg model.ChartConfig) []chain {
	var chains []chain
	if !cfg.Boxplot.Disabled {
		chains = append(chains, chain{
			name: Boxplot,
			file: cfg.Boxplot.File,
			run: func() (int, func(io.Writer) error) {
				summaries := stats.FiveNumberByGroup(ds.Records, stats.ByAgeGroup)
				for _, key := range stats.SkippedGroups(summaries) {
					log.Warn().Str("group", key).Msg("age group has no usable likes; skipping box")
				}
				return len(summaries), func(w io.Writer) error {
					return chart.RenderBoxplot(w, summaries, cfg.Boxplot)
				}
			},
		})
	}
	if !cfg.Barplot.Disabled {
		order := stats.FirstSeen
		if cfg.Barplot.SortKeys {
			order = stats.Lexical
		}
		chains = append(chains, chain{
			name: Barplot,
			file: cfg.Barplot.File,
			run: func() (int, func(io.Writer) error) {
				means := stats.PlatformTypeMeans(ds.Records, order)
				return len(means), func(w io.Writer) error {
					return chart.RenderBarplot(w, means, cfg.Barplot)
				}
			},
		})
	}
	if !cfg.Lineplot.Disabled {
		chains = append(chains, chain{
			name: Lineplot,
			file: cfg.Lineplot.File,
			run: func() (int, func(io.Writer) error) {
				daily := stats.DailyMeans(ds.Records)
				if dropped := stats.DroppedDates(ds.Records); len(dropped) > 0 {
					log.Debug().Strs("dates", dropped).Msg("dropped unparseable dates")
				}
				return len(daily), func(w io.Writer) error {
					return chart.RenderLineplot(w, daily, cfg.Lineplot)
				}
			},
		})
	}
	return chains
}

func runChain(ctx context.Context, outDir string, c chain) Result {
	start := time.Now()
	res := Result{Chart: c.name, Path: filepath.Join(outDir, c.file)}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	items, render := c.run()
	res.Items = items
	if err := fsutil.WriteFile(res.Path, render); err != nil {
		res.Err = fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	res.Duration = time.Since(start)
	if res.Err != nil {
		log.Error().Err(res.Err).Str("chart", c.name).Msg("chart failed")
		return res
	}
	log.Info().
		Str("chart", c.name).
		Str("path", res.Path).
		Int("items", items).
		Dur("took", res.Duration).
		Msg("chart written")
	return res
}
