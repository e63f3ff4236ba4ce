// Package generator builds synthetic engagement datasets.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// DateLayout matches the dated export format: month/day/year followed by
// the weekday in parentheses.
const DateLayout = "1/2/2006 (Monday)"

// Category is a value drawn with a relative weight. Scale multiplies the
// base likes of posts carrying it.
type Category struct {
	Name   string
	Weight float64
	Scale  float64
}

// Options configures a generated dataset.
type Options struct {
	Rows      int
	Start     time.Time
	Days      int
	BaseLikes float64
	Platforms []Category
	PostTypes []Category
	AgeGroups []Category
}

// DefaultOptions returns a small dataset spread over one month.
func DefaultOptions() Options {
	return Options{
		Rows:      300,
		Start:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Days:      30,
		BaseLikes: 120,
		Platforms: []Category{
			{Name: "Instagram", Weight: 3, Scale: 1.4},
			{Name: "Facebook", Weight: 2, Scale: 1.0},
			{Name: "Twitter", Weight: 2, Scale: 0.7},
		},
		PostTypes: []Category{
			{Name: "Image", Weight: 3, Scale: 1.0},
			{Name: "Video", Weight: 2, Scale: 1.6},
			{Name: "Text", Weight: 1, Scale: 0.5},
		},
		AgeGroups: []Category{
			{Name: "18-24", Weight: 3, Scale: 1.3},
			{Name: "25-34", Weight: 3, Scale: 1.1},
			{Name: "35-44", Weight: 2, Scale: 0.9},
			{Name: "45-54", Weight: 1, Scale: 0.7},
			{Name: "55+", Weight: 1, Scale: 0.5},
		},
	}
}

// Generator produces randomized engagement records.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator whose output is reproducible for seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate draws opts.Rows records. Categories are picked by weight and
// likes are log-normally spread around the product of their scales.
func (g *Generator) Generate(opts Options) []model.Record {
	if opts.Rows <= 0 || len(opts.Platforms) == 0 || len(opts.PostTypes) == 0 || len(opts.AgeGroups) == 0 {
		return nil
	}
	days := opts.Days
	if days < 1 {
		days = 1
	}
	result := make([]model.Record, 0, opts.Rows)
	for i := 0; i < opts.Rows; i++ {
		platform := g.pick(opts.Platforms)
		postType := g.pick(opts.PostTypes)
		ageGroup := g.pick(opts.AgeGroups)
		day := opts.Start.AddDate(0, 0, g.rnd.Intn(days))
		mean := opts.BaseLikes * platform.Scale * postType.Scale * ageGroup.Scale
		likes := math.Round(mean * math.Exp(g.rnd.NormFloat64()*0.35))
		result = append(result, model.Record{
			Platform: platform.Name,
			PostType: postType.Name,
			AgeGroup: ageGroup.Name,
			Date:     day.Format(DateLayout),
			Likes:    math.Max(0, likes),
		})
	}
	return result
}

func (g *Generator) pick(categories []Category) Category {
	total := 0.0
	for _, c := range categories {
		total += math.Max(0, c.Weight)
	}
	if total == 0 {
		return categories[g.rnd.Intn(len(categories))]
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for _, c := range categories {
		acc += math.Max(0, c.Weight)
		if r < acc {
			return c
		}
	}
	return categories[len(categories)-1]
}
