// Package chart renders engagement aggregates as standalone SVG documents.
package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-moremath/scale"
)

const defaultTickCount = 10

// Band maps discrete categories to evenly spaced bands of a pixel range.
type Band struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand builds a band scale over domain spanning [r0, r1]. padding is used
// for both inner and outer padding, as a fraction of the step.
func NewBand(domain []string, r0, r1, padding float64) Band {
	b := Band{
		domain: domain,
		index:  make(map[string]int, len(domain)),
	}
	for i, d := range domain {
		if _, ok := b.index[d]; !ok {
			b.index[d] = i
		}
	}
	n := float64(len(domain))
	b.step = (r1 - r0) / math.Max(1, n-padding+padding*2)
	b.start = r0 + (r1-r0-b.step*(n-padding))*0.5
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Map returns the start offset of the band for key.
func (b Band) Map(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 {
	return b.bandwidth
}

// Domain returns the band categories in order.
func (b Band) Domain() []string {
	return b.domain
}

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	s      scale.Linear
	r0, r1 float64
}

// NewLinear builds a linear scale over [min, max] mapped to [r0, r1]. When
// nice is set the domain is expanded to round tick values.
func NewLinear(min, max, r0, r1 float64, nice bool) Linear {
	if math.IsNaN(min) || math.IsInf(min, 0) {
		min = 0
	}
	if math.IsNaN(max) || math.IsInf(max, 0) || max <= min {
		max = min + 1
	}
	s := scale.Linear{Min: min, Max: max}
	if nice {
		s.Nice(scale.TickOptions{Max: defaultTickCount})
	}
	return Linear{s: s, r0: r0, r1: r1}
}

// Map converts a domain value into pixels.
func (l Linear) Map(v float64) float64 {
	return l.r0 + l.s.Map(v)*(l.r1-l.r0)
}

// Domain returns the (possibly niced) domain bounds.
func (l Linear) Domain() (float64, float64) {
	return l.s.Min, l.s.Max
}

// Ticks returns at most max major tick values inside the domain.
func (l Linear) Ticks(max int) []float64 {
	major, _ := l.s.Ticks(scale.TickOptions{Max: max})
	return major
}

// Time maps calendar days onto a pixel range.
type Time struct {
	min, max time.Time
	r0, r1   float64
}

// NewTime builds a time scale over the extent of days.
func NewTime(days []time.Time, r0, r1 float64) Time {
	t := Time{r0: r0, r1: r1}
	for i, d := range days {
		if i == 0 || d.Before(t.min) {
			t.min = d
		}
		if i == 0 || d.After(t.max) {
			t.max = d
		}
	}
	return t
}

// Map converts a time into pixels. A single-day extent maps to the middle.
func (t Time) Map(d time.Time) float64 {
	lo, hi := unixSeconds(t.min), unixSeconds(t.max)
	if hi <= lo {
		return (t.r0 + t.r1) / 2
	}
	pos := (unixSeconds(d) - lo) / (hi - lo)
	return t.r0 + pos*(t.r1-t.r0)
}

// DayTicks returns whole-day ticks across the extent, thinned so no more
// than max ticks are produced.
func (t Time) DayTicks(max int) []time.Time {
	if t.min.IsZero() && t.max.IsZero() {
		return nil
	}
	days := int((unixSeconds(t.max)-unixSeconds(t.min))/secondsPerDay) + 1
	if max < 1 {
		max = 1
	}
	step := (days + max - 1) / max
	if step < 1 {
		step = 1
	}
	var ticks []time.Time
	for d := t.min; !d.After(t.max); d = d.AddDate(0, 0, step) {
		ticks = append(ticks, d)
	}
	return ticks
}

const secondsPerDay = 24 * 60 * 60

// Year-less dates sit in year 0, beyond the ~292 year range of
// time.Duration, so extents are measured in Unix seconds.
func unixSeconds(d time.Time) float64 {
	return float64(d.Unix())
}

// Palette assigns colors to categories, cycling when there are more
// categories than colors.
type Palette struct {
	colors []string
	index  map[string]int
}

// NewPalette builds an ordinal color scale over domain.
func NewPalette(domain, colors []string) Palette {
	p := Palette{colors: colors, index: make(map[string]int, len(domain))}
	for i, d := range domain {
		if _, ok := p.index[d]; !ok {
			p.index[d] = i
		}
	}
	return p
}

// Color returns the color assigned to key.
func (p Palette) Color(key string) string {
	if len(p.colors) == 0 {
		return "black"
	}
	i, ok := p.index[key]
	if !ok {
		i = len(p.index)
	}
	return p.colors[i%len(p.colors)]
}

// formatTick formats a tick value with precision derived from the tick step
// and thousands separators.
func formatTick(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		s = "0"
	}
	return groupThousands(s)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
