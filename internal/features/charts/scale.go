package charts

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// axisTick is one horizontal grid line: frac is the vertical position as a
// fraction of the plot height measured from the bottom.
type axisTick struct {
	Value float64
	Frac  float64
	Label string
}

// axisScale maps metric values onto a 0..1 vertical fraction, linearly or
// on a decade log scale.
type axisScale struct {
	log      bool
	min, max float64 // exponents in log mode, raw values otherwise
}

func buildScale(series []Series, logY bool) axisScale {
	maxVal := 0.0
	minPos := math.MaxFloat64
	for _, s := range series {
		for _, p := range s.Points {
			if p.Value > maxVal {
				maxVal = p.Value
			}
			if p.Value > 0 && p.Value < minPos {
				minPos = p.Value
			}
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	if minPos == math.MaxFloat64 {
		minPos = 1
	}

	if logY {
		minExp := math.Floor(math.Log10(minPos))
		maxExp := math.Ceil(math.Log10(maxVal))
		if maxExp <= minExp {
			maxExp = minExp + 1
		}
		return axisScale{log: true, min: minExp, max: maxExp}
	}
	return axisScale{min: 0, max: niceCeil(maxVal)}
}

// niceCeil rounds up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

// frac returns the vertical fraction (0 = axis bottom, 1 = top) for v.
func (s axisScale) frac(v float64) float64 {
	if s.log {
		exp := s.min
		if v > 0 {
			exp = math.Log10(v)
		}
		f := (exp - s.min) / (s.max - s.min)
		return math.Min(math.Max(f, 0), 1)
	}
	f := v / s.max
	return math.Min(math.Max(f, 0), 1)
}

func (s axisScale) ticks() []axisTick {
	var ticks []axisTick
	if s.log {
		for exp := s.min; exp <= s.max; exp++ {
			v := math.Pow(10, exp)
			ticks = append(ticks, axisTick{Value: v, Frac: s.frac(v), Label: formatCount(v)})
		}
		return ticks
	}
	const steps = 5
	for i := 0; i <= steps; i++ {
		v := s.max * float64(i) / steps
		ticks = append(ticks, axisTick{Value: v, Frac: s.frac(v), Label: formatCount(v)})
	}
	return ticks
}

// formatCount renders an axis value compactly: 1.5M, 20k, 350, 0.25.
func formatCount(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return trimZero(fmt.Sprintf("%.1fB", v/1e9))
	case abs >= 1e6:
		return trimZero(fmt.Sprintf("%.1fM", v/1e6))
	case abs >= 1e3:
		return trimZero(fmt.Sprintf("%.1fk", v/1e3))
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return trimZero(fmt.Sprintf("%.2f", v))
	}
}

func trimZero(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		// Peel a trailing ".0" or ".00" off, keeping any unit suffix.
		unit := ""
		rest := s
		if last := s[len(s)-1]; last == 'B' || last == 'M' || last == 'k' {
			unit = s[len(s)-1:]
			rest = s[:len(s)-1]
		}
		rest = strings.TrimRight(rest, "0")
		rest = strings.TrimSuffix(rest, ".")
		return rest + unit
	}
	return s
}

// mergedLabels returns the sorted union of point labels across series;
// these become the X positions.
func mergedLabels(series []Series) []string {
	seen := make(map[string]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
