package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TrendOptions controls RenderTrends.
type TrendOptions struct {
	Title      string
	Window     int
	TotalWidth int
	Height     int
	UseColor   bool
	Percent    bool
}

// RenderTrends plots the named series over the date axis.
func RenderTrends(w io.Writer, dates []string, names []string, values map[string][]float64, opt TrendOptions) error {
	series := make([]Series, 0, len(names))
	for _, name := range names {
		v, ok := values[name]
		if !ok {
			continue
		}
		series = append(series, Series{Name: name, Values: MovingAverage(v, opt.Window)})
	}
	if len(series) == 0 || len(dates) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to plot.")
		return err
	}
	width := 0
	if opt.TotalWidth > 0 {
		width = PlotWidthFor(opt.TotalWidth)
	}
	if err := PlotSeriesWithColor(w, opt.Title, series, width, opt.Height, opt.UseColor); err != nil {
		return err
	}
	unit := "count"
	if opt.Percent {
		unit = "percent"
	}
	_, err := fmt.Fprintf(w, "Dates: %s .. %s (%d, %s)\n", dates[0], dates[len(dates)-1], len(dates), unit)
	return err
}
