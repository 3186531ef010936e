// Package render builds HTML chart pages for word clouds and trend lines.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/chatcloud/internal/model"
	"github.com/verte-zerg/chatcloud/internal/palette"
	"github.com/verte-zerg/chatcloud/internal/rank"
)

const (
	background = "#121212"
	textColor  = "#ffffff"
	mutedColor = "#9e9e9e"
	gridColor  = "#2a2a2a"
)

// CloudOptions configures the word-cloud chart.
type CloudOptions struct {
	Title   string
	Width   string
	Height  string
	MinSize float32
	MaxSize float32
	MinRot  float32
	MaxRot  float32
}

// DefaultCloudOptions returns the layout used by the browser version of the cloud.
func DefaultCloudOptions() CloudOptions {
	return CloudOptions{
		Width:   "100%",
		Height:  "800px",
		MinSize: 14,
		MaxSize: 300,
		MinRot:  -60,
		MaxRot:  60,
	}
}

// Cloud builds a word cloud from ranked terms. Each term is drawn in the
// palette colour at its Color index.
func Cloud(terms []rank.WeightedTerm, pal palette.Palette, opt CloudOptions) (*charts.WordCloud, error) {
	data := make([]opts.WordCloudData, len(terms))
	colors := make([]string, len(terms))
	for i, term := range terms {
		data[i] = opts.WordCloudData{Name: term.Name, Value: term.Weight}
		colors[i] = pal.Color(term.Color)
	}
	colorFn, err := indexedColor(colors)
	if err != nil {
		return nil, err
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           opt.Width,
			Height:          opt.Height,
			BackgroundColor: background,
			PageTitle:       opt.Title,
		}),
		charts.WithTitleOpts(title(opt.Title, fmt.Sprintf("%d terms", len(terms)))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	wc.AddSeries("terms", data,
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			Shape:         "circle",
			SizeRange:     []float32{opt.MinSize, opt.MaxSize},
			RotationRange: []float32{opt.MinRot, opt.MaxRot},
		}),
		func(s *charts.SingleSeries) {
			s.TextStyle = &opts.TextStyle{
				FontFamily: "sans-serif",
				Normal:     &opts.TextStyle{Color: colorFn},
			}
		},
	)
	return wc, nil
}

// indexedColor returns a JS callback that colours each word by its data index.
func indexedColor(colors []string) (string, error) {
	encoded, err := json.Marshal(colors)
	if err != nil {
		return "", fmt.Errorf("failed to encode colours: %w", err)
	}
	fn := fmt.Sprintf("function (p) { var c = %s; return c[p.dataIndex] || '%s'; }", encoded, textColor)
	return string(opts.FuncOpts(fn)), nil
}

// TrendOptions configures a trend-line chart.
type TrendOptions struct {
	Title   string
	YLabel  string
	Reverse bool
}

// Trends builds a line chart with one series per name, in the given order.
// Names without a series are skipped. Colours are spread over the palette.
func Trends(dates, names []string, series map[string]model.Vector, pal palette.Palette, opt TrendOptions) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "100%",
			Height:          "500px",
			BackgroundColor: background,
			PageTitle:       opt.Title,
		}),
		charts.WithTitleOpts(title(opt.Title, "")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Type:      "scroll",
			Top:       "8%",
			Left:      "center",
			TextStyle: &opts.TextStyle{Color: mutedColor},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			AxisLabel: &opts.AxisLabel{Color: mutedColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      opt.YLabel,
			AxisLabel: &opts.AxisLabel{Color: mutedColor},
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: gridColor},
			},
		}),
	)
	line.SetXAxis(dates)

	for i, name := range names {
		values, ok := series[name]
		if !ok {
			continue
		}
		data := make([]opts.LineData, len(values))
		for j, v := range values {
			data[j] = opts.LineData{Value: v}
		}
		color := pal.Color(rank.SpreadIndex(i, len(names), len(pal), opt.Reverse))
		line.AddSeries(name, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
		)
	}
	return line
}

// Page groups charts into one HTML page.
func Page(pageTitle string, charters ...components.Charter) *components.Page {
	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	page.AddCharts(charters...)
	return page
}

// Write renders the page as HTML.
func Write(w io.Writer, page *components.Page) error {
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func title(text, subtitle string) opts.Title {
	return opts.Title{
		Title:         text,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: textColor},
		SubtitleStyle: &opts.TextStyle{Color: mutedColor},
	}
}
