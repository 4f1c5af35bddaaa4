package charts

// Standalone interactive HTML artifact: an inline SVG line chart with hover
// values plus the underlying data table. Self-contained on purpose, the
// document lives in a version-controlled docs directory.

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	svgWidth      = 960.0
	svgHeight     = 540.0
	svgPlotLeft   = 90.0
	svgPlotRight  = 930.0
	svgPlotTop    = 60.0
	svgPlotBottom = 470.0
)

var svgPalette = []string{"#2ecc71", "#3498db", "#f39c12", "#e74c3c", "#9b59b6", "#1abc9c"}
var svgDashes = []string{"", "10 5", "3 5", "10 5 3 5"}

type svgDot struct {
	X, Y  float64
	Title string
}

type svgSeries struct {
	Name   string
	Color  string
	Dash   string
	Points string // polyline points attribute
	Dots   []svgDot
}

type svgTick struct {
	X, Y  float64
	Label string
}

type htmlChartData struct {
	Title      string
	Width      float64
	Height     float64
	PlotLeft   float64
	PlotRight  float64
	PlotTop    float64
	PlotBottom float64
	Series     []svgSeries
	XTicks     []svgTick
	YTicks     []svgTick
	Rows       [][]string
}

var htmlChartTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: #111; color: #eee; font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.3em; }
svg { background: #000; }
table { border-collapse: collapse; margin-top: 1.5em; font-size: 0.85em; }
th, td { border: 1px solid #444; padding: 0.3em 0.8em; text-align: right; }
th { background: #222; }
circle:hover { r: 7; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<svg viewBox="0 0 {{.Width}} {{.Height}}" width="{{.Width}}" height="{{.Height}}">
  <line x1="{{.PlotLeft}}" y1="{{.PlotBottom}}" x2="{{.PlotRight}}" y2="{{.PlotBottom}}" stroke="#ccc" stroke-width="2"/>
  <line x1="{{.PlotLeft}}" y1="{{.PlotTop}}" x2="{{.PlotLeft}}" y2="{{.PlotBottom}}" stroke="#ccc" stroke-width="2"/>
{{- range .YTicks}}
  <line x1="{{$.PlotLeft}}" y1="{{.Y}}" x2="{{$.PlotRight}}" y2="{{.Y}}" stroke="#333" stroke-dasharray="6 4"/>
  <text x="{{$.PlotLeft}}" y="{{.Y}}" dx="-8" dy="4" fill="#ccc" font-size="13" text-anchor="end">{{.Label}}</text>
{{- end}}
{{- range .XTicks}}
  <text x="{{.X}}" y="{{$.PlotBottom}}" dy="22" fill="#ccc" font-size="13" text-anchor="middle">{{.Label}}</text>
{{- end}}
{{- range .Series}}{{$s := .}}
  <polyline points="{{.Points}}" fill="none" stroke="{{.Color}}" stroke-width="2.5"{{if .Dash}} stroke-dasharray="{{.Dash}}"{{end}}/>
{{- range .Dots}}
  <circle cx="{{.X}}" cy="{{.Y}}" r="4" fill="{{$s.Color}}"><title>{{.Title}}</title></circle>
{{- end}}
{{- end}}
</svg>
<table>
<tr><th>date</th>{{range .Series}}<th>{{.Name}}</th>{{end}}</tr>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`))

// RenderHTMLChart builds the interactive HTML document for series and
// returns its bytes. Deterministic for identical input.
func RenderHTMLChart(title string, series []Series, logY bool) ([]byte, error) {
	if !hasPoints(series) {
		return nil, &RenderError{Chart: title, Reason: "no data points"}
	}

	labels := mergedLabels(series)
	scale := buildScale(series, logY)

	plotWidth := svgPlotRight - svgPlotLeft
	plotHeight := svgPlotBottom - svgPlotTop

	xFor := func(idx int) float64 {
		if len(labels) == 1 {
			return svgPlotLeft + plotWidth/2
		}
		return svgPlotLeft + (float64(idx)/float64(len(labels)-1))*plotWidth
	}
	labelIndex := make(map[string]int, len(labels))
	for i, label := range labels {
		labelIndex[label] = i
	}

	data := htmlChartData{
		Title:      title,
		Width:      svgWidth,
		Height:     svgHeight,
		PlotLeft:   svgPlotLeft,
		PlotRight:  svgPlotRight,
		PlotTop:    svgPlotTop,
		PlotBottom: svgPlotBottom,
	}

	for _, tick := range scale.ticks() {
		y := svgPlotBottom - tick.Frac*plotHeight
		data.YTicks = append(data.YTicks, svgTick{Y: round1(y), Label: tick.Label})
	}

	stride := 1
	if len(labels) > 14 {
		stride = len(labels)/14 + 1
	}
	for i, label := range labels {
		if i%stride != 0 {
			continue
		}
		data.XTicks = append(data.XTicks, svgTick{X: round1(xFor(i)), Label: label})
	}

	valueAt := make([]map[string]float64, len(series))
	for si, s := range series {
		color := svgPalette[si%len(svgPalette)]
		dash := svgDashes[si%len(svgDashes)]
		out := svgSeries{Name: s.Name, Color: color, Dash: dash}

		var points bytes.Buffer
		valueAt[si] = make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			x := round1(xFor(labelIndex[p.Label]))
			y := round1(svgPlotBottom - scale.frac(p.Value)*plotHeight)
			fmt.Fprintf(&points, "%g,%g ", x, y)
			out.Dots = append(out.Dots, svgDot{
				X:     x,
				Y:     y,
				Title: fmt.Sprintf("%s %s: %s", s.Name, p.Label, formatCount(p.Value)),
			})
			valueAt[si][p.Label] = p.Value
		}
		out.Points = points.String()
		data.Series = append(data.Series, out)
	}

	for _, label := range labels {
		row := []string{label}
		for si := range series {
			if v, ok := valueAt[si][label]; ok {
				row = append(row, formatCount(v))
			} else {
				row = append(row, "-")
			}
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := htmlChartTemplate.Execute(&buf, data); err != nil {
		return nil, &RenderError{Chart: title, Reason: err.Error()}
	}
	return buf.Bytes(), nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
