package charts

// PNG line-chart renderer. Renders entirely into memory; callers decide
// where the bytes land.

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	logging "github.com/shreyashinde0507/idigbio-live-charts/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// RenderError is a chart that cannot be drawn, e.g. because the summary it
// was built from carries no points.
type RenderError struct {
	Chart  string
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %q: %s", e.Chart, e.Reason)
}

const (
	chartWidth  = 1600
	chartHeight = 900

	plotLeft   = 160.0
	plotRight  = 1520.0
	plotTop    = 140.0
	plotBottom = 760.0

	titleFontSize  = 42.0
	labelFontSize  = 26.0
	legendFontSize = 26.0

	legendX       = 180.0
	legendY       = 180.0
	legendRowStep = 40.0
	legendSwatch  = 36.0

	markerRadius = 4.0
	tickLength   = 8.0
	xLabelOffset = 40.0
)

// seriesPalette maps series index to a line color.
var seriesPalette = []color.RGBA{
	{0, 255, 0, 255},    // green
	{80, 170, 255, 255}, // blue
	{255, 180, 0, 255},  // amber
	{255, 90, 90, 255},  // red
	{200, 120, 255, 255}, // violet
	{120, 220, 220, 255}, // teal
}

// dashPatterns distinguish overlapping series the way line styles do.
var dashPatterns = [][]float64{
	nil,
	{12, 6},
	{4, 6},
	{12, 6, 4, 6},
}

var fontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
}

// loadFont tries the known system fonts; when none load, gg keeps its
// built-in bitmap face and the chart still renders.
func loadFont(dc *gg.Context, size float64) (string, bool) {
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, size); err == nil {
			return path, true
		}
	}
	return "", false
}

func hasPoints(series []Series) bool {
	for _, s := range series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// RenderLineChart draws series as a multi-line chart and returns PNG bytes.
func RenderLineChart(title string, series []Series, logY bool) ([]byte, error) {
	if !hasPoints(series) {
		return nil, &RenderError{Chart: title, Reason: "no data points"}
	}

	labels := mergedLabels(series)
	scale := buildScale(series, logY)

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(color.Black)
	dc.Clear()

	fontPath, fontLoaded := loadFont(dc, titleFontSize)
	if !fontLoaded {
		logging.LogWarn("No system font found, rendering with built-in face",
			zap.Int("paths_checked", len(fontPaths)))
	}

	dc.SetColor(color.White)
	dc.DrawString(title, plotLeft, plotTop-60)

	if fontLoaded {
		dc.LoadFontFace(fontPath, labelFontSize)
	}

	plotHeight := plotBottom - plotTop
	plotWidth := plotRight - plotLeft

	// Axes.
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.DrawLine(plotLeft, plotBottom, plotRight, plotBottom)
	dc.Stroke()
	dc.DrawLine(plotLeft, plotTop, plotLeft, plotBottom)
	dc.Stroke()

	// Horizontal grid and Y tick labels.
	for _, tick := range scale.ticks() {
		y := plotBottom - tick.Frac*plotHeight
		if y < plotTop-0.5 || y > plotBottom+0.5 {
			continue
		}
		dc.SetColor(color.RGBA{70, 70, 70, 255})
		dc.SetLineWidth(1)
		dc.SetDash(10, 5)
		dc.DrawLine(plotLeft, y, plotRight, y)
		dc.Stroke()
		dc.SetDash()

		dc.SetColor(color.White)
		dc.SetLineWidth(2)
		dc.DrawLine(plotLeft-tickLength, y, plotLeft, y)
		dc.Stroke()

		labelWidth, _ := dc.MeasureString(tick.Label)
		dc.DrawString(tick.Label, plotLeft-labelWidth-tickLength-6, y+labelFontSize/3)
	}

	// X positions per label, evenly spaced.
	xFor := func(idx int) float64 {
		if len(labels) == 1 {
			return plotLeft + plotWidth/2
		}
		return plotLeft + (float64(idx)/float64(len(labels)-1))*plotWidth
	}
	labelIndex := make(map[string]int, len(labels))
	for i, label := range labels {
		labelIndex[label] = i
	}

	// X ticks; thin them out when there are too many to stay readable.
	stride := 1
	if len(labels) > 14 {
		stride = len(labels)/14 + 1
	}
	dc.SetColor(color.White)
	for i, label := range labels {
		if i%stride != 0 {
			continue
		}
		x := xFor(i)
		dc.SetLineWidth(2)
		dc.DrawLine(x, plotBottom, x, plotBottom+tickLength)
		dc.Stroke()

		textWidth, _ := dc.MeasureString(label)
		dc.DrawString(label, x-textWidth/2, plotBottom+xLabelOffset)
	}

	// Series lines, markers, legend.
	for si, s := range series {
		lineColor := seriesPalette[si%len(seriesPalette)]
		dash := dashPatterns[si%len(dashPatterns)]

		dc.SetColor(lineColor)
		dc.SetLineWidth(3)
		if dash != nil {
			dc.SetDash(dash...)
		}
		var prevX, prevY float64
		for pi, p := range s.Points {
			x := xFor(labelIndex[p.Label])
			y := plotBottom - scale.frac(p.Value)*plotHeight
			if pi > 0 {
				dc.DrawLine(prevX, prevY, x, y)
				dc.Stroke()
			}
			prevX, prevY = x, y
		}
		dc.SetDash()

		for _, p := range s.Points {
			x := xFor(labelIndex[p.Label])
			y := plotBottom - scale.frac(p.Value)*plotHeight
			dc.DrawCircle(x, y, markerRadius)
			dc.Fill()
		}

		legendRowY := legendY + float64(si)*legendRowStep
		dc.SetLineWidth(4)
		if dash != nil {
			dc.SetDash(dash...)
		}
		dc.DrawLine(legendX, legendRowY-legendFontSize/3, legendX+legendSwatch, legendRowY-legendFontSize/3)
		dc.Stroke()
		dc.SetDash()
		dc.SetColor(color.White)
		dc.DrawString(s.Name, legendX+legendSwatch+12, legendRowY)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, &RenderError{Chart: title, Reason: err.Error()}
	}
	if buf.Len() == 0 {
		return nil, &RenderError{Chart: title, Reason: "empty image after encoding"}
	}

	logging.LogInfo("Chart rendered",
		zap.String("chart", title),
		zap.Int("bytes", buf.Len()),
		zap.Int("series", len(series)))
	return buf.Bytes(), nil
}
