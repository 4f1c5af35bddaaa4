package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSeries = []Series{
	{Name: "search_count", Points: []Point{
		{Label: "2024-01", Value: 10},
		{Label: "2024-02", Value: 15},
		{Label: "2024-03", Value: 12},
	}},
	{Name: "download_count", Points: []Point{
		{Label: "2024-01", Value: 2},
		{Label: "2024-02", Value: 0},
		{Label: "2024-03", Value: 5},
	}},
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderLineChartProducesPNG(t *testing.T) {
	data, err := RenderLineChart("Monthly Usage", testSeries, false)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func TestRenderLineChartDeterministic(t *testing.T) {
	first, err := RenderLineChart("Monthly Usage", testSeries, false)
	require.NoError(t, err)
	second, err := RenderLineChart("Monthly Usage", testSeries, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderLineChartLogScale(t *testing.T) {
	series := []Series{{Name: "records", Points: []Point{
		{Label: "2021", Value: 100},
		{Label: "2022", Value: 100000},
		{Label: "2023", Value: 2500000},
	}}}
	data, err := RenderLineChart("Data Ingestion Metrics (annual)", series, true)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func TestRenderLineChartNoData(t *testing.T) {
	_, err := RenderLineChart("Monthly Usage", nil, false)
	require.Error(t, err)
	var re *RenderError
	assert.ErrorAs(t, err, &re)

	_, err = RenderLineChart("Monthly Usage", []Series{{Name: "empty"}}, false)
	require.Error(t, err)
	assert.ErrorAs(t, err, &re)
}

func TestRenderHTMLChartContents(t *testing.T) {
	data, err := RenderHTMLChart("Monthly Usage", testSeries, false)
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Monthly Usage</title>")
	assert.Contains(t, doc, "search_count")
	assert.Contains(t, doc, "download_count")
	assert.Contains(t, doc, "2024-01")
	assert.Contains(t, doc, "<polyline")
	assert.Contains(t, doc, "<svg")
}

func TestRenderHTMLChartDeterministic(t *testing.T) {
	first, err := RenderHTMLChart("Monthly Usage", testSeries, false)
	require.NoError(t, err)
	second, err := RenderHTMLChart("Monthly Usage", testSeries, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderHTMLChartNoData(t *testing.T) {
	_, err := RenderHTMLChart("Monthly Usage", nil, false)
	require.Error(t, err)
	var re *RenderError
	assert.ErrorAs(t, err, &re)
}

func TestScaleLinearTicks(t *testing.T) {
	s := buildScale([]Series{{Name: "a", Points: []Point{{Label: "x", Value: 83}}}}, false)
	assert.Equal(t, 100.0, s.max)
	ticks := s.ticks()
	require.Len(t, ticks, 6)
	assert.Equal(t, "0", ticks[0].Label)
	assert.Equal(t, "100", ticks[5].Label)
}

func TestScaleLogTicks(t *testing.T) {
	s := buildScale([]Series{{Name: "a", Points: []Point{
		{Label: "x", Value: 5},
		{Label: "y", Value: 50000},
	}}}, true)
	ticks := s.ticks()
	// Decades from 10^0 through 10^5.
	require.Len(t, ticks, 6)
	assert.Equal(t, "1", ticks[0].Label)
	assert.Equal(t, "100k", ticks[5].Label)
	assert.Equal(t, 0.0, ticks[0].Frac)
	assert.Equal(t, 1.0, ticks[5].Frac)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "350", formatCount(350))
	assert.Equal(t, "1.5k", formatCount(1500))
	assert.Equal(t, "20k", formatCount(20000))
	assert.Equal(t, "1.2M", formatCount(1200000))
	assert.Equal(t, "3B", formatCount(3e9))
	assert.Equal(t, "0.25", formatCount(0.25))
	assert.Equal(t, "0.5", formatCount(0.5))
}
