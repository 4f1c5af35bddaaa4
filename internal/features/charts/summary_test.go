package charts

import (
	"testing"
	"time"

	"github.com/shreyashinde0507/idigbio-live-charts/internal/clients_api/idigbio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func snapshotOf(rows ...idigbio.Row) *idigbio.Snapshot {
	return &idigbio.Snapshot{Recordset: "test", Rows: rows}
}

func TestMonthlySeriesBucketsByMonth(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2024-01-01"), Metrics: map[string]float64{"search_count": 10}},
		idigbio.Row{Date: day("2024-02-01"), Metrics: map[string]float64{"search_count": 15}},
	)

	series := MonthlySeries(snap, "search_count")
	require.Len(t, series, 1)
	assert.Equal(t, "search_count", series[0].Name)
	assert.Equal(t, []Point{
		{Label: "2024-01", Value: 10},
		{Label: "2024-02", Value: 15},
	}, series[0].Points)
}

func TestMonthlySeriesSumsWithinBucket(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2024-03-01"), Metrics: map[string]float64{"download_count": 4}},
		idigbio.Row{Date: day("2024-03-15"), Metrics: map[string]float64{"download_count": 6}},
		idigbio.Row{Date: day("2024-04-01"), Metrics: map[string]float64{"download_count": 1}},
	)

	series := MonthlySeries(snap, "download_count")
	require.Len(t, series, 1)
	assert.Equal(t, []Point{
		{Label: "2024-03", Value: 10},
		{Label: "2024-04", Value: 1},
	}, series[0].Points)
}

func TestMonthlySeriesMissingMetricIsZero(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2024-01-01"), Metrics: map[string]float64{"search_count": 5}},
		idigbio.Row{Date: day("2024-02-01"), Metrics: map[string]float64{}},
	)

	series := MonthlySeries(snap, "download_count")
	require.Len(t, series, 1)
	assert.Equal(t, []Point{
		{Label: "2024-01", Value: 0},
		{Label: "2024-02", Value: 0},
	}, series[0].Points)
}

func TestAnnualSeriesBucketsByYear(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2022-01-01"), Metrics: map[string]float64{"records": 100}},
		idigbio.Row{Date: day("2023-01-01"), Metrics: map[string]float64{"records": 250}},
	)

	series := AnnualSeries(snap, "records")
	require.Len(t, series, 1)
	assert.Equal(t, []Point{
		{Label: "2022", Value: 100},
		{Label: "2023", Value: 250},
	}, series[0].Points)
}

func TestMetricSeriesCoversAllMetricsSorted(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2023-01-01"), Metrics: map[string]float64{"records": 100, "mediarecords": 40}},
	)

	series := MetricSeries(snap)
	require.Len(t, series, 2)
	assert.Equal(t, "mediarecords", series[0].Name)
	assert.Equal(t, "records", series[1].Name)
}

func TestRatios(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2023-01-01"), Metrics: map[string]float64{
			"download":       50,
			"download_count": 10,
			"search_count":   100,
			"viewed_records": 400,
		}},
	)

	series := Ratios(snap)
	require.Len(t, series, 3)

	assert.Equal(t, "downloads_per_event", series[0].Name)
	assert.Equal(t, []Point{{Label: "2023", Value: 5}}, series[0].Points)

	assert.Equal(t, "downloads_per_search", series[1].Name)
	assert.Equal(t, []Point{{Label: "2023", Value: 0.5}}, series[1].Points)

	assert.Equal(t, "views_per_search", series[2].Name)
	assert.Equal(t, []Point{{Label: "2023", Value: 4}}, series[2].Points)
}

func TestRatiosZeroDivisorGuard(t *testing.T) {
	snap := snapshotOf(
		idigbio.Row{Date: day("2023-01-01"), Metrics: map[string]float64{
			"download":       50,
			"viewed_records": 20,
		}},
	)

	// All divisors are zero, so the raw numerators come through.
	series := Ratios(snap)
	assert.Equal(t, []Point{{Label: "2023", Value: 50}}, series[0].Points)
	assert.Equal(t, []Point{{Label: "2023", Value: 50}}, series[1].Points)
	assert.Equal(t, []Point{{Label: "2023", Value: 20}}, series[2].Points)
}
