package charts

// Pure aggregation from a stats snapshot to chartable series. No I/O here:
// everything is deterministic given the snapshot.

import (
	"sort"

	"github.com/shreyashinde0507/idigbio-live-charts/internal/clients_api/idigbio"
)

// Point is one charted value at a date-bucket label.
type Point struct {
	Label string
	Value float64
}

// Series is a named line of points, label-sorted.
type Series struct {
	Name   string
	Points []Point
}

const (
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// bucketSeries sums metric per date bucket. Every bucket the snapshot has a
// row for appears in the result, including buckets where the metric is 0.
func bucketSeries(snapshot *idigbio.Snapshot, layout, metric string) Series {
	totals := make(map[string]float64)
	for _, row := range snapshot.Rows {
		totals[row.Date.Format(layout)] += row.Metric(metric)
	}

	labels := make([]string, 0, len(totals))
	for label := range totals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	points := make([]Point, 0, len(labels))
	for _, label := range labels {
		points = append(points, Point{Label: label, Value: totals[label]})
	}
	return Series{Name: metric, Points: points}
}

// MonthlySeries aggregates the named metrics into one series each, bucketed
// by calendar month ("2006-01" labels).
func MonthlySeries(snapshot *idigbio.Snapshot, metrics ...string) []Series {
	series := make([]Series, 0, len(metrics))
	for _, metric := range metrics {
		series = append(series, bucketSeries(snapshot, monthLayout, metric))
	}
	return series
}

// AnnualSeries aggregates the named metrics into one series each, bucketed
// by calendar year.
func AnnualSeries(snapshot *idigbio.Snapshot, metrics ...string) []Series {
	series := make([]Series, 0, len(metrics))
	for _, metric := range metrics {
		series = append(series, bucketSeries(snapshot, yearLayout, metric))
	}
	return series
}

// MetricSeries aggregates every metric present in the snapshot into its own
// annual series, metric names sorted.
func MetricSeries(snapshot *idigbio.Snapshot) []Series {
	return AnnualSeries(snapshot, snapshot.MetricNames()...)
}

// safeDiv divides with the zero-divisor guard the ratios use: a zero divisor
// counts as 1 so quiet years plot the raw numerator instead of exploding.
func safeDiv(num, div float64) float64 {
	if div == 0 {
		div = 1
	}
	return num / div
}

// Ratios derives the three usage-efficiency ratios per year:
// files per download event, files per search, and record views per search.
func Ratios(snapshot *idigbio.Snapshot) []Series {
	download := bucketSeries(snapshot, yearLayout, "download")
	downloadCount := bucketSeries(snapshot, yearLayout, "download_count")
	searchCount := bucketSeries(snapshot, yearLayout, "search_count")
	viewedRecords := bucketSeries(snapshot, yearLayout, "viewed_records")

	byLabel := func(s Series) map[string]float64 {
		m := make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			m[p.Label] = p.Value
		}
		return m
	}
	downloads := byLabel(download)
	events := byLabel(downloadCount)
	searches := byLabel(searchCount)
	views := byLabel(viewedRecords)

	ratios := []Series{
		{Name: "downloads_per_event"},
		{Name: "downloads_per_search"},
		{Name: "views_per_search"},
	}
	for _, p := range download.Points {
		label := p.Label
		ratios[0].Points = append(ratios[0].Points, Point{label, safeDiv(downloads[label], events[label])})
		ratios[1].Points = append(ratios[1].Points, Point{label, safeDiv(downloads[label], searches[label])})
		ratios[2].Points = append(ratios[2].Points, Point{label, safeDiv(views[label], searches[label])})
	}
	return ratios
}
