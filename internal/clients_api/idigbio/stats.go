package idigbio

// Typed views over the three summary-stats endpoints. All of them answer
// with the same envelope:
//
//	{"dates": {"<date>": {"<recordset uuid>": {"<metric>": <count>, ...}}}}
//
// The envelope is validated strictly here so a shape change in the API
// fails the run at the fetch step, not somewhere inside rendering.

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"time"
)

const (
	searchStatsEndpoint = "/summary/stats/search"
	apiStatsEndpoint    = "/summary/stats/api/"
	useStatsEndpoint    = "/summary/stats/search/"
)

// Row is the stats of one date bucket. Metrics is empty (never nil) for
// dates the service reports without data for the recordset.
type Row struct {
	Date    time.Time
	Metrics map[string]float64
}

// Snapshot is a date-sorted table of stats for one recordset at the moment
// of the request.
type Snapshot struct {
	Recordset string
	Rows      []Row
}

// Metric returns the named metric of r, or 0 when absent.
func (r Row) Metric(name string) float64 {
	return r.Metrics[name]
}

// MetricNames returns the sorted union of metric names across all rows.
func (s *Snapshot) MetricNames() []string {
	seen := make(map[string]struct{})
	for _, row := range s.Rows {
		for name := range row.Metrics {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type statsEnvelope struct {
	Dates map[string]map[string]map[string]float64 `json:"dates"`
}

var snapshotDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z"}

func parseSnapshotDate(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range snapshotDateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseSnapshot decodes body into a Snapshot for recordset.
func parseSnapshot(endpoint, recordset string, body []byte) (*Snapshot, error) {
	var envelope statsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DataFormatError{Endpoint: endpoint, Reason: "body is not a stats object", Err: err}
	}
	if envelope.Dates == nil {
		return nil, &DataFormatError{Endpoint: endpoint, Reason: `missing "dates" field`}
	}

	snapshot := &Snapshot{Recordset: recordset, Rows: make([]Row, 0, len(envelope.Dates))}
	for dateStr, byRecordset := range envelope.Dates {
		date, err := parseSnapshotDate(dateStr)
		if err != nil {
			return nil, &DataFormatError{Endpoint: endpoint, Reason: "unparsable date key " + dateStr, Err: err}
		}
		metrics := byRecordset[recordset]
		if metrics == nil {
			metrics = map[string]float64{}
		}
		snapshot.Rows = append(snapshot.Rows, Row{Date: date, Metrics: metrics})
	}

	sort.Slice(snapshot.Rows, func(i, j int) bool {
		return snapshot.Rows[i].Date.Before(snapshot.Rows[j].Date)
	})
	return snapshot, nil
}

type searchStatsRequest struct {
	DateInterval string `json:"dateInterval"`
	MinDate      string `json:"minDate"`
	MaxDate      string `json:"maxDate,omitempty"`
	Recordset    string `json:"recordset"`
}

// FetchMonthlyUsage pulls month-by-month usage stats (search_count,
// download_count, ...) since minDate.
func (c *Client) FetchMonthlyUsage(ctx context.Context, recordset, minDate string) (*Snapshot, error) {
	body, err := c.doPOST(ctx, searchStatsEndpoint, searchStatsRequest{
		DateInterval: "month",
		MinDate:      minDate,
		Recordset:    recordset,
	})
	if err != nil {
		return nil, err
	}
	return parseSnapshot(searchStatsEndpoint, recordset, body)
}

// FetchIngestStats pulls annual ingestion stats (records, mediarecords, ...)
// between minDate and maxDate.
func (c *Client) FetchIngestStats(ctx context.Context, recordset, minDate, maxDate string) (*Snapshot, error) {
	query := url.Values{}
	query.Set("dateInterval", "year")
	query.Set("minDate", minDate)
	query.Set("maxDate", maxDate)
	query.Set("recordset", recordset)

	body, err := c.doGET(ctx, apiStatsEndpoint, query)
	if err != nil {
		return nil, err
	}
	return parseSnapshot(apiStatsEndpoint, recordset, body)
}

// FetchUseStats pulls annual usage stats (search_count, download_count,
// viewed_records, viewed_media, download, ...) between minDate and maxDate.
func (c *Client) FetchUseStats(ctx context.Context, recordset, minDate, maxDate string) (*Snapshot, error) {
	query := url.Values{}
	query.Set("dateInterval", "year")
	query.Set("minDate", minDate)
	query.Set("maxDate", maxDate)
	query.Set("recordset", recordset)

	body, err := c.doGET(ctx, useStatsEndpoint, query)
	if err != nil {
		return nil, err
	}
	return parseSnapshot(useStatsEndpoint, recordset, body)
}
