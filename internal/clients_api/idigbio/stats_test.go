package idigbio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecordset = "7b0809fb-fd62-4733-8f40-74ceb04cbcac"

func newTestClient(baseURL string) *Client {
	c := NewClient(baseURL, 5*time.Second, 2)
	c.retryOpts.BaseDelay = time.Millisecond
	c.retryOpts.MaxDelay = 5 * time.Millisecond
	return c
}

func TestFetchMonthlyUsageParsesAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/summary/stats/search", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "month", body["dateInterval"])
		assert.Equal(t, "2024-01-01", body["minDate"])
		assert.Equal(t, testRecordset, body["recordset"])

		// Deliberately out of order; the client must sort by date.
		w.Write([]byte(`{"dates": {
			"2024-02-01": {"` + testRecordset + `": {"search_count": 15, "download_count": 3}},
			"2024-01-01": {"` + testRecordset + `": {"search_count": 10, "download_count": 2}}
		}}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).FetchMonthlyUsage(context.Background(), testRecordset, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)

	assert.Equal(t, "2024-01-01", snap.Rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, float64(10), snap.Rows[0].Metric("search_count"))
	assert.Equal(t, "2024-02-01", snap.Rows[1].Date.Format("2006-01-02"))
	assert.Equal(t, float64(15), snap.Rows[1].Metric("search_count"))
	assert.Equal(t, []string{"download_count", "search_count"}, snap.MetricNames())
}

func TestFetchUseStatsQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/summary/stats/search/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "year", q.Get("dateInterval"))
		assert.Equal(t, "2015-01-16", q.Get("minDate"))
		assert.Equal(t, "2024-06-01", q.Get("maxDate"))
		assert.Equal(t, testRecordset, q.Get("recordset"))

		w.Write([]byte(`{"dates": {"2023-01-01": {"` + testRecordset + `": {"download": 7}}}}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).FetchUseStats(context.Background(), testRecordset, "2015-01-16", "2024-06-01")
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, float64(7), snap.Rows[0].Metric("download"))
}

func TestFetchSparseDateHasEmptyMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dates": {"2023-01-01": {}}}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).FetchIngestStats(context.Background(), testRecordset, "2015-01-16", "2024-06-01")
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.NotNil(t, snap.Rows[0].Metrics)
	assert.Empty(t, snap.Rows[0].Metrics)
}

func TestFetchNotFoundIsRemoteFetchError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such recordset", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchMonthlyUsage(context.Background(), testRecordset, "2024-01-01")
	require.Error(t, err)

	var fe *RemoteFetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.StatusCode)
	// 404 is not a transient failure, so no retries.
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"dates": {}}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).FetchMonthlyUsage(context.Background(), testRecordset, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchMalformedBodyIsDataFormatError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `this is not json`},
		{"missing dates", `{"counts": {}}`},
		{"null dates", `{"dates": null}`},
		{"bad date key", `{"dates": {"yesterday": {}}}`},
		{"wrong value type", `{"dates": {"2024-01-01": {"` + testRecordset + `": {"search_count": "ten"}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).FetchMonthlyUsage(context.Background(), testRecordset, "2024-01-01")
			require.Error(t, err)

			var de *DataFormatError
			assert.ErrorAs(t, err, &de)
		})
	}
}
