package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.NewWriter(io.Discard, "error")
}

func testHTTPClient() *httputil.Client {
	return httputil.New(testLog()).DisableRetry()
}

const yahooChartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1704182400, 1704268800, 1704355200],
			"indicators": {
				"quote": [{
					"open":   [7450.0, null, 7500.0],
					"high":   [7520.0, null, 7560.0],
					"low":    [7400.0, null, 7480.0],
					"close":  [7510.0, null, 7550.0],
					"volume": [1000, null, 1200]
				}]
			}
		}],
		"error": null
	}
}`

func TestYahoo_ParsesChartAndSkipsNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/XU100.IS")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(yahooChartBody))
	}))
	defer srv.Close()

	y := NewYahoo(config.YahooConfig{BaseURL: srv.URL}, testHTTPClient(), testLog())
	points, err := y.Fetch(context.Background(),
		"XU100.IS", time.Unix(1704000000, 0), time.Unix(1704500000, 0))
	require.NoError(t, err)

	// The null middle bar is dropped.
	require.Len(t, points, 2)
	assert.Equal(t, 7510.0, points[0].Close)
	assert.Equal(t, 7450.0, points[0].Open)
	assert.Equal(t, int64(1000), points[0].Volume)
	assert.Equal(t, 7550.0, points[1].Close)
	assert.True(t, points[0].Date.Before(points[1].Date))
}

func TestYahoo_APIErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	y := NewYahoo(config.YahooConfig{BaseURL: srv.URL}, testHTTPClient(), testLog())
	_, err := y.Fetch(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahoo_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	y := NewYahoo(config.YahooConfig{BaseURL: srv.URL}, testHTTPClient(), testLog())
	_, err := y.Fetch(context.Background(), "X", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestYahoo_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	y := NewYahoo(config.YahooConfig{BaseURL: srv.URL}, testHTTPClient(), testLog())
	points, err := y.Fetch(context.Background(), "X", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, points)
}
