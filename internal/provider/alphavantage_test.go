package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/pkg/config"
)

const fxDailyBody = `{
	"Time Series FX (Daily)": {
		"2024-01-03": {"1. open": "29.80", "2. high": "29.95", "3. low": "29.70", "4. close": "29.90"},
		"2024-01-02": {"1. open": "29.50", "2. high": "29.70", "3. low": "29.40", "4. close": "29.60"},
		"2023-12-01": {"1. open": "28.90", "2. high": "29.00", "3. low": "28.80", "4. close": "28.95"}
	}
}`

func TestAlphaVantage_ParsesAndWindowsFXDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "FX_DAILY", q.Get("function"))
		assert.Equal(t, "USD", q.Get("from_symbol"))
		assert.Equal(t, "TRY", q.Get("to_symbol"))
		assert.Equal(t, "secret", q.Get("apikey"))
		w.Write([]byte(fxDailyBody))
	}))
	defer srv.Close()

	av := NewAlphaVantage(config.AlphaVantageConfig{APIKey: "secret", BaseURL: srv.URL},
		testHTTPClient(), testLog())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	points, err := av.Fetch(context.Background(), "TRY", start, end)
	require.NoError(t, err)

	// The December bar is outside the window; the rest come back sorted.
	require.Len(t, points, 2)
	assert.Equal(t, 29.60, points[0].Close)
	assert.Equal(t, 29.90, points[1].Close)
	assert.True(t, points[0].Date.Before(points[1].Date))
}

func TestAlphaVantage_MissingKey(t *testing.T) {
	av := NewAlphaVantage(config.AlphaVantageConfig{}, testHTTPClient(), testLog())
	_, err := av.Fetch(context.Background(), "TRY", time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAlphaVantage_RateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer srv.Close()

	av := NewAlphaVantage(config.AlphaVantageConfig{APIKey: "k", BaseURL: srv.URL},
		testHTTPClient(), testLog())
	_, err := av.Fetch(context.Background(), "TRY", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAlphaVantage_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer srv.Close()

	av := NewAlphaVantage(config.AlphaVantageConfig{APIKey: "k", BaseURL: srv.URL},
		testHTTPClient(), testLog())
	_, err := av.Fetch(context.Background(), "TRY", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API call")
}
