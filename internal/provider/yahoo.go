// Package provider implements the DataSource boundary for every
// upstream the aggregator can pull from: Yahoo Finance charts, Alpha
// Vantage FX, Google Trends, a CDS web scrape, and local CSV files.
package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// Yahoo fetches daily bars from the v8 chart API. No API key; Yahoo
// only insists on a browser-looking User-Agent.
type Yahoo struct {
	baseURL string
	client  *httputil.Client
	log     *logger.Logger
}

func NewYahoo(cfg config.YahooConfig, client *httputil.Client, log *logger.Logger) *Yahoo {
	return &Yahoo{baseURL: cfg.BaseURL, client: client, log: log}
}

// chartResponse is the subset of the v8 chart payload we read. Closes
// can be null on halted days, hence the pointer slice.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *Yahoo) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		y.baseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	resp, err := y.client.GetWithHeaders(ctx, endpoint, map[string]string{
		"User-Agent": browserUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("yahoo %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := decodeJSON(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s (%s)", symbol,
			payload.Chart.Error.Description, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	points := make([]contracts.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		p := contracts.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			p.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			p.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			p.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			p.Volume = *quote.Volume[i]
		}
		points = append(points, p)
	}

	y.log.WithFields(map[string]interface{}{
		"symbol": symbol,
		"points": len(points),
	}).Debug("Yahoo chart fetched")
	return points, nil
}
