package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// ErrMissingAPIKey is returned when the Alpha Vantage source is enabled
// without credentials.
var ErrMissingAPIKey = errors.New("provider: alpha vantage API key not configured")

// AlphaVantage fetches USD/<quote> daily FX rates. The free tier allows
// 5 requests per minute, enforced with an in-process limiter on top of
// the shared HTTP client.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *httputil.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewAlphaVantage(cfg config.AlphaVantageConfig, client *httputil.Client, log *logger.Logger) *AlphaVantage {
	return &AlphaVantage{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
		log:     log,
	}
}

type fxDailyResponse struct {
	Note         string                       `json:"Note"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series FX (Daily)"`
}

// Fetch pulls the USD/symbol daily series, e.g. symbol "TRY" returns
// USD/TRY closes.
func (a *AlphaVantage) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	if a.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?function=FX_DAILY&from_symbol=USD&to_symbol=%s&outputsize=full&apikey=%s",
		a.baseURL, url.QueryEscape(symbol), url.QueryEscape(a.apiKey))

	var payload fxDailyResponse
	if err := a.client.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, err)
	}
	if payload.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage %s: %s", symbol, payload.ErrorMessage)
	}
	if payload.Note != "" {
		return nil, fmt.Errorf("alphavantage %s: rate limited: %s", symbol, payload.Note)
	}

	points := make([]contracts.PricePoint, 0, len(payload.TimeSeries))
	for rawDate, bar := range payload.TimeSeries {
		date, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		closeVal, err := strconv.ParseFloat(bar["4. close"], 64)
		if err != nil {
			continue
		}
		p := contracts.PricePoint{Date: date.UTC(), Close: closeVal}
		if v, err := strconv.ParseFloat(bar["1. open"], 64); err == nil {
			p.Open = v
		}
		if v, err := strconv.ParseFloat(bar["2. high"], 64); err == nil {
			p.High = v
		}
		if v, err := strconv.ParseFloat(bar["3. low"], 64); err == nil {
			p.Low = v
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	a.log.WithFields(map[string]interface{}{
		"symbol": symbol,
		"points": len(points),
	}).Debug("Alpha Vantage FX series fetched")
	return points, nil
}
