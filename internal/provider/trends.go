package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// Trends fetches Google Trends interest-over-time for a comma-separated
// keyword list and averages the keywords into one daily series. The
// protocol is the unofficial two-step explore/widgetdata exchange, with
// each payload guarded by an XSSI prefix that must be stripped.
type Trends struct {
	baseURL string
	geo     string
	lang    string
	client  *httputil.Client
	log     *logger.Logger
}

func NewTrends(cfg config.TrendsConfig, client *httputil.Client, log *logger.Logger) *Trends {
	return &Trends{
		baseURL: cfg.BaseURL,
		geo:     cfg.Geo,
		lang:    cfg.Lang,
		client:  client,
		log:     log,
	}
}

type exploreWidget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type exploreResponse struct {
	Widgets []exploreWidget `json:"widgets"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time    string    `json:"time"`
			Value   []float64 `json:"value"`
			HasData []bool    `json:"hasData"`
		} `json:"timelineData"`
	} `json:"default"`
}

func (t *Trends) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	keywords := splitKeywords(symbol)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("trends: no keywords in symbol %q", symbol)
	}

	widget, err := t.explore(ctx, keywords, start, end)
	if err != nil {
		return nil, err
	}
	return t.timeline(ctx, widget)
}

// explore registers the query and returns the timeseries widget holding
// the token required by the data endpoint.
func (t *Trends) explore(ctx context.Context, keywords []string, start, end time.Time) (*exploreWidget, error) {
	items := make([]map[string]interface{}, len(keywords))
	window := fmt.Sprintf("%s %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	for i, kw := range keywords {
		items[i] = map[string]interface{}{
			"keyword": kw,
			"geo":     t.geo,
			"time":    window,
		}
	}
	req, err := json.Marshal(map[string]interface{}{
		"comparisonItem": items,
		"category":       0,
		"property":       "",
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/trends/api/explore?hl=%s&tz=0&req=%s",
		t.baseURL, url.QueryEscape(t.lang), url.QueryEscape(string(req)))

	var payload exploreResponse
	if err := t.getGuardedJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("trends explore: %w", err)
	}

	for i := range payload.Widgets {
		if payload.Widgets[i].ID == "TIMESERIES" {
			return &payload.Widgets[i], nil
		}
	}
	return nil, fmt.Errorf("trends explore: no TIMESERIES widget in response")
}

// timeline fetches interest-over-time using the widget token and
// collapses the per-keyword values into their mean.
func (t *Trends) timeline(ctx context.Context, widget *exploreWidget) ([]contracts.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/trends/api/widgetdata/multiline?hl=%s&tz=0&req=%s&token=%s",
		t.baseURL, url.QueryEscape(t.lang),
		url.QueryEscape(string(widget.Request)), url.QueryEscape(widget.Token))

	var payload multilineResponse
	if err := t.getGuardedJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("trends widgetdata: %w", err)
	}

	points := make([]contracts.PricePoint, 0, len(payload.Default.TimelineData))
	for _, row := range payload.Default.TimelineData {
		ts, err := strconv.ParseInt(row.Time, 10, 64)
		if err != nil || len(row.Value) == 0 {
			continue
		}
		var sum float64
		n := 0
		for i, v := range row.Value {
			if i < len(row.HasData) && !row.HasData[i] {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			continue
		}
		points = append(points, contracts.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: sum / float64(n),
		})
	}

	t.log.WithField("points", len(points)).Debug("Trends timeline fetched")
	return points, nil
}

// getGuardedJSON fetches a Trends API endpoint and strips the ")]}'"
// XSSI guard before decoding.
func (t *Trends) getGuardedJSON(ctx context.Context, endpoint string, dest interface{}) error {
	resp, err := t.client.GetWithHeaders(ctx, endpoint, map[string]string{
		"User-Agent": browserUserAgent,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(stripXSSIGuard(body), dest)
}

// stripXSSIGuard removes the anti-JSON-hijacking prefix Google puts in
// front of the real payload.
func stripXSSIGuard(body []byte) []byte {
	if i := bytes.IndexAny(body, "{["); i > 0 {
		return body[i:]
	}
	return body
}

func splitKeywords(symbol string) []string {
	var keywords []string
	for _, kw := range strings.Split(symbol, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
