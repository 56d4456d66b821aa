package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// ErrScrapeURLNotSet is returned when the CDS source is enabled but no
// page URL is configured.
var ErrScrapeURLNotSet = errors.New("provider: CDS_URL not configured")

// CDSScraper extracts the sovereign CDS spread history from an HTML
// page carrying a two-column date/spread table. There is no free CDS
// API, so the page URL is environment-supplied and the parser stays
// deliberately tolerant about table markup.
type CDSScraper struct {
	pageURL string
	client  *httputil.Client
	log     *logger.Logger
}

func NewCDSScraper(cfg config.CDSConfig, client *httputil.Client, log *logger.Logger) *CDSScraper {
	return &CDSScraper{pageURL: cfg.URL, client: client, log: log}
}

func (s *CDSScraper) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	if s.pageURL == "" {
		return nil, ErrScrapeURLNotSet
	}

	resp, err := s.client.GetWithHeaders(ctx, s.pageURL, map[string]string{
		"User-Agent": browserUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("cds scrape %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cds scrape %s: unexpected status %d", symbol, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cds scrape %s: parse HTML: %w", symbol, err)
	}

	points := parseSpreadTable(doc, start, end)
	if len(points) == 0 {
		return nil, fmt.Errorf("cds scrape %s: no date/spread rows found", symbol)
	}

	s.log.WithFields(map[string]interface{}{
		"symbol": symbol,
		"points": len(points),
	}).Debug("CDS spread table scraped")
	return points, nil
}

// parseSpreadTable walks every table row and keeps rows whose first
// cell parses as a date and whose second cell parses as a number.
func parseSpreadTable(doc *goquery.Document, start, end time.Time) []contracts.PricePoint {
	var points []contracts.PricePoint
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		date, ok := parseTableDate(strings.TrimSpace(cells.Eq(0).Text()))
		if !ok || date.Before(start) || date.After(end) {
			return
		}
		spread, err := parseTableNumber(strings.TrimSpace(cells.Eq(1).Text()))
		if err != nil {
			return
		}
		points = append(points, contracts.PricePoint{Date: date, Close: spread})
	})
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

var tableDateLayouts = []string{"2006-01-02", "02.01.2006", "01/02/2006", "Jan 2, 2006"}

func parseTableDate(raw string) (time.Time, bool) {
	for _, layout := range tableDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseTableNumber accepts both 1,234.56 and European 1.234,56 forms.
func parseTableNumber(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, " ", "")
	if strings.Contains(raw, ",") && strings.Contains(raw, ".") {
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	} else if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return strconv.ParseFloat(raw, 64)
}
