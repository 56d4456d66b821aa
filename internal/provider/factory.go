package provider

import (
	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
	"github.com/ozanyurt/bifx/pkg/redis"
)

// Provider names as referenced by source configurations.
const (
	NameYahoo        = "yahoo"
	NameAlphaVantage = "alphavantage"
	NameTrends       = "trends"
	NameScrape       = "scrape"
	NameCSV          = "csv"
)

// Build assembles the full provider map. Remote providers are wrapped
// in the daily Redis cache; the local CSV provider is not, so file
// edits take effect immediately.
func Build(cfg *config.Config, client *httputil.Client, cache *redis.Cache, log *logger.Logger) map[string]contracts.DataSource {
	withCache := func(name string, src contracts.DataSource) contracts.DataSource {
		if cache == nil {
			return src
		}
		return NewCached(name, src, cache, log)
	}

	return map[string]contracts.DataSource{
		NameYahoo:        withCache(NameYahoo, NewYahoo(cfg.Yahoo, client, log)),
		NameAlphaVantage: withCache(NameAlphaVantage, NewAlphaVantage(cfg.AlphaVantage, client, log)),
		NameTrends:       withCache(NameTrends, NewTrends(cfg.Trends, client, log)),
		NameScrape:       withCache(NameScrape, NewCDSScraper(cfg.CDS, client, log)),
		NameCSV:          NewCSVFile(cfg.DataDir, log),
	}
}
