package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// CSVFile reads a manually maintained series from <dataDir>/<symbol>.csv
// with a Date,Close header. It exists for series with no reliable free
// endpoint, where an analyst drops a file in place instead.
type CSVFile struct {
	dataDir string
	log     *logger.Logger
}

func NewCSVFile(dataDir string, log *logger.Logger) *CSVFile {
	return &CSVFile{dataDir: dataDir, log: log}
}

func (c *CSVFile) Fetch(_ context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	path := filepath.Join(c.dataDir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", symbol, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", symbol, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	dateCol, closeCol, err := csvColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", symbol, err)
	}

	var points []contracts.PricePoint
	for i, rec := range records[1:] {
		if len(rec) <= dateCol || len(rec) <= closeCol {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("csv %s: row %d: bad date %q", symbol, i+2, rec[dateCol])
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		closeVal, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv %s: row %d: bad close %q", symbol, i+2, rec[closeCol])
		}
		points = append(points, contracts.PricePoint{Date: date.UTC(), Close: closeVal})
	}

	c.log.WithFields(map[string]interface{}{
		"symbol": symbol,
		"points": len(points),
	}).Debug("CSV series loaded")
	return points, nil
}

func csvColumns(header []string) (dateCol, closeCol int, err error) {
	dateCol, closeCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close", "value":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return 0, 0, fmt.Errorf("header must contain Date and Close columns, got %v", header)
	}
	return dateCol, closeCol, nil
}
