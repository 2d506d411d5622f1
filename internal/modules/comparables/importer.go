package comparables

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/clients/objectstore"
)

// importAliases maps raw sales export headers to record fields
var importAliases = map[string][]string{
	"address":    {"address", "Address"},
	"zip":        {"zip_code", "zipcode", "ZipCode", "zip"},
	"price":      {"price", "Sale_price"},
	"sqft":       {"sqft", "FinishedSqft"},
	"beds":       {"beds", "Bdrms", "Bedrooms"},
	"baths":      {"baths", "Bathrooms"},
	"full_baths": {"Fbath"},
	"half_baths": {"Hbath"},
	"year_built": {"year_built", "Year_Built", "year"},
	"lot_size":   {"lot_size", "Lotsize"},
	"sale_date":  {"sale_date", "Sale_date"},
	"rent":       {"rent"},
}

var saleDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

// CleanStats counts rows read and dropped while cleaning
type CleanStats struct {
	RowsRead int `json:"rows_read"`
	RowsKept int `json:"rows_kept"`
}

// ParseSales reads a sales CSV and keeps rows with a positive price and
// size and, when the export has sale dates, a parseable sale date.
// Baths are taken from a baths column or summed from full and half bath
// counts.
func ParseSales(r io.Reader) ([]Record, CleanStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, CleanStats{}, fmt.Errorf("failed to read header: %w", err)
	}
	idx := headerIndex(header)
	if idx["price"] < 0 || idx["sqft"] < 0 {
		return nil, CleanStats{}, errors.New("sales file needs price and sqft columns")
	}

	var records []Record
	var stats CleanStats
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read row %d: %w", stats.RowsRead+2, err)
		}
		stats.RowsRead++

		rec, ok := cleanRow(row, idx)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	stats.RowsKept = len(records)
	return records, stats, nil
}

func headerIndex(header []string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	idx := make(map[string]int, len(importAliases))
	for field, aliases := range importAliases {
		idx[field] = -1
		for _, a := range aliases {
			if i, ok := pos[a]; ok {
				idx[field] = i
				break
			}
		}
	}
	return idx
}

func cleanRow(row []string, idx map[string]int) (Record, bool) {
	cell := func(field string) string {
		i := idx[field]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(field string) float64 {
		return parseNumber(cell(field))
	}

	rec := Record{
		Address: cell("address"),
		ZipCode: cell("zip"),
		Price:   num("price"),
		Sqft:    num("sqft"),
		Beds:    num("beds"),
		Baths:   num("baths"),
		LotSize: num("lot_size"),
		Rent:    num("rent"),
	}
	if !(rec.Price > 0) || !(rec.Sqft > 0) {
		return Record{}, false
	}

	if idx["sale_date"] >= 0 {
		date, ok := parseSaleDate(cell("sale_date"))
		if !ok {
			return Record{}, false
		}
		rec.SaleDate = date
	}

	if math.IsNaN(rec.Baths) && (idx["full_baths"] >= 0 || idx["half_baths"] >= 0) {
		full, half := num("full_baths"), num("half_baths")
		if math.IsNaN(full) {
			full = 0
		}
		if math.IsNaN(half) {
			half = 0
		}
		rec.Baths = full + half
	}
	if year := num("year_built"); !math.IsNaN(year) && year > 0 {
		rec.YearBuilt = int(year)
	}
	rec.PricePerSqft = rec.Price / rec.Sqft
	return rec, true
}

// parseNumber accepts plain numbers and currency-formatted values
func parseNumber(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func parseSaleDate(s string) (string, bool) {
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// ObjectOpener reads objects from remote storage
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Importer loads a sales file into the repository.
// A location is a local path or an s3://bucket/key URL.
type Importer struct {
	repo    *Repository
	objects ObjectOpener
	log     zerolog.Logger
}

// NewImporter creates an importer; objects may be nil when S3 is not configured
func NewImporter(repo *Repository, objects ObjectOpener, log zerolog.Logger) *Importer {
	return &Importer{
		repo:    repo,
		objects: objects,
		log:     log.With().Str("component", "comparables_importer").Logger(),
	}
}

// Import reads, cleans and stores the dataset at location
func (i *Importer) Import(ctx context.Context, location string) (*ImportRecord, error) {
	start := time.Now()

	rc, err := i.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, stats, err := ParseSales(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", location, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no usable rows in %s (%d read)", location, stats.RowsRead)
	}

	imp, err := i.repo.Replace(ctx, location, stats.RowsRead, records)
	if err != nil {
		return nil, fmt.Errorf("failed to store comparables: %w", err)
	}

	i.log.Info().
		Str("location", location).
		Int("rows_read", stats.RowsRead).
		Int("rows_kept", stats.RowsKept).
		Dur("duration", time.Since(start)).
		Msg("Imported comparables dataset")
	return imp, nil
}

func (i *Importer) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if objectstore.IsURL(location) {
		if i.objects == nil {
			return nil, fmt.Errorf("cannot read %s: object storage is not configured", location)
		}
		bucket, key, err := objectstore.ParseURL(location)
		if err != nil {
			return nil, err
		}
		return i.objects.Open(ctx, bucket, key)
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return f, nil
}
