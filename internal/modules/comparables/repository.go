package comparables

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/database"
	"github.com/aristath/yieldwise/internal/domain"
)

// ImportRecord describes one completed dataset import
type ImportRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	RowsRead   int       `json:"rows_read"`
	RowsKept   int       `json:"rows_kept"`
	ImportedAt time.Time `json:"imported_at"`
}

// Repository stores the sales dataset in SQLite and serves it as a table.
// The loaded table is cached until the next Replace.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger

	mu         sync.RWMutex
	cached     *Table
	generation uint64 // bumped by every Replace

	loaded func() // called between reading rows and caching them; tests only
}

// NewRepository creates a repository over a migrated comparables database
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "comparables").Logger(),
	}
}

// Replace swaps the stored dataset for records in one transaction
func (r *Repository) Replace(ctx context.Context, source string, rowsRead int, records []Record) (*ImportRecord, error) {
	imp := &ImportRecord{
		ID:         uuid.New().String(),
		Source:     source,
		RowsRead:   rowsRead,
		RowsKept:   len(records),
		ImportedAt: time.Now().UTC(),
	}

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sales"); err != nil {
			return fmt.Errorf("failed to clear sales: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales (address, zip_code, price, sqft, beds, baths, year_built, lot_size, sale_date, price_per_sqft, rent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			_, err := stmt.ExecContext(ctx,
				rec.Address, rec.ZipCode, rec.Price, rec.Sqft,
				nullFloat(rec.Beds), nullFloat(rec.Baths), nullInt(rec.YearBuilt),
				nullFloat(rec.LotSize), rec.SaleDate, rec.PricePerSqft, nullFloat(rec.Rent),
			)
			if err != nil {
				return fmt.Errorf("failed to insert sale %q: %w", rec.Address, err)
			}
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO imports (id, source, rows_read, rows_kept, imported_at) VALUES (?, ?, ?, ?, ?)",
			imp.ID, imp.Source, imp.RowsRead, imp.RowsKept, imp.ImportedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cached = nil
	r.generation++
	r.mu.Unlock()

	r.log.Info().
		Str("import_id", imp.ID).
		Str("source", source).
		Int("rows_read", rowsRead).
		Int("rows_kept", len(records)).
		Msg("Comparables dataset replaced")
	return imp, nil
}

// Records reads every stored sale
func (r *Repository) Records(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT address, zip_code, price, sqft, beds, baths, year_built, lot_size, sale_date, price_per_sqft, rent
		FROM sales ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var beds, baths, lot, rent sql.NullFloat64
		var year sql.NullInt64
		if err := rows.Scan(&rec.Address, &rec.ZipCode, &rec.Price, &rec.Sqft, &beds, &baths,
			&year, &lot, &rec.SaleDate, &rec.PricePerSqft, &rent); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		rec.Beds = floatOrNaN(beds)
		rec.Baths = floatOrNaN(baths)
		rec.LotSize = floatOrNaN(lot)
		rec.Rent = floatOrNaN(rent)
		if year.Valid {
			rec.YearBuilt = int(year.Int64)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}
	return records, nil
}

// Comparables returns the stored dataset as a table.
// Returns domain.ErrNoDataset when nothing has been imported.
func (r *Repository) Comparables(ctx context.Context) (*Table, error) {
	r.mu.RLock()
	cached, generation := r.cached, r.generation
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	records, err := r.Records(ctx)
	if err != nil {
		return nil, err
	}
	if r.loaded != nil {
		r.loaded()
	}
	if len(records) == 0 {
		return nil, domain.ErrNoDataset
	}

	table := TableFromRecords(records)
	r.mu.Lock()
	// A Replace that committed while we were reading owns the cache now
	if r.generation == generation {
		r.cached = table
	}
	r.mu.Unlock()

	r.log.Debug().Int("rows", table.Len()).Msg("Loaded comparables dataset")
	return table, nil
}

// Count returns the number of stored sales
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return n, nil
}

// LastImport returns the most recent import, or nil if there was none
func (r *Repository) LastImport(ctx context.Context) (*ImportRecord, error) {
	var imp ImportRecord
	var ts int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, source, rows_read, rows_kept, imported_at FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1").
		Scan(&imp.ID, &imp.Source, &imp.RowsRead, &imp.RowsKept, &ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last import: %w", err)
	}
	imp.ImportedAt = time.Unix(ts, 0).UTC()
	return &imp, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullInt(v int) sql.NullInt64 {
	if v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
