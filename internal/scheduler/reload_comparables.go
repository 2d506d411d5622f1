package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/modules/comparables"
)

// Importer loads a comparables dataset from a location
type Importer interface {
	Import(ctx context.Context, location string) (*comparables.ImportRecord, error)
}

// ImportObserver records the outcome of each import
type ImportObserver interface {
	ObserveImport(err error, rows int)
}

// ReloadComparablesJob re-imports the sales dataset from its source
type ReloadComparablesJob struct {
	log      zerolog.Logger
	importer Importer
	observer ImportObserver
	source   string
	timeout  time.Duration
}

// NewReloadComparablesJob creates a job importing source on every run.
// observer may be nil.
func NewReloadComparablesJob(importer Importer, observer ImportObserver, source string) *ReloadComparablesJob {
	return &ReloadComparablesJob{
		log:      zerolog.Nop(),
		importer: importer,
		observer: observer,
		source:   source,
		timeout:  10 * time.Minute,
	}
}

// SetLogger sets the logger for the job
func (j *ReloadComparablesJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *ReloadComparablesJob) Name() string {
	return "reload_comparables"
}

// Run imports the dataset. A failed import leaves the previous dataset in place.
func (j *ReloadComparablesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	imp, err := j.importer.Import(ctx, j.source)

	rows := 0
	if imp != nil {
		rows = imp.RowsKept
	}
	if j.observer != nil {
		j.observer.ObserveImport(err, rows)
	}

	if err != nil {
		j.log.Error().Err(err).Str("source", j.source).Msg("Comparables reload failed, keeping previous dataset")
		return err
	}

	j.log.Info().
		Str("source", j.source).
		Str("import_id", imp.ID).
		Int("rows", rows).
		Msg("Comparables reloaded")
	return nil
}
