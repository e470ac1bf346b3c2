package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mkrassel/territory-app/internal/app"
	"github.com/mkrassel/territory-app/internal/record"
)

// Service imports legacy territory tables and answers dataset
// lookups.
type Service struct {
	Store   *Store
	Logger  *log.Logger
	Metrics Metrics
}

func New(db *sql.DB, l *log.Logger, m Metrics) *Service {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	if m == nil {
		m = nopMetrics{}
	}

	return &Service{
		Store:   NewStore(db),
		Logger:  l,
		Metrics: m,
	}
}

// Import parses a CSV export of a legacy territory table and
// stores the dataset row together with its point records in one
// transaction. Parse failures surface as unprocessable entity
// responses; nothing is stored.
func (s *Service) Import(ctx context.Context, name, sourceFile string, r io.Reader) (Entity, error) {
	records, err := record.ReadTable(r)
	if err != nil {
		var headerErr *record.HeaderError
		var rowErr *record.RowError
		if errors.As(err, &headerErr) || errors.As(err, &rowErr) {
			return Entity{}, &app.ServerResponseError{
				Err:        fmt.Errorf("parse %q: %w", sourceFile, err),
				Msg:        err.Error(),
				StatusCode: http.StatusUnprocessableEntity,
			}
		}

		return Entity{}, fmt.Errorf("parse %q: %w", sourceFile, err)
	}
	if len(records) == 0 {
		return Entity{}, &app.ServerResponseError{
			Err:        fmt.Errorf("%q has no data rows", sourceFile),
			Msg:        "file has no data rows",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	e := Entity{
		ID:         uuid.New(),
		Name:       name,
		SourceFile: sourceFile,
		PointCount: len(records),
		ImportedAt: time.Now().UTC(),
	}

	if err := s.Store.ImportTx(ctx, &e, records); err != nil {
		return Entity{}, fmt.Errorf("failed to store dataset %q: %w", name, err)
	}

	s.Metrics.PointsImported(len(records))
	s.Logger.Printf("import: dataset %s (%q) stored with %d points", e.ID, e.Name, e.PointCount)

	return e, nil
}

// Get returns a dataset by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Entity, error) {
	e, err := s.Store.SelectDataset(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entity{}, &app.ServerResponseError{
				Err:        fmt.Errorf("dataset %s not in database", id),
				Msg:        fmt.Sprintf("dataset %s not found", id),
				StatusCode: http.StatusNotFound,
			}
		}

		return Entity{}, fmt.Errorf("failed to select dataset %s: %w", id, err)
	}

	return e, nil
}
