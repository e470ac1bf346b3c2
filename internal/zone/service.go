package zone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mkrassel/territory-app/internal/geometry"
	"github.com/mkrassel/territory-app/internal/pool"
	"github.com/mkrassel/territory-app/internal/rebuild"
	"github.com/mkrassel/territory-app/internal/record"
)

// Service rebuilds zone geometries from the stored point records
// and serves the results.
type Service struct {
	Assembler *rebuild.Assembler
	Records   *record.Store
	Store     *Store
	Pool      *pool.Pool
	Logger    *log.Logger
	Metrics   Metrics
}

func New(a *rebuild.Assembler, db *sql.DB, p *pool.Pool, l *log.Logger, m Metrics) *Service {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	if m == nil {
		m = nopMetrics{}
	}

	return &Service{
		Assembler: a,
		Records:   record.NewStore(db),
		Store:     NewStore(db),
		Pool:      p,
		Logger:    l,
		Metrics:   m,
	}
}

// Rebuild reconstructs the geometry of every zone in a dataset and
// stores the results. Zones are assembled concurrently. A zone that
// fails never aborts the run, it is reported in the result.
func (s *Service) Rebuild(ctx context.Context, datasetID uuid.UUID) (RebuildResult, error) {
	startedAt := time.Now().UTC()

	records, err := s.Records.SelectByDataset(ctx, datasetID)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("failed to select points for dataset %s: %w", datasetID, err)
	}
	if len(records) == 0 {
		return RebuildResult{}, errNoPoints(datasetID)
	}

	groups := record.GroupByZone(records)

	w := newWorker(s.Assembler, s.Pool, s.Store, len(groups))
	defer w.close()

	writes, absent, fails := w.RebuildEach(ctx, datasetID, groups)

	result := RebuildResult{
		DatasetID:  datasetID,
		Writes:     writes,
		Absent:     absent,
		Fails:      fails,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}

	s.observe(result)
	s.logResult(result)

	return result, nil
}

// Get returns a rebuilt zone with its geometry.
func (s *Service) Get(ctx context.Context, datasetID uuid.UUID, key string) (Zone, error) {
	z, err := s.Store.SelectZone(ctx, datasetID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Zone{}, errZoneNotFound(datasetID, key)
		}
		return Zone{}, fmt.Errorf("failed to select zone %q in dataset %s: %w", key, datasetID, err)
	}

	return z, nil
}

// Keys lists the rebuilt zones of a dataset.
func (s *Service) Keys(ctx context.Context, datasetID uuid.UUID) ([]KeySummary, error) {
	keys, err := s.Store.SelectKeys(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to select zone keys for dataset %s: %w", datasetID, err)
	}

	return keys, nil
}

// Locate returns the keys of every rebuilt zone whose geometry
// contains the point. A zone whose containment check errors is
// logged and skipped.
func (s *Service) Locate(ctx context.Context, datasetID uuid.UUID, p geometry.Point) ([]string, error) {
	zones, err := s.Store.SelectAll(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to select zones for dataset %s: %w", datasetID, err)
	}

	keys := []string{}
	for i := range zones {
		ok, err := s.Assembler.Contains(zones[i].Geometry, p.X, p.Y)
		if err != nil {
			s.Logger.Printf("Locate: zone %s: %v", zones[i].Key, err)
			continue
		}
		if ok {
			keys = append(keys, zones[i].Key)
		}
	}

	return keys, nil
}

func (s *Service) observe(r RebuildResult) {
	s.Metrics.ZoneOutcome("written", len(r.Writes))
	s.Metrics.ZoneOutcome("absent", len(r.Absent))
	s.Metrics.ZoneOutcome("failed", len(r.Fails))
	s.Metrics.RunObserved(r.Duration())
}

func (s *Service) logResult(r RebuildResult) {
	s.Logger.Printf("rebuild %s: %d zones (%d written, %d absent, %d failed) in %s",
		r.DatasetID, r.TotalZones(), len(r.Writes), len(r.Absent), len(r.Fails), r.Duration())

	for i := range r.Fails {
		s.Logger.Printf("rebuild %s: zone %s failed: %v", r.DatasetID, r.Fails[i].Key, r.Fails[i].err)
	}
}
