package record

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// CopyPoints bulk-loads records into dataset_points inside the
// callers transaction using the Postgres COPY protocol.
func CopyPoints(ctx context.Context, tx *sql.Tx, datasetID uuid.UUID, records []Coordinate) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("dataset_points",
		"dataset_id",
		"customer_id",
		"zone_id",
		"suffix_id",
		"area_number",
		"seq_no",
		"x",
		"y"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			datasetID,
			r.CustomerID,
			r.ZoneID,
			r.SuffixID,
			r.AreaNumber,
			r.SeqNo,
			r.X,
			r.Y)
		if err != nil {
			return fmt.Errorf("copy row: %w", err)
		}
	}

	// flush the copy buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush copy: %w", err)
	}

	return nil
}

// SelectByDataset loads every record of one dataset. Rows come
// back ordered by zone, area, and sequence number as a reading
// convenience; the rebuild core imposes its own order and never
// relies on this one.
func (s *Store) SelectByDataset(ctx context.Context, datasetID uuid.UUID) ([]Coordinate, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		"customer_id, zone_id, suffix_id, area_number, seq_no, x, y",
		"dataset_points",
		"dataset_id = $1",
		"zone_id, suffix_id, area_number, seq_no")

	rows, err := s.DB.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Coordinate
	for rows.Next() {
		var c Coordinate
		err := rows.Scan(
			&c.CustomerID,
			&c.ZoneID,
			&c.SuffixID,
			&c.AreaNumber,
			&c.SeqNo,
			&c.X,
			&c.Y)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}

	return records, rows.Err()
}
