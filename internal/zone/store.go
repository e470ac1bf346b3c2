package zone

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) tx(ctx context.Context, txFunc func(*sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if err := txFunc(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("err: %w, rbErr: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (s *Store) UpsertTx(ctx context.Context, z Zone) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		return z.Upsert(ctx, tx)
	})
}

// Delete removes a zones row, if any. Used when a rebuild run
// finds no geometry for a key that an earlier run had stored.
func (s *Store) Delete(ctx context.Context, datasetID uuid.UUID, key string) error {
	query := "DELETE FROM zone_geometries WHERE dataset_id = $1 AND zone_key = $2"

	_, err := s.DB.ExecContext(ctx, query, datasetID, key)

	return err
}

func (s *Store) SelectZone(ctx context.Context, datasetID uuid.UUID, key string) (Zone, error) {
	z := Zone{DatasetID: datasetID, Key: key}
	return z, z.Select(ctx, s.DB)
}

// SelectKeys lists the rebuilt zones of a dataset without their
// geometry payloads.
func (s *Store) SelectKeys(ctx context.Context, datasetID uuid.UUID) ([]KeySummary, error) {
	query := `
		SELECT zone_key, part_count, rebuilt_at
		FROM zone_geometries
		WHERE dataset_id = $1
		ORDER BY zone_key`

	rows, err := s.DB.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []KeySummary
	for rows.Next() {
		var k KeySummary
		if err := rows.Scan(&k.Key, &k.Parts, &k.RebuiltAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// SelectAll loads every rebuilt zone of a dataset, geometry
// included.
func (s *Store) SelectAll(ctx context.Context, datasetID uuid.UUID) ([]Zone, error) {
	query := `
		SELECT zone_key, part_count, geom, rebuilt_at
		FROM zone_geometries
		WHERE dataset_id = $1
		ORDER BY zone_key`

	rows, err := s.DB.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		z := Zone{DatasetID: datasetID}
		var data []byte
		if err := rows.Scan(&z.Key, &z.Parts, &data, &z.RebuiltAt); err != nil {
			return nil, err
		}
		if err := z.decodeGeometry(data); err != nil {
			return nil, fmt.Errorf("zone %s: %w", z.Key, err)
		}
		zones = append(zones, z)
	}

	return zones, rows.Err()
}
