package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkrassel/territory-app/internal/record"
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

// ImportTx writes the dataset row and bulk-loads its point records
// in one transaction.
func (s *Store) ImportTx(ctx context.Context, e *Entity, records []record.Coordinate) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		if err := e.Insert(ctx, tx); err != nil {
			return err
		}

		return record.CopyPoints(ctx, tx, e.ID, records)
	})
}

func (s *Store) SelectDataset(ctx context.Context, id uuid.UUID) (Entity, error) {
	e := Entity{ID: id}
	return e, e.Select(ctx, s.DB)
}
