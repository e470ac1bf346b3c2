package dataset

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entity is one imported dataset. The point records themselves
// live in dataset_points, keyed by the dataset id.
type Entity struct {
	ID         uuid.UUID
	Name       string
	SourceFile string
	PointCount int
	ImportedAt time.Time
}

func (e *Entity) Insert(ctx context.Context, db Execer) error {
	query := `
		INSERT INTO datasets(id, name, source_file, point_count, imported_at)
		VALUES($1, $2, $3, $4, $5)`

	_, err := db.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.SourceFile,
		e.PointCount,
		e.ImportedAt)

	return err
}

func (e *Entity) Select(ctx context.Context, db QueryRower) error {
	query := `
		SELECT name, source_file, point_count, imported_at
		FROM datasets
		WHERE id = $1`

	return db.QueryRowContext(ctx, query, e.ID).Scan(
		&e.Name,
		&e.SourceFile,
		&e.PointCount,
		&e.ImportedAt)
}
