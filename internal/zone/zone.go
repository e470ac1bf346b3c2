package zone

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/mkrassel/territory-app/internal/rebuild"
)

// Zone is one rebuilt zone geometry, keyed by dataset and
// composite zone key. Zones whose rebuild produced no geometry
// have no row; absence is an outcome, not a stored value.
type Zone struct {
	DatasetID uuid.UUID
	Key       string
	Parts     int
	Geometry  rebuild.Geometry
	RebuiltAt time.Time
}

// GeoJSON renders the zone geometry as GeoJSON.
func (z *Zone) GeoJSON() ([]byte, error) {
	return geojson.Marshal(z.Geometry.Geom())
}

// WKT renders the zone geometry as well-known text.
func (z *Zone) WKT() (string, error) {
	return z.Geometry.WKT()
}

// WKB renders the zone geometry as well-known binary.
func (z *Zone) WKB() ([]byte, error) {
	return z.Geometry.WKB()
}

// Upsert writes the zone, replacing any previous rebuild of the
// same key. Geometry is stored as well-known binary.
func (z *Zone) Upsert(ctx context.Context, db Execer) error {
	data, err := z.Geometry.WKB()
	if err != nil {
		return fmt.Errorf("encode geometry: %w", err)
	}

	query := `
		INSERT INTO zone_geometries(dataset_id, zone_key, part_count, geom, rebuilt_at)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (dataset_id, zone_key)
		DO UPDATE SET part_count = $3, geom = $4, rebuilt_at = $5`

	_, err = db.ExecContext(ctx, query,
		z.DatasetID,
		z.Key,
		z.Parts,
		data,
		z.RebuiltAt)

	return err
}

// Select loads the zone with this DatasetID and Key.
func (z *Zone) Select(ctx context.Context, db QueryRower) error {
	query := `
		SELECT part_count, geom, rebuilt_at
		FROM zone_geometries
		WHERE dataset_id = $1 AND zone_key = $2`

	var data []byte
	err := db.QueryRowContext(ctx, query, z.DatasetID, z.Key).Scan(
		&z.Parts,
		&data,
		&z.RebuiltAt)
	if err != nil {
		return err
	}

	return z.decodeGeometry(data)
}

func (z *Zone) decodeGeometry(data []byte) error {
	t, err := wkb.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decode geometry: %w", err)
	}

	g, err := rebuild.FromGeom(t)
	if err != nil {
		return err
	}

	z.Geometry = g

	return nil
}

// KeySummary is the listing row for one rebuilt zone.
type KeySummary struct {
	Key       string
	Parts     int
	RebuiltAt time.Time
}
