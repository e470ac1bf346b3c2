package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/mkrassel/territory-app/internal/geometry"
)

// Geometry output formats accepted by the format query parameter.
const (
	FormatGeoJSON = "geojson"
	FormatWKT     = "wkt"
	FormatWKB     = "wkb"
)

type QueryParameterError struct {
	Msg string
	error
}

func (p *QueryParameterError) ServerErrorResponse() (int, string) {
	return http.StatusBadRequest, p.Msg
}

// ParseDatasetID parses a dataset id taken from a query parameter
// or URL path segment.
//
// If parsing fails an error is returned as a QueryParameterError.
func ParseDatasetID(idStr string) (uuid.UUID, error) {
	if idStr == "" {
		return uuid.Nil, &QueryParameterError{
			Msg:   "Missing dataset_id",
			error: fmt.Errorf("empty dataset_id parameter"),
		}
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, &QueryParameterError{
			Msg:   "Invalid dataset_id",
			error: fmt.Errorf("failed to parse dataset_id: %w", err),
		}
	}

	return id, nil
}

// ParseZoneKey requires a non-empty key query parameter.
func ParseZoneKey(key string) (string, error) {
	if key == "" {
		return "", &QueryParameterError{
			Msg:   "Missing key",
			error: fmt.Errorf("empty key parameter"),
		}
	}

	return key, nil
}

// ParsePoint takes planar coordinates as strings (xStr, yStr) and
// returns them as a geometry.Point.
//
// If parsing fails an error is returned as a QueryParameterError.
func ParsePoint(xStr string, yStr string) (geometry.Point, error) {
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		qErr := &QueryParameterError{
			Msg:   "Invalid x",
			error: fmt.Errorf("failed to parse x: %w", err),
		}
		return geometry.Point{}, qErr
	}

	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		qErr := &QueryParameterError{
			Msg:   "Invalid y",
			error: fmt.Errorf("failed to parse y: %w", err)}
		return geometry.Point{}, qErr
	}

	return geometry.NewPoint(x, y), nil
}

// ParseFormat interprets the format query parameter. An empty
// value defaults to GeoJSON.
func ParseFormat(format string) (string, error) {
	switch format {
	case "":
		return FormatGeoJSON, nil
	case FormatGeoJSON, FormatWKT, FormatWKB:
		return format, nil
	}

	return "", &QueryParameterError{
		Msg:   fmt.Sprintf("Invalid format %q, want %q, %q or %q", format, FormatGeoJSON, FormatWKT, FormatWKB),
		error: fmt.Errorf("unsupported format %q", format),
	}
}
