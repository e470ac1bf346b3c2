package zone

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Error is a zone failure that maps onto an HTTP response.
type Error struct {
	error
	msg        string
	statusCode int
}

func (e *Error) ServerErrorResponse() (int, string) {
	return e.statusCode, e.msg
}

// errNoPoints reports a rebuild of a dataset with no imported
// point records.
func errNoPoints(datasetID uuid.UUID) *Error {
	return &Error{
		error:      fmt.Errorf("dataset %s has no point records", datasetID),
		msg:        fmt.Sprintf("no points found for dataset %s", datasetID),
		statusCode: http.StatusNotFound,
	}
}

// errZoneNotFound reports a lookup of a zone key the dataset never
// rebuilt.
func errZoneNotFound(datasetID uuid.UUID, key string) *Error {
	return &Error{
		error:      fmt.Errorf("zone %q not found in dataset %s", key, datasetID),
		msg:        fmt.Sprintf("zone %s not found", key),
		statusCode: http.StatusNotFound,
	}
}
