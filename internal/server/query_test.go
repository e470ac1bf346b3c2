package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestParseDatasetID(t *testing.T) {
	id := uuid.New()

	got, err := ParseDatasetID(id.String())
	if err != nil {
		t.Fatalf("ParseDatasetID(%q) err = %v, want nil", id, err)
	}
	if got != id {
		t.Errorf("ParseDatasetID() = %s, want %s", got, id)
	}

	for _, bad := range []string{"", "not-a-uuid", "12345"} {
		_, err := ParseDatasetID(bad)
		if err == nil {
			t.Errorf("ParseDatasetID(%q) err = nil, want QueryParameterError", bad)
			continue
		}

		var qErr *QueryParameterError
		if !errors.As(err, &qErr) {
			t.Errorf("ParseDatasetID(%q) err = %T, want *QueryParameterError", bad, err)
			continue
		}
		if status, _ := qErr.ServerErrorResponse(); status != http.StatusBadRequest {
			t.Errorf("ParseDatasetID(%q) status = %d, want %d", bad, status, http.StatusBadRequest)
		}
	}
}

func TestParseZoneKey(t *testing.T) {
	if _, err := ParseZoneKey(""); err == nil {
		t.Error("ParseZoneKey(\"\") err = nil, want QueryParameterError")
	}

	got, err := ParseZoneKey("Z1_A")
	if err != nil {
		t.Fatalf("ParseZoneKey(\"Z1_A\") err = %v, want nil", err)
	}
	if got != "Z1_A" {
		t.Errorf("ParseZoneKey(\"Z1_A\") = %q, want unchanged key", got)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("2.5", "-3")
	if err != nil {
		t.Fatalf("ParsePoint(2.5, -3) err = %v, want nil", err)
	}
	if p.X != 2.5 || p.Y != -3 {
		t.Errorf("ParsePoint() = %v, want (2.5,-3)", p)
	}

	if _, err := ParsePoint("east", "1"); err == nil {
		t.Error("ParsePoint with bad x: err = nil, want QueryParameterError")
	}
	if _, err := ParsePoint("1", "north"); err == nil {
		t.Error("ParsePoint with bad y: err = nil, want QueryParameterError")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: FormatGeoJSON},
		{in: "geojson", want: FormatGeoJSON},
		{in: "wkt", want: FormatWKT},
		{in: "wkb", want: FormatWKB},
		{in: "kml", wantErr: true},
		{in: "GeoJSON", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
