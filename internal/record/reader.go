package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// The header columns a territory table must carry. Matching is
// case-insensitive and ignores column order.
var requiredColumns = []string{
	"customerid",
	"zoneid",
	"suffixid",
	"areanumber",
	"seqno",
	"x",
	"y",
}

// HeaderError reports required columns missing from an input
// tables header row.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("input table missing required columns: %s",
		strings.Join(e.Missing, ", "))
}

// RowError reports a data row whose cells could not be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadTable parses a CSV export of a legacy territory table into
// coordinate records. The first row must be a header naming at
// least the required columns; extra columns are ignored. Suffix
// cells are kept verbatim, including spreadsheet placeholders
// like "None" or "NaN" (ZoneKey interprets those as absent).
func ReadTable(r io.Reader) ([]Coordinate, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &HeaderError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, asRowError(err, "read header")
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Coordinate
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, asRowError(err, "read row")
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		records = append(records, rec)
	}

	return records, nil
}

// asRowError converts csv parse failures, which carry their own
// line numbers, into row errors so callers treat malformed rows
// the same as unparseable cells. Other read failures are wrapped
// with the given context.
func asRowError(err error, context string) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &RowError{Line: pe.Line, Err: pe.Err}
	}

	return fmt.Errorf("%s: %w", context, err)
}

// indexColumns maps each required column to its position in the
// header row.
func indexColumns(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, name := range requiredColumns {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}

	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	return cols, nil
}

func parseRow(row []string, cols map[string]int) (Coordinate, error) {
	area, err := parseIntCell(row[cols["areanumber"]])
	if err != nil {
		return Coordinate{}, fmt.Errorf("areanumber: %w", err)
	}

	seq, err := parseIntCell(row[cols["seqno"]])
	if err != nil {
		return Coordinate{}, fmt.Errorf("seqno: %w", err)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(row[cols["x"]]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("x: %w", err)
	}

	y, err := strconv.ParseFloat(strings.TrimSpace(row[cols["y"]]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("y: %w", err)
	}

	// identifier cells stay verbatim; only ZoneKey normalizes.
	return Coordinate{
		CustomerID: row[cols["customerid"]],
		ZoneID:     row[cols["zoneid"]],
		SuffixID:   row[cols["suffixid"]],
		AreaNumber: area,
		SeqNo:      seq,
		X:          x,
		Y:          y,
	}, nil
}

// parseIntCell accepts plain integers and the "3.0" form that
// spreadsheet exports write integer columns as.
func parseIntCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}

	return int(f), nil
}
