package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/booky/internal/record"
)

// Mode selects how CSV cells are written.
type Mode string

const (
	// ModeLegacy quotes every non-numeric cell and escapes nothing. Cells that
	// contain quotes or commas produce broken CSV; kept for compatibility with
	// existing exports.
	ModeLegacy Mode = "legacy"
	// ModeStrict writes RFC 4180 CSV.
	ModeStrict Mode = "strict"
)

func (m Mode) Valid() bool {
	return m == ModeLegacy || m == ModeStrict
}

// Encode renders rows in the given mode. Columns come from the scalar fields
// of the first row and are applied to every row; fields a later row lacks
// are written as null. No rows give an empty string, not a lone header.
func Encode[T any](mode Mode, rows []T) (string, error) {
	switch mode {
	case ModeLegacy, "":
		return ToCSV(rows), nil
	case ModeStrict:
		return ToStrictCSV(rows)
	}

	return "", fmt.Errorf("unknown csv mode %q", mode)
}

// ToCSV writes legacy CSV: numbers bare, everything else in double quotes,
// lines joined by \n with no trailing newline.
func ToCSV[T any](rows []T) string {
	if len(rows) == 0 {
		return ""
	}

	cols := columns(rows[0])

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(cols, ","))

	cells := make([]string, len(cols))
	for _, row := range rows {
		for i, v := range values(row, cols) {
			if record.IsNumeric(v) {
				cells[i] = record.String(v)
			} else {
				cells[i] = `"` + record.String(v) + `"`
			}
		}

		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

// ToStrictCSV writes the same table through encoding/csv.
func ToStrictCSV[T any](rows []T) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	cols := columns(rows[0])

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(cols); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	cells := make([]string, len(cols))
	for _, row := range rows {
		for i, v := range values(row, cols) {
			cells[i] = record.String(v)
		}

		if err := w.Write(cells); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}

	return buf.String(), nil
}

func columns(first any) []string {
	fields := record.Scalars(first)

	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	return cols
}

func values(row any, cols []string) []any {
	out := make([]any, len(cols))

	for i, c := range cols {
		if v, ok := record.Lookup(row, c); ok {
			out[i] = v
		}
	}

	return out
}
