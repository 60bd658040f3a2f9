package sheet

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrConfiguration means the store cannot be reached because credentials or
	// the spreadsheet id are missing.
	ErrConfiguration = errors.New("sheet: configuration error")
	// ErrRemoteUnavailable wraps any network, auth or quota failure reported by the
	// backing store.
	ErrRemoteUnavailable = errors.New("sheet: remote unavailable")
)

// Values is the backing store: a remote grid of string cells addressed by
// (tab, cell range). Every call is an independent round trip. Writers are not
// coordinated, the last write to a cell wins and there is no isolation between
// a read and a subsequent write.
type Values interface {
	// Get returns the rows of the range. Trailing empty cells of a row and
	// trailing empty rows are not returned.
	Get(ctx context.Context, rng Range) ([][]string, error)
	// Append writes row after the last row of the table found in rng.
	Append(ctx context.Context, rng Range, row []string) error
	// Update overwrites the cells of rng with row.
	Update(ctx context.Context, rng Range, row []string) error
	// Clear blanks every cell of rng.
	Clear(ctx context.Context, rng Range) error
}

// Range is a rectangular block of a tab. Columns are zero-based (0 = A).
// Rows are one-based sheet row numbers; a zero FirstRow or LastRow leaves that
// side of the range open.
type Range struct {
	Sheet    string
	FirstCol int
	LastCol  int
	FirstRow int
	LastRow  int
}

// Columns returns an open range covering every row of columns first..last.
func Columns(sheet string, first, last int) Range {
	return Range{Sheet: sheet, FirstCol: first, LastCol: last}
}

// From returns a copy of r starting at sheet row n and open at the bottom.
func (r Range) From(n int) Range {
	r.FirstRow, r.LastRow = n, 0
	return r
}

// Row returns a copy of r restricted to sheet row n.
func (r Range) Row(n int) Range {
	r.FirstRow, r.LastRow = n, n
	return r
}

// Span returns a copy of r restricted to columns first..last.
func (r Range) Span(first, last int) Range {
	r.FirstCol, r.LastCol = first, last
	return r
}

// Width is the number of columns covered by r.
func (r Range) Width() int { return r.LastCol - r.FirstCol + 1 }

// A1 renders r in A1 notation, e.g. "Classes!A2:B" or "Students!B7:E7".
func (r Range) A1() string {
	start := ColumnName(r.FirstCol)
	if r.FirstRow > 0 {
		start += strconv.Itoa(r.FirstRow)
	}
	end := ColumnName(r.LastCol)
	if r.LastRow > 0 {
		end += strconv.Itoa(r.LastRow)
	}
	ref := start
	if start != end {
		ref += ":" + end
	}
	return quoteSheet(r.Sheet) + "!" + ref
}

func (r Range) String() string { return r.A1() }

// ColumnName converts a zero-based column index to its letter name (0 -> A, 26 -> AA).
func ColumnName(col int) string {
	var b []byte
	for col >= 0 {
		b = append([]byte{byte('A' + col%26)}, b...)
		col = col/26 - 1
	}
	return string(b)
}

func quoteSheet(name string) string {
	if strings.ContainsAny(name, " '!") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
