package records

import (
	"context"
	"errors"
	"fmt"

	"schoolbell/internal/sheet"
)

var (
	// ErrNotFound is returned when no row carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrRangeEmpty is returned when the tab is missing or has no rows at all.
	ErrRangeEmpty = errors.New("range not found or empty")
)

// Location is the physical address of a record at the time it was read.
// It is only valid until another writer adds or removes rows.
type Location struct {
	// Offset is zero-based within the full range; the header row is offset 0.
	Offset int
	// Row holds the cells read at that offset, padded to the range width.
	Row []string
}

// SheetRow is the one-based row number of the location.
func (l Location) SheetRow() int { return l.Offset + 1 }

// Locator finds the row of a record by id.
type Locator interface {
	Locate(ctx context.Context, id string) (Location, error)
}

// ScanLocator reads the whole range on every call and compares column A
// linearly. No index is kept between calls.
type ScanLocator struct {
	values sheet.Values
	full   sheet.Range
}

// NewScanLocator scans full, which must start at column A and include the header.
func NewScanLocator(values sheet.Values, full sheet.Range) *ScanLocator {
	return &ScanLocator{values: values, full: full}
}

// Locate implements Locator.
func (l *ScanLocator) Locate(ctx context.Context, id string) (Location, error) {
	rows, err := l.values.Get(ctx, l.full)
	if err != nil {
		return Location{}, err
	}
	if len(rows) == 0 {
		return Location{}, fmt.Errorf("%s: %w", l.full.Sheet, ErrRangeEmpty)
	}
	if id == "" {
		return Location{}, fmt.Errorf("%s: empty id: %w", l.full.Sheet, ErrNotFound)
	}
	for i, row := range rows {
		if cell(row, 0) == id {
			padded := make([]string, l.full.Width())
			copy(padded, row)
			return Location{Offset: i, Row: padded}, nil
		}
	}
	return Location{}, fmt.Errorf("%s %s: %w", l.full.Sheet, id, ErrNotFound)
}
