package records

import (
	"context"
	"fmt"

	"schoolbell/internal/sheet"
)

// layout describes where an entity lives and which cells an update may touch.
type layout struct {
	kind Kind
	tab  string
	// mutable column span written by update, inclusive
	first, last int
	// columns inside the span that keep their stored value on update
	keep []int
}

// table is the record store shared by every entity kind. Reads decode the data
// range and drop holes; adds append a new row; updates and deletes locate the
// row by id and then write, with nothing guarding the gap between the two.
type table[T any] struct {
	layout
	values  sheet.Values
	codec   Codec[T]
	locator Locator
	ids     *IDGenerator
	full    sheet.Range
}

func newTable[T any](l layout, codec Codec[T], values sheet.Values, o *options) *table[T] {
	full := sheet.Columns(l.tab, 0, codec.Width()-1)
	return &table[T]{
		layout:  l,
		values:  values,
		codec:   codec,
		locator: o.locator(values, full),
		ids:     o.ids,
		full:    full,
	}
}

// data is the range below the header row.
func (t *table[T]) data() sheet.Range { return t.full.From(2) }

func (t *table[T]) list(ctx context.Context) ([]T, error) {
	rows, err := t.values.Get(ctx, t.data())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.tab, err)
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if rec, ok := t.codec.Decode(row); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (t *table[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	all, err := t.list(ctx)
	if err != nil {
		return zero, err
	}
	for _, rec := range all {
		if t.codec.ID(rec) == id {
			return rec, nil
		}
	}
	return zero, fmt.Errorf("%s %s: %w", t.kind, id, ErrNotFound)
}

func (t *table[T]) add(ctx context.Context, rec T) (T, error) {
	rec = t.codec.WithID(rec, t.ids.Next(t.kind))
	if err := t.values.Append(ctx, t.data(), t.codec.Encode(rec)); err != nil {
		var zero T
		return zero, fmt.Errorf("add %s: %w", t.kind, err)
	}
	return rec, nil
}

func (t *table[T]) update(ctx context.Context, rec T) error {
	loc, err := t.locate(ctx, t.codec.ID(rec))
	if err != nil {
		return err
	}
	return t.write(ctx, loc, t.codec.Encode(rec))
}

// modify rewrites the stored record through fn.
func (t *table[T]) modify(ctx context.Context, id string, fn func(*T)) (T, error) {
	var zero T
	loc, err := t.locate(ctx, id)
	if err != nil {
		return zero, err
	}
	rec, _ := t.codec.Decode(loc.Row)
	fn(&rec)
	rec = t.codec.WithID(rec, id)
	if err := t.write(ctx, loc, t.codec.Encode(rec)); err != nil {
		return zero, err
	}
	return rec, nil
}

func (t *table[T]) write(ctx context.Context, loc Location, row []string) error {
	for _, c := range t.keep {
		row[c] = loc.Row[c]
	}
	rng := t.full.Row(loc.SheetRow()).Span(t.first, t.last)
	if err := t.values.Update(ctx, rng, row[t.first:t.last+1]); err != nil {
		return fmt.Errorf("update %s: %w", t.kind, err)
	}
	return nil
}

// remove blanks the row so that the offsets of later rows stay valid.
func (t *table[T]) remove(ctx context.Context, id string) error {
	loc, err := t.locate(ctx, id)
	if err != nil {
		return err
	}
	if err := t.values.Clear(ctx, t.full.Row(loc.SheetRow())); err != nil {
		return fmt.Errorf("delete %s: %w", t.kind, err)
	}
	return nil
}

func (t *table[T]) locate(ctx context.Context, id string) (Location, error) {
	loc, err := t.locator.Locate(ctx, id)
	if err != nil {
		return Location{}, fmt.Errorf("locate %s: %w", t.kind, err)
	}
	if loc.Offset == 0 {
		// the header row is never a record
		return Location{}, fmt.Errorf("locate %s %s: %w", t.kind, id, ErrNotFound)
	}
	if _, ok := t.codec.Decode(loc.Row); !ok {
		// a partial row is a hole, as in list and get
		return Location{}, fmt.Errorf("locate %s %s: incomplete row: %w", t.kind, id, ErrNotFound)
	}
	return loc, nil
}
