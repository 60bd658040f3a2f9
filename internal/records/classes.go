package records

import (
	"context"

	"schoolbell/internal/model"
)

var classLayout = layout{kind: KindClass, tab: ClassesTab, first: 1, last: 1}

// Classes stores classes in the Classes tab.
type Classes struct {
	t *table[model.Class]
}

// List returns every class in insertion order.
func (s *Classes) List(ctx context.Context) ([]model.Class, error) {
	return s.t.list(ctx)
}

// Get returns the class with the given id or ErrNotFound.
func (s *Classes) Get(ctx context.Context, id string) (model.Class, error) {
	return s.t.get(ctx, id)
}

// Add appends c with a newly generated id and returns the stored class.
func (s *Classes) Add(ctx context.Context, c model.Class) (model.Class, error) {
	return s.t.add(ctx, c)
}

// Update renames the class with c.ID.
func (s *Classes) Update(ctx context.Context, c model.Class) error {
	return s.t.update(ctx, c)
}

// Delete blanks the class row. Students of the class are left in place.
func (s *Classes) Delete(ctx context.Context, id string) error {
	return s.t.remove(ctx, id)
}
