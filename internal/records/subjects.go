package records

import (
	"context"

	"schoolbell/internal/model"
)

var subjectLayout = layout{kind: KindSubject, tab: SubjectsTab, first: 1, last: 1}

// Subjects stores subjects in the Subjects tab.
type Subjects struct {
	t *table[model.Subject]
}

func (s *Subjects) List(ctx context.Context) ([]model.Subject, error) {
	return s.t.list(ctx)
}

func (s *Subjects) Get(ctx context.Context, id string) (model.Subject, error) {
	return s.t.get(ctx, id)
}

func (s *Subjects) Add(ctx context.Context, sub model.Subject) (model.Subject, error) {
	return s.t.add(ctx, sub)
}

func (s *Subjects) Update(ctx context.Context, sub model.Subject) error {
	return s.t.update(ctx, sub)
}

func (s *Subjects) Delete(ctx context.Context, id string) error {
	return s.t.remove(ctx, id)
}
