package records

import (
	"context"
	"fmt"

	"schoolbell/internal/model"
)

// name, username and password are written as one range; classId sits in the
// middle of it and is rewritten with the stored value.
var studentLayout = layout{kind: KindStudent, tab: StudentsTab, first: 1, last: 4, keep: []int{studentClassCol}}

// Students stores students in the Students tab.
type Students struct {
	t *table[model.Student]
}

// List returns every student in insertion order.
func (s *Students) List(ctx context.Context) ([]model.Student, error) {
	return s.t.list(ctx)
}

// Get returns the student with the given id or ErrNotFound.
func (s *Students) Get(ctx context.Context, id string) (model.Student, error) {
	return s.t.get(ctx, id)
}

// ListByClass returns the students whose classId equals classID. The class
// itself is not looked up, so students of a deleted class are still returned.
func (s *Students) ListByClass(ctx context.Context, classID string) ([]model.Student, error) {
	all, err := s.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Student, 0)
	for _, st := range all {
		if st.ClassID == classID {
			out = append(out, st)
		}
	}
	return out, nil
}

// FindByUsername returns the first student with the given username.
func (s *Students) FindByUsername(ctx context.Context, username string) (model.Student, error) {
	all, err := s.t.list(ctx)
	if err != nil {
		return model.Student{}, err
	}
	for _, st := range all {
		if username != "" && st.Username == username {
			return st, nil
		}
	}
	return model.Student{}, fmt.Errorf("student %q: %w", username, ErrNotFound)
}

// Add appends st with a newly generated id. Usernames are not checked for
// uniqueness here.
func (s *Students) Add(ctx context.Context, st model.Student) (model.Student, error) {
	return s.t.add(ctx, st)
}

// Update rewrites name, username and password of the student with st.ID.
// st.ClassID is ignored: a student cannot move class through this path.
func (s *Students) Update(ctx context.Context, st model.Student) error {
	return s.t.update(ctx, st)
}

// Delete blanks the student row. Attendance records are left in place.
func (s *Students) Delete(ctx context.Context, id string) error {
	return s.t.remove(ctx, id)
}
