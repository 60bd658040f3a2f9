package records

import (
	"context"

	"schoolbell/internal/model"
)

// status, reason, photoRef, location and time
var attendanceLayout = layout{kind: KindAttendance, tab: AttendanceTab, first: attendanceStatusCol, last: 10}

// Attendance stores attendance marks in the Attendance tab. Marks are only
// ever appended: marking the same student twice on a day keeps both rows.
type Attendance struct {
	t *table[model.AttendanceRecord]
}

// List returns every record in insertion order.
func (s *Attendance) List(ctx context.Context) ([]model.AttendanceRecord, error) {
	return s.t.list(ctx)
}

// Get returns the record with the given id or ErrNotFound.
func (s *Attendance) Get(ctx context.Context, id string) (model.AttendanceRecord, error) {
	return s.t.get(ctx, id)
}

// Mark appends rec with a newly generated id. Status and reason rules are the
// caller's business.
func (s *Attendance) Mark(ctx context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	return s.t.add(ctx, rec)
}

// Update rewrites status, reason, photo, location and time of rec.ID.
func (s *Attendance) Update(ctx context.Context, rec model.AttendanceRecord) error {
	return s.t.update(ctx, rec)
}

// SetPhoto stores ref as the photo of record id, keeping the other cells.
func (s *Attendance) SetPhoto(ctx context.Context, id, ref string) (model.AttendanceRecord, error) {
	return s.t.modify(ctx, id, func(rec *model.AttendanceRecord) { rec.PhotoRef = ref })
}

// Delete blanks the record row.
func (s *Attendance) Delete(ctx context.Context, id string) error {
	return s.t.remove(ctx, id)
}

// ListForStudentOnDate returns the records of studentID dated date.
func (s *Attendance) ListForStudentOnDate(ctx context.Context, studentID, date string) ([]model.AttendanceRecord, error) {
	all, err := s.t.list(ctx)
	if err != nil {
		return nil, err
	}
	return ForStudentOnDate(all, studentID, date), nil
}

// ListAllForStudent returns every record of studentID.
func (s *Attendance) ListAllForStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error) {
	all, err := s.t.list(ctx)
	if err != nil {
		return nil, err
	}
	return ForStudent(all, studentID), nil
}
