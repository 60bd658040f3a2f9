// Package records turns the tabs of the school spreadsheet into typed stores
// for classes, subjects, students and attendance.
//
// Every operation is one or two remote calls against sheet.Values and nothing
// more: there is no cache, no locking and no transaction across kinds.
// Concurrent writers follow last-writer-wins. Deletes blank the row instead of
// removing it, so the row numbers other callers located stay valid.
package records

import (
	"context"
	"fmt"
	"time"

	"schoolbell/internal/model"
	"schoolbell/internal/sheet"
)

// Default tab names.
const (
	ClassesTab    = "Classes"
	SubjectsTab   = "Subjects"
	StudentsTab   = "Students"
	AttendanceTab = "Attendance"
)

// Store groups the record stores of one spreadsheet.
type Store struct {
	Classes    *Classes
	Subjects   *Subjects
	Students   *Students
	Attendance *Attendance
}

type options struct {
	ids     *IDGenerator
	locator func(sheet.Values, sheet.Range) Locator
}

// Option configures New.
type Option func(*options)

// WithClock makes generated ids read now instead of time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.ids = NewIDGenerator(now) }
}

// WithLocator replaces the linear ScanLocator, e.g. with an indexed lookup.
func WithLocator(fn func(values sheet.Values, full sheet.Range) Locator) Option {
	return func(o *options) { o.locator = fn }
}

// New builds the four stores on top of values.
func New(values sheet.Values, opts ...Option) *Store {
	o := &options{
		ids: NewIDGenerator(nil),
		locator: func(v sheet.Values, full sheet.Range) Locator {
			return NewScanLocator(v, full)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Store{
		Classes:    &Classes{t: newTable[model.Class](classLayout, classCodec{}, values, o)},
		Subjects:   &Subjects{t: newTable[model.Subject](subjectLayout, subjectCodec{}, values, o)},
		Students:   &Students{t: newTable[model.Student](studentLayout, studentCodec{}, values, o)},
		Attendance: &Attendance{t: newTable[model.AttendanceRecord](attendanceLayout, attendanceCodec{}, values, o)},
	}
}

// Headers returns the header row of every tab.
func Headers() map[string][]string {
	return map[string][]string{
		ClassesTab:    {"id", "name"},
		SubjectsTab:   {"id", "name"},
		StudentsTab:   {"id", "name", "classId", "username", "password"},
		AttendanceTab: {"id", "date", "classId", "subjectId", "studentId", "studentName", "status", "reason", "photoRef", "location", "time"},
	}
}

// EnsureHeaders writes the header row of every tab whose first row is empty.
// Existing headers are left alone.
func EnsureHeaders(ctx context.Context, values sheet.Values) error {
	for tab, header := range Headers() {
		first := sheet.Columns(tab, 0, len(header)-1).Row(1)
		rows, err := values.Get(ctx, first)
		if err != nil {
			return fmt.Errorf("read header of %s: %w", tab, err)
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			continue
		}
		if err := values.Update(ctx, first, header); err != nil {
			return fmt.Errorf("write header of %s: %w", tab, err)
		}
	}
	return nil
}
