package records

import "schoolbell/internal/model"

// Codec maps one entity kind to and from a fixed-width row of cells.
// Cells are opaque strings; nothing is escaped or split.
type Codec[T any] interface {
	// Width is the number of columns of the entity's range.
	Width() int
	// Decode returns false when a required cell is blank: the row is a hole.
	Decode(row []string) (T, bool)
	// Encode returns exactly Width cells in column order.
	Encode(rec T) []string
	ID(rec T) string
	WithID(rec T, id string) T
}

// cell returns row[i], or "" when the backing store trimmed it.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

// Classes: A id, B name.
type classCodec struct{}

func (classCodec) Width() int { return 2 }

func (classCodec) Decode(row []string) (model.Class, bool) {
	c := model.Class{ID: cell(row, 0), Name: cell(row, 1)}
	return c, !anyBlank(c.ID, c.Name)
}

func (classCodec) Encode(c model.Class) []string { return []string{c.ID, c.Name} }

func (classCodec) ID(c model.Class) string { return c.ID }

func (classCodec) WithID(c model.Class, id string) model.Class {
	c.ID = id
	return c
}

// Subjects: A id, B name.
type subjectCodec struct{}

func (subjectCodec) Width() int { return 2 }

func (subjectCodec) Decode(row []string) (model.Subject, bool) {
	s := model.Subject{ID: cell(row, 0), Name: cell(row, 1)}
	return s, !anyBlank(s.ID, s.Name)
}

func (subjectCodec) Encode(s model.Subject) []string { return []string{s.ID, s.Name} }

func (subjectCodec) ID(s model.Subject) string { return s.ID }

func (subjectCodec) WithID(s model.Subject, id string) model.Subject {
	s.ID = id
	return s
}

// Students: A id, B name, C classId, D username, E password.
type studentCodec struct{}

const studentClassCol = 2

func (studentCodec) Width() int { return 5 }

func (studentCodec) Decode(row []string) (model.Student, bool) {
	s := model.Student{
		ID:       cell(row, 0),
		Name:     cell(row, 1),
		ClassID:  cell(row, studentClassCol),
		Username: cell(row, 3),
		Password: cell(row, 4),
	}
	return s, !anyBlank(s.ID, s.Name, s.ClassID)
}

func (studentCodec) Encode(s model.Student) []string {
	return []string{s.ID, s.Name, s.ClassID, s.Username, s.Password}
}

func (studentCodec) ID(s model.Student) string { return s.ID }

func (studentCodec) WithID(s model.Student, id string) model.Student {
	s.ID = id
	return s
}

// Attendance: A id, B date, C classId, D subjectId, E studentId,
// F studentName, G status, H reason, I photoRef, J location, K time.
type attendanceCodec struct{}

const attendanceStatusCol = 6

func (attendanceCodec) Width() int { return 11 }

func (attendanceCodec) Decode(row []string) (model.AttendanceRecord, bool) {
	a := model.AttendanceRecord{
		ID:          cell(row, 0),
		Date:        cell(row, 1),
		ClassID:     cell(row, 2),
		SubjectID:   cell(row, 3),
		StudentID:   cell(row, 4),
		StudentName: cell(row, 5),
		Status:      model.Status(cell(row, attendanceStatusCol)),
		Reason:      cell(row, 7),
		PhotoRef:    cell(row, 8),
		Location:    cell(row, 9),
		Time:        cell(row, 10),
	}
	return a, !anyBlank(a.ID, a.Date, a.StudentID, string(a.Status))
}

func (attendanceCodec) Encode(a model.AttendanceRecord) []string {
	return []string{
		a.ID, a.Date, a.ClassID, a.SubjectID, a.StudentID, a.StudentName,
		string(a.Status), a.Reason, a.PhotoRef, a.Location, a.Time,
	}
}

func (attendanceCodec) ID(a model.AttendanceRecord) string { return a.ID }

func (attendanceCodec) WithID(a model.AttendanceRecord, id string) model.AttendanceRecord {
	a.ID = id
	return a
}
