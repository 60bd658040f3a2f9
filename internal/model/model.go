package model

// Status is the attendance state of a student for one record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Attended reports whether the student was in class (present or late).
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

// Class is a group of students, e.g. "10-A".
type Class struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subject is a taught subject, e.g. "Fisika".
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Student belongs to one class and can log in to mark attendance.
type Student struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClassID  string `json:"class_id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash
}

// AttendanceRecord is a single mark made by (or for) a student.
// Date is YYYY-MM-DD and Time is HH:MM:SS, both in school local time.
type AttendanceRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	ClassID     string `json:"class_id"`
	SubjectID   string `json:"subject_id,omitempty"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      Status `json:"status"`
	Reason      string `json:"reason,omitempty"`
	PhotoRef    string `json:"photo_ref,omitempty"`
	Location    string `json:"location,omitempty"`
	Time        string `json:"time,omitempty"`
}
