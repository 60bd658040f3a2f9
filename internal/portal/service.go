package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"schoolbell/internal/model"
	"schoolbell/internal/queue"
	"schoolbell/internal/records"
)

// Options configures a Service.
type Options struct {
	// TeacherEmail and TeacherPasswordHash (bcrypt) identify the single teacher account.
	TeacherEmail        string
	TeacherPasswordHash string
	// Location is the school time zone used to stamp attendance dates.
	Location *time.Location
	Now      func() time.Time
	// Photos receives photo upload jobs; nil drops submitted photos.
	Photos queue.Queue
}

// Service applies the rules the record stores leave to their caller: input
// validation, password hashing, the reason requirement for excused marks and
// login checks.
type Service struct {
	store  *records.Store
	opts   Options
	bcrypt int
}

// NewService creates a service on top of store.
func NewService(store *records.Store, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, opts: opts, bcrypt: bcrypt.DefaultCost}
}

func (s *Service) now() time.Time { return s.opts.Now().In(s.opts.Location) }

// Today is the current school date, YYYY-MM-DD.
func (s *Service) Today() string { return s.now().Format(records.DateLayout) }

// ---------- Logins ----------

// TeacherLogin checks the configured teacher account.
func (s *Service) TeacherLogin(email, password string) error {
	if s.opts.TeacherEmail == "" || s.opts.TeacherPasswordHash == "" {
		return ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.opts.TeacherEmail) {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.opts.TeacherPasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// StudentLogin finds the student by username and checks the password hash.
func (s *Service) StudentLogin(ctx context.Context, username, password string) (model.Student, error) {
	st, err := s.store.Students.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, records.ErrNotFound) {
		return model.Student{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Student{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(st.Password), []byte(password)) != nil {
		return model.Student{}, ErrInvalidCredentials
	}
	return st, nil
}

// ---------- Classes & subjects ----------

func (s *Service) Classes(ctx context.Context) ([]model.Class, error) {
	return s.store.Classes.List(ctx)
}

func (s *Service) Class(ctx context.Context, id string) (model.Class, error) {
	return s.store.Classes.Get(ctx, id)
}

func (s *Service) AddClass(ctx context.Context, name string) (model.Class, error) {
	var v validator
	v.required("name", name)
	if err := v.err(); err != nil {
		return model.Class{}, err
	}
	return s.store.Classes.Add(ctx, model.Class{Name: strings.TrimSpace(name)})
}

func (s *Service) RenameClass(ctx context.Context, id, name string) error {
	var v validator
	v.required("name", name)
	if err := v.err(); err != nil {
		return err
	}
	return s.store.Classes.Update(ctx, model.Class{ID: id, Name: strings.TrimSpace(name)})
}

// DeleteClass removes the class only; its students stay and keep the old classId.
func (s *Service) DeleteClass(ctx context.Context, id string) error {
	return s.store.Classes.Delete(ctx, id)
}

func (s *Service) Subjects(ctx context.Context) ([]model.Subject, error) {
	return s.store.Subjects.List(ctx)
}

func (s *Service) AddSubject(ctx context.Context, name string) (model.Subject, error) {
	var v validator
	v.required("name", name)
	if err := v.err(); err != nil {
		return model.Subject{}, err
	}
	return s.store.Subjects.Add(ctx, model.Subject{Name: strings.TrimSpace(name)})
}

func (s *Service) RenameSubject(ctx context.Context, id, name string) error {
	var v validator
	v.required("name", name)
	if err := v.err(); err != nil {
		return err
	}
	return s.store.Subjects.Update(ctx, model.Subject{ID: id, Name: strings.TrimSpace(name)})
}

func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	return s.store.Subjects.Delete(ctx, id)
}

// ---------- Students ----------

// StudentInput is the editable part of a student. An empty Password on update
// keeps the current one.
type StudentInput struct {
	Name     string
	ClassID  string
	Username string
	Password string
}

// Student returns the student with the given id.
func (s *Service) Student(ctx context.Context, id string) (model.Student, error) {
	return s.store.Students.Get(ctx, id)
}

func (s *Service) StudentsByClass(ctx context.Context, classID string) ([]model.Student, error) {
	return s.store.Students.ListByClass(ctx, classID)
}

// AddStudent validates in, hashes the password and stores the student.
// Usernames must be unique because they are the login key.
func (s *Service) AddStudent(ctx context.Context, in StudentInput) (model.Student, error) {
	var v validator
	v.required("name", in.Name)
	v.required("class_id", in.ClassID)
	v.required("username", in.Username)
	v.required("password", in.Password)
	if err := v.err(); err != nil {
		return model.Student{}, err
	}
	if err := s.usernameFree(ctx, in.Username, ""); err != nil {
		return model.Student{}, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return model.Student{}, err
	}
	return s.store.Students.Add(ctx, model.Student{
		Name:     strings.TrimSpace(in.Name),
		ClassID:  in.ClassID,
		Username: strings.TrimSpace(in.Username),
		Password: hash,
	})
}

// UpdateStudent rewrites name, username and password. The class cannot change.
func (s *Service) UpdateStudent(ctx context.Context, id string, in StudentInput) (model.Student, error) {
	var v validator
	v.required("name", in.Name)
	v.required("username", in.Username)
	if err := v.err(); err != nil {
		return model.Student{}, err
	}
	current, err := s.store.Students.Get(ctx, id)
	if err != nil {
		return model.Student{}, err
	}
	if err := s.usernameFree(ctx, in.Username, id); err != nil {
		return model.Student{}, err
	}
	updated := current
	updated.Name = strings.TrimSpace(in.Name)
	updated.Username = strings.TrimSpace(in.Username)
	if in.Password != "" {
		if updated.Password, err = s.hash(in.Password); err != nil {
			return model.Student{}, err
		}
	}
	if err := s.store.Students.Update(ctx, updated); err != nil {
		return model.Student{}, err
	}
	return updated, nil
}

func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.store.Students.Delete(ctx, id)
}

func (s *Service) usernameFree(ctx context.Context, username, selfID string) error {
	other, err := s.store.Students.FindByUsername(ctx, strings.TrimSpace(username))
	switch {
	case errors.Is(err, records.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != selfID:
		return &ValidationError{Fields: []FieldError{{Field: "username", Error: "is already taken"}}}
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcrypt)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// ---------- Attendance ----------

// MarkInput is what a student submits.
type MarkInput struct {
	Status    model.Status
	Reason    string
	SubjectID string
	// Location is "lat, lng" as reported by the device.
	Location string
	// Photo is an optional data URL; it is uploaded after the mark is stored.
	Photo string
}

// MarkAttendance appends a mark for st stamped with the current school date
// and time. A second mark on the same day is a new record, not an overwrite.
func (s *Service) MarkAttendance(ctx context.Context, st model.Student, in MarkInput) (model.AttendanceRecord, error) {
	if err := checkStatus(in.Status, in.Reason); err != nil {
		return model.AttendanceRecord{}, err
	}

	now := s.now()
	rec := model.AttendanceRecord{
		Date:        now.Format(records.DateLayout),
		Time:        now.Format("15:04:05"),
		ClassID:     st.ClassID,
		SubjectID:   in.SubjectID,
		StudentID:   st.ID,
		StudentName: st.Name,
		Status:      in.Status,
		Location:    strings.TrimSpace(in.Location),
	}
	if in.Status == model.StatusExcused {
		rec.Reason = strings.TrimSpace(in.Reason)
	}
	rec, err := s.store.Attendance.Mark(ctx, rec)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	if in.Photo != "" && s.opts.Photos != nil {
		if err := s.enqueuePhoto(ctx, rec.ID, in.Photo); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// CorrectAttendance lets the teacher change the status and reason of a mark.
// Date, time, location and photo stay as recorded.
func (s *Service) CorrectAttendance(ctx context.Context, id string, status model.Status, reason string) (model.AttendanceRecord, error) {
	if err := checkStatus(status, reason); err != nil {
		return model.AttendanceRecord{}, err
	}
	rec, err := s.store.Attendance.Get(ctx, id)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	rec.Status = status
	rec.Reason = ""
	if status == model.StatusExcused {
		rec.Reason = strings.TrimSpace(reason)
	}
	if err := s.store.Attendance.Update(ctx, rec); err != nil {
		return model.AttendanceRecord{}, err
	}
	return rec, nil
}

func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	return s.store.Attendance.Delete(ctx, id)
}

func checkStatus(status model.Status, reason string) error {
	var v validator
	if !status.Valid() {
		v.add("status", "must be one of present, absent, late, excused")
	}
	if status == model.StatusExcused {
		v.required("reason", reason)
	}
	return v.err()
}

// StudentHistory returns the marks of studentID, newest first, optionally only
// those dated date.
func (s *Service) StudentHistory(ctx context.Context, studentID, date string) ([]model.AttendanceRecord, error) {
	var (
		recs []model.AttendanceRecord
		err  error
	)
	if date != "" {
		recs, err = s.store.Attendance.ListForStudentOnDate(ctx, studentID, date)
	} else {
		recs, err = s.store.Attendance.ListAllForStudent(ctx, studentID)
	}
	if err != nil {
		return nil, err
	}
	reverse(recs)
	return recs, nil
}

// ReportFilter narrows the attendance report. Empty fields do not filter.
type ReportFilter struct {
	From      string
	To        string
	ClassID   string
	StudentID string
}

// Report returns the attendance records matching f in storage order.
func (s *Service) Report(ctx context.Context, f ReportFilter) ([]model.AttendanceRecord, error) {
	var v validator
	for _, d := range []struct{ field, value string }{{"from", f.From}, {"to", f.To}} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(records.DateLayout, d.value); err != nil {
			v.add(d.field, "must be a date formatted YYYY-MM-DD")
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	all, err := s.store.Attendance.List(ctx)
	if err != nil {
		return nil, err
	}
	out := records.Between(all, f.From, f.To)
	if f.ClassID != "" {
		out = records.ForClass(out, f.ClassID)
	}
	if f.StudentID != "" {
		out = records.ForStudent(out, f.StudentID)
	}
	return out, nil
}

// Dashboard is the teacher's overview.
type Dashboard struct {
	Date     string          `json:"date"`
	Classes  int             `json:"classes"`
	Overall  records.Summary `json:"overall"`
	Today    records.Summary `json:"today"`
	LastWeek []records.Day   `json:"last_week"`
}

// Dashboard summarises all attendance, today's attendance and the last seven days.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	classes, err := s.store.Classes.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	all, err := s.store.Attendance.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	today := now.Format(records.DateLayout)
	return Dashboard{
		Date:     today,
		Classes:  len(classes),
		Overall:  records.Summarize(all),
		Today:    records.Summarize(records.OnDate(all, today)),
		LastWeek: records.Daily(all, now, 7),
	}, nil
}

func reverse(recs []model.AttendanceRecord) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
}
