package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"schoolbell/internal/auth"
	"schoolbell/internal/model"
	"schoolbell/internal/portal"
	"schoolbell/internal/queue"
	"schoolbell/internal/records"
	"schoolbell/internal/sheet"
	"schoolbell/internal/store"
)

type server struct {
	t      *testing.T
	router *gin.Engine
	mem    *sheet.Memory
	svc    *portal.Service
	photos *queue.InMemory
	signer *auth.Signer
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := sheet.NewMemory()
	if err := records.EnsureHeaders(context.Background(), mem); err != nil {
		t.Fatalf("EnsureHeaders() error = %v", err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("jauzatii"), bcrypt.MinCost)
	now := func() time.Time { return time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC) }
	photos := queue.NewInMemory(4)
	svc := portal.NewService(records.New(mem, records.WithClock(now)), portal.Options{
		TeacherEmail:        "teacher@school.test",
		TeacherPasswordHash: string(hash),
		Location:            time.FixedZone("WIB", 7*3600),
		Now:                 now,
		Photos:              photos,
	})
	signer := auth.NewSigner("schoolbell", "test-key", time.Hour, 24*time.Hour)
	health := store.NewHealth(time.Second)
	health.Add("sheet", store.SheetCheck(mem))

	r := gin.New()
	New(svc, signer, health).Register(r)
	return &server{t: t, router: r, mem: mem, svc: svc, photos: photos, signer: signer}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func (s *server) teacherToken() string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/v1/auth/teacher", "", gin.H{"email": "teacher@school.test", "password": "jauzatii"})
	if w.Code != http.StatusOK {
		s.t.Fatalf("teacher login status = %d, body %s", w.Code, w.Body)
	}
	return decode[auth.TokenPair](s.t, w).AccessToken
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	if w := s.do(http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
	s.mem.FailWith(errors.New("quota exceeded"))
	if w := s.do(http.MethodGet, "/healthz", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz status with failing store = %d", w.Code)
	}
}

func TestTeacherLogin(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{name: "ok", body: gin.H{"email": "teacher@school.test", "password": "jauzatii"}, want: http.StatusOK},
		{name: "wrong password", body: gin.H{"email": "teacher@school.test", "password": "x"}, want: http.StatusUnauthorized},
		{name: "not an email", body: gin.H{"email": "teacher", "password": "x"}, want: http.StatusBadRequest},
		{name: "missing password", body: gin.H{"email": "teacher@school.test"}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(http.MethodPost, "/v1/auth/teacher", "", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestClassLifecycle(t *testing.T) {
	s := newServer(t)
	tok := s.teacherToken()

	w := s.do(http.MethodPost, "/v1/classes", tok, gin.H{"name": "10-A"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}
	class := decode[model.Class](t, w)
	if !strings.HasPrefix(class.ID, "C") || class.Name != "10-A" {
		t.Errorf("created %+v", class)
	}

	w = s.do(http.MethodPost, "/v1/classes", tok, gin.H{"name": ""})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"field":"name"`) {
		t.Errorf("blank name status = %d, body %s", w.Code, w.Body)
	}

	if w := s.do(http.MethodPut, "/v1/classes/"+class.ID, tok, gin.H{"name": "10-B"}); w.Code != http.StatusNoContent {
		t.Errorf("rename status = %d", w.Code)
	}
	w = s.do(http.MethodGet, "/v1/classes/"+class.ID, tok, nil)
	if got := decode[model.Class](t, w); got.Name != "10-B" {
		t.Errorf("after rename %+v", got)
	}

	w = s.do(http.MethodPost, "/v1/students", tok, gin.H{"name": "Budi", "class_id": class.ID, "username": "budi", "password": "rahasia"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create student status = %d, body %s", w.Code, w.Body)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("student response leaks the password: %s", w.Body)
	}

	if w := s.do(http.MethodDelete, "/v1/classes/"+class.ID, tok, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/v1/classes/"+class.ID, tok, nil); w.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", w.Code)
	}
	if w := s.do(http.MethodDelete, "/v1/classes/"+class.ID, tok, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}

	// students of a deleted class stay listed under its id
	w = s.do(http.MethodGet, "/v1/classes/"+class.ID+"/students", tok, nil)
	got := decode[struct{ Students []model.Student }](t, w)
	if len(got.Students) != 1 || got.Students[0].Username != "budi" {
		t.Errorf("orphaned students = %+v", got.Students)
	}
}

func TestAuthorization(t *testing.T) {
	s := newServer(t)
	st, err := s.svc.AddStudent(context.Background(), portal.StudentInput{Name: "Budi", ClassID: "C1", Username: "budi", Password: "rahasia"})
	if err != nil {
		t.Fatalf("AddStudent() error = %v", err)
	}
	student, _ := s.signer.Issue(st.ID, auth.RoleStudent)
	teacher := s.teacherToken()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/v1/classes", want: http.StatusUnauthorized},
		{name: "student on teacher route", method: http.MethodGet, path: "/v1/dashboard", token: student.AccessToken, want: http.StatusForbidden},
		{name: "teacher on student route", method: http.MethodGet, path: "/v1/me/attendance", token: teacher, want: http.StatusForbidden},
		{name: "refresh token as access", method: http.MethodGet, path: "/v1/me", token: student.RefreshToken, want: http.StatusUnauthorized},
		{name: "student profile", method: http.MethodGet, path: "/v1/me", token: student.AccessToken, want: http.StatusOK},
		{name: "dashboard", method: http.MethodGet, path: "/v1/dashboard", token: teacher, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(tt.method, tt.path, tt.token, nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestStudentMarksAttendance(t *testing.T) {
	s := newServer(t)
	if _, err := s.svc.AddStudent(context.Background(), portal.StudentInput{Name: "Budi", ClassID: "C1", Username: "budi", Password: "rahasia"}); err != nil {
		t.Fatalf("AddStudent() error = %v", err)
	}

	if w := s.do(http.MethodPost, "/v1/auth/student", "", gin.H{"username": "budi", "password": "salah"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", w.Code)
	}
	w := s.do(http.MethodPost, "/v1/auth/student", "", gin.H{"username": "budi", "password": "rahasia"})
	if w.Code != http.StatusOK {
		t.Fatalf("student login status = %d, body %s", w.Code, w.Body)
	}
	pair := decode[auth.TokenPair](t, w)
	tok := pair.AccessToken

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{name: "unknown status", body: gin.H{"status": "bolos"}, want: http.StatusBadRequest},
		{name: "excused without reason", body: gin.H{"status": "excused"}, want: http.StatusBadRequest},
		{name: "present with photo", body: gin.H{"status": "present", "location": "-6.2, 106.8", "photo": "data:image/jpeg;base64,AAAA"}, want: http.StatusCreated},
		{name: "excused", body: gin.H{"status": "excused", "reason": "sakit"}, want: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(http.MethodPost, "/v1/me/attendance", tok, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.want, w.Body)
			}
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msgs, _ := s.photos.Consume(ctx)
	select {
	case msg := <-msgs:
		if msg.Type != portal.PhotoMessageType {
			t.Errorf("queued %q", msg.Type)
		}
	case <-ctx.Done():
		t.Error("photo not queued")
	}

	w = s.do(http.MethodGet, "/v1/me/attendance?date=2024-05-01", tok, nil)
	history := decode[struct {
		Records []model.AttendanceRecord
		Summary records.Summary
	}](t, w)
	if len(history.Records) != 2 || history.Records[0].Status != model.StatusExcused || history.Records[1].Time != "07:30:00" {
		t.Errorf("history = %+v", history.Records)
	}
	if history.Summary.Attended != 1 || history.Summary.Excused != 1 {
		t.Errorf("summary = %+v", history.Summary)
	}

	w = s.do(http.MethodPost, "/v1/auth/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	if w.Code != http.StatusOK {
		t.Errorf("refresh status = %d, body %s", w.Code, w.Body)
	}
}

func TestDeletedStudentLosesAccess(t *testing.T) {
	s := newServer(t)
	st, err := s.svc.AddStudent(context.Background(), portal.StudentInput{Name: "Budi", ClassID: "C1", Username: "budi", Password: "rahasia"})
	if err != nil {
		t.Fatalf("AddStudent() error = %v", err)
	}
	pair, _ := s.signer.Issue(st.ID, auth.RoleStudent)
	if w := s.do(http.MethodDelete, "/v1/students/"+st.ID, s.teacherToken(), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	if w := s.do(http.MethodPost, "/v1/me/attendance", pair.AccessToken, gin.H{"status": "present"}); w.Code != http.StatusUnauthorized {
		t.Errorf("mark status = %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/v1/auth/refresh", "", gin.H{"refresh_token": pair.RefreshToken}); w.Code != http.StatusUnauthorized {
		t.Errorf("refresh status = %d", w.Code)
	}
}

func TestAttendanceReport(t *testing.T) {
	s := newServer(t)
	tok := s.teacherToken()
	att := records.New(s.mem).Attendance
	for _, r := range []model.AttendanceRecord{
		{Date: "2024-04-30", ClassID: "C1", StudentID: "S1", Status: model.StatusPresent},
		{Date: "2024-05-01", ClassID: "C1", StudentID: "S1", Status: model.StatusLate},
		{Date: "2024-05-01", ClassID: "C2", StudentID: "S2", Status: model.StatusAbsent},
	} {
		if _, err := att.Mark(context.Background(), r); err != nil {
			t.Fatalf("Mark() error = %v", err)
		}
	}

	w := s.do(http.MethodGet, "/v1/attendance?from=2024-05-01&class_id=C1", tok, nil)
	report := decode[struct {
		Records []model.AttendanceRecord
		Summary records.Summary
	}](t, w)
	if len(report.Records) != 1 || report.Records[0].Status != model.StatusLate || report.Summary.Total != 1 {
		t.Errorf("report = %+v", report)
	}

	if w := s.do(http.MethodGet, "/v1/attendance?from=yesterday", tok, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", w.Code)
	}

	id := report.Records[0].ID
	if w := s.do(http.MethodPut, "/v1/attendance/"+id, tok, gin.H{"status": "excused", "reason": "dispensasi"}); w.Code != http.StatusOK {
		t.Errorf("correct status = %d, body %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodPut, "/v1/attendance/ATT404", tok, gin.H{"status": "present"}); w.Code != http.StatusNotFound {
		t.Errorf("correct unknown status = %d", w.Code)
	}
}

func TestRemoteFailure(t *testing.T) {
	s := newServer(t)
	tok := s.teacherToken()
	s.mem.FailWith(errors.New("deadline exceeded"))
	if w := s.do(http.MethodGet, "/v1/classes", tok, nil); w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
