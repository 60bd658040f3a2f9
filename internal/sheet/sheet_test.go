package sheet

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRangeA1(t *testing.T) {
	classes := Columns("Classes", 0, 1)
	tests := []struct {
		name string
		rng  Range
		want string
	}{
		{name: "full columns", rng: classes, want: "Classes!A:B"},
		{name: "data range", rng: classes.From(2), want: "Classes!A2:B"},
		{name: "single row", rng: classes.Row(5), want: "Classes!A5:B5"},
		{name: "single cell", rng: classes.Row(5).Span(1, 1), want: "Classes!B5"},
		{name: "span", rng: Columns("Students", 0, 4).Row(7).Span(1, 4), want: "Students!B7:E7"},
		{name: "quoted tab", rng: Columns("Absensi Harian", 0, 10).From(2), want: "'Absensi Harian'!A2:K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.A1(); got != tt.want {
				t.Errorf("A1() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{0: "A", 1: "B", 10: "K", 25: "Z", 26: "AA", 27: "AB", 701: "ZZ", 702: "AAA"}
	for col, want := range tests {
		if got := ColumnName(col); got != want {
			t.Errorf("ColumnName(%d) = %q, want %q", col, got, want)
		}
	}
}

func TestMemoryAppendGetClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed("Classes", []string{"id", "name"})
	data := Columns("Classes", 0, 1).From(2)

	for _, r := range [][]string{{"C1", "10-A"}, {"C2", "10-B"}, {"C3", "11-A"}} {
		if err := m.Append(ctx, data, r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := m.Clear(ctx, Columns("Classes", 0, 1).Row(3)); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := m.Get(ctx, data)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := [][]string{{"C1", "10-A"}, {}, {"C3", "11-A"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}

	// a hole in the middle does not attract the next append
	if err := m.Append(ctx, data, []string{"C4", "12-A"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if rows := m.Snapshot("Classes"); len(rows) != 5 || rows[4][0] != "C4" {
		t.Errorf("Snapshot() = %q, want C4 on row 5", rows)
	}
}

func TestMemoryTrimsTrailingCells(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed("Attendance", []string{"id", "date", "status", "reason"}, []string{"ATT1", "2024-05-01", "present", ""})

	got, err := m.Get(ctx, Columns("Attendance", 0, 3).From(2))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := [][]string{{"ATT1", "2024-05-01", "present"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed("Students", []string{"id", "name", "classId", "username", "password"}, []string{"S1", "Budi", "C1", "budi", "x"})

	rng := Columns("Students", 0, 4).Row(2).Span(1, 4)
	if err := m.Update(ctx, rng, []string{"Budi S", "C1", "budis", "y"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := m.Snapshot("Students")[1]; !reflect.DeepEqual(got, []string{"S1", "Budi S", "C1", "budis", "y"}) {
		t.Errorf("row = %q", got)
	}
	if err := m.Update(ctx, rng, []string{"a", "b", "c", "d", "e"}); err == nil {
		t.Error("Update() with too many values should fail")
	}
}

func TestMemoryFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailWith(errors.New("quota exceeded"))

	if _, err := m.Get(ctx, Columns("Classes", 0, 1)); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Get() error = %v, want ErrRemoteUnavailable", err)
	}
	if err := m.Append(ctx, Columns("Classes", 0, 1), []string{"C1"}); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Append() error = %v, want ErrRemoteUnavailable", err)
	}

	m.FailWith(nil)
	if _, err := m.Get(ctx, Columns("Classes", 0, 1)); err != nil {
		t.Errorf("Get() error = %v after recovery", err)
	}
}

func TestNewGoogleRequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "no spreadsheet", creds: Credentials{Email: "svc@example.iam.gserviceaccount.com", PrivateKey: "k"}},
		{name: "no email", creds: Credentials{SpreadsheetID: "sheet", PrivateKey: "k"}},
		{name: "no key", creds: Credentials{SpreadsheetID: "sheet", Email: "svc@example.iam.gserviceaccount.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGoogle(context.Background(), tt.creds); !errors.Is(err, ErrConfiguration) {
				t.Errorf("NewGoogle() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestInstrumentedPassesThrough(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := Instrument(m)
	rng := Columns("Subjects", 0, 1).From(2)

	if err := v.Append(ctx, rng, []string{"SUB1", "Fisika"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	rows, err := v.Get(ctx, rng)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Get() = %q, %v", rows, err)
	}

	m.FailWith(errors.New("boom"))
	if err := v.Clear(ctx, rng); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Clear() error = %v, want ErrRemoteUnavailable", err)
	}
}
