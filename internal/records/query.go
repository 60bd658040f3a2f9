package records

import (
	"time"

	"schoolbell/internal/model"
)

// DateLayout is the format of AttendanceRecord.Date.
const DateLayout = "2006-01-02"

// Filter returns the records for which keep returns true, in input order.
func Filter(records []model.AttendanceRecord, keep func(model.AttendanceRecord) bool) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, 0)
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func ForStudent(records []model.AttendanceRecord, studentID string) []model.AttendanceRecord {
	return Filter(records, func(r model.AttendanceRecord) bool { return r.StudentID == studentID })
}

func OnDate(records []model.AttendanceRecord, date string) []model.AttendanceRecord {
	return Filter(records, func(r model.AttendanceRecord) bool { return r.Date == date })
}

func ForStudentOnDate(records []model.AttendanceRecord, studentID, date string) []model.AttendanceRecord {
	return Filter(records, func(r model.AttendanceRecord) bool {
		return r.StudentID == studentID && r.Date == date
	})
}

func ForClass(records []model.AttendanceRecord, classID string) []model.AttendanceRecord {
	return Filter(records, func(r model.AttendanceRecord) bool { return r.ClassID == classID })
}

// Between keeps records dated from..to, both inclusive. An empty bound is
// open. Dates compare as YYYY-MM-DD strings.
func Between(records []model.AttendanceRecord, from, to string) []model.AttendanceRecord {
	return Filter(records, func(r model.AttendanceRecord) bool {
		return (from == "" || r.Date >= from) && (to == "" || r.Date <= to)
	})
}

// Summary counts records by status.
type Summary struct {
	Total    int     `json:"total"`
	Attended int     `json:"attended"`
	Present  int     `json:"present"`
	Late     int     `json:"late"`
	Absent   int     `json:"absent"`
	Excused  int     `json:"excused"`
	Rate     float64 `json:"rate"`
}

// Summarize counts records by status. Rate is the share of records in which the
// student attended (present or late), 0 when there are no records.
func Summarize(records []model.AttendanceRecord) Summary {
	var s Summary
	for _, r := range records {
		s.Total++
		switch r.Status {
		case model.StatusPresent:
			s.Present++
		case model.StatusLate:
			s.Late++
		case model.StatusAbsent:
			s.Absent++
		case model.StatusExcused:
			s.Excused++
		}
		if r.Status.Attended() {
			s.Attended++
		}
	}
	if s.Total > 0 {
		s.Rate = float64(s.Attended) / float64(s.Total)
	}
	return s
}

// Day is one point of the daily attendance series.
type Day struct {
	Date     string `json:"date"`
	Attended int    `json:"attended"`
	Absent   int    `json:"absent"`
}

// Daily returns one Day per calendar day for the days ending on end, oldest
// first.
func Daily(records []model.AttendanceRecord, end time.Time, days int) []Day {
	out := make([]Day, 0, days)
	index := make(map[string]int, days)
	for i := days - 1; i >= 0; i-- {
		date := end.AddDate(0, 0, -i).Format(DateLayout)
		index[date] = len(out)
		out = append(out, Day{Date: date})
	}
	for _, r := range records {
		i, ok := index[r.Date]
		if !ok {
			continue
		}
		switch {
		case r.Status.Attended():
			out[i].Attended++
		case r.Status == model.StatusAbsent:
			out[i].Absent++
		}
	}
	return out
}
