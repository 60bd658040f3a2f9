package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolbell/internal/auth"
	"schoolbell/internal/model"
	"schoolbell/internal/portal"
	"schoolbell/internal/records"
)

func (h *Handler) ListAttendance(c *gin.Context) {
	recs, err := h.svc.Report(c.Request.Context(), portal.ReportFilter{
		From:      c.Query("from"),
		To:        c.Query("to"),
		ClassID:   c.Query("class_id"),
		StudentID: c.Query("student_id"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs, "summary": records.Summarize(recs)})
}

type correctRequest struct {
	Status model.Status `json:"status" binding:"required,oneof=present absent late excused"`
	Reason string       `json:"reason"`
}

func (h *Handler) CorrectAttendance(c *gin.Context) {
	var req correctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rec, err := h.svc.CorrectAttendance(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteAttendance(c *gin.Context) {
	if err := h.svc.DeleteAttendance(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// ---------- Student self-service ----------

// current loads the student the token was issued to.
func (h *Handler) current(c *gin.Context) (model.Student, bool) {
	claims, _ := auth.ClaimsFrom(c)
	st, err := h.svc.Student(c.Request.Context(), claims.Subject)
	if errors.Is(err, records.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
		return model.Student{}, false
	}
	if err != nil {
		fail(c, err)
		return model.Student{}, false
	}
	return st, true
}

func (h *Handler) Me(c *gin.Context) {
	st, ok := h.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st)
}

type markRequest struct {
	Status    model.Status `json:"status" binding:"required,oneof=present absent late excused"`
	Reason    string       `json:"reason"`
	SubjectID string       `json:"subject_id"`
	Location  string       `json:"location"`
	Photo     string       `json:"photo"`
}

// Mark records attendance for the caller. The photo, when sent, is uploaded
// in the background and shows up on the record later.
func (h *Handler) Mark(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMarkBody)
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, ok := h.current(c)
	if !ok {
		return
	}
	rec, err := h.svc.MarkAttendance(c.Request.Context(), st, portal.MarkInput{
		Status:    req.Status,
		Reason:    req.Reason,
		SubjectID: req.SubjectID,
		Location:  req.Location,
		Photo:     req.Photo,
	})
	if err != nil && rec.ID == "" {
		fail(c, err)
		return
	}
	resp := gin.H{"record": rec}
	if err != nil {
		// the mark is stored; only the photo was lost
		log.Printf("mark %s: %v", rec.ID, err)
		resp["warning"] = "photo could not be queued"
	}
	c.JSON(http.StatusCreated, resp)
}

// MyAttendance returns the caller's marks, newest first, optionally for one date.
func (h *Handler) MyAttendance(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	recs, err := h.svc.StudentHistory(c.Request.Context(), claims.Subject, c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs, "summary": records.Summarize(recs)})
}
