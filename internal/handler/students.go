package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolbell/internal/portal"
)

type studentRequest struct {
	Name     string `json:"name"`
	ClassID  string `json:"class_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r studentRequest) input() portal.StudentInput {
	return portal.StudentInput{Name: r.Name, ClassID: r.ClassID, Username: r.Username, Password: r.Password}
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.AddStudent(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) GetStudent(c *gin.Context) {
	st, err := h.svc.Student(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateStudent ignores class_id; an empty password keeps the current one.
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.UpdateStudent(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.svc.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
