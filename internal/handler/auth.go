package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolbell/internal/auth"
	"schoolbell/internal/records"
)

type teacherLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) TeacherLogin(c *gin.Context) {
	var req teacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.TeacherLogin(req.Email, req.Password); err != nil {
		fail(c, err)
		return
	}
	h.issue(c, req.Email, auth.RoleTeacher)
}

type studentLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) StudentLogin(c *gin.Context) {
	var req studentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.StudentLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.issue(c, st.ID, auth.RoleStudent)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh trades a refresh token for a new pair. Students deleted since the
// token was issued are refused.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	claims, err := h.signer.Parse(req.RefreshToken, auth.TypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if claims.Role == auth.RoleStudent {
		if _, err := h.svc.Student(c.Request.Context(), claims.Subject); err != nil {
			if errors.Is(err, records.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			fail(c, err)
			return
		}
	}
	h.issue(c, claims.Subject, claims.Role)
}

func (h *Handler) issue(c *gin.Context, subject, role string) {
	tokens, err := h.signer.Issue(subject, role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}
