package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolbell/internal/auth"
	"schoolbell/internal/portal"
	"schoolbell/internal/records"
	"schoolbell/internal/sheet"
	"schoolbell/internal/store"
)

// maxMarkBody bounds a mark request, photo data URL included.
const maxMarkBody = 5 << 20

type Handler struct {
	svc    *portal.Service
	signer *auth.Signer
	health *store.Health
}

func New(svc *portal.Service, signer *auth.Signer, health *store.Health) *Handler {
	return &Handler{svc: svc, signer: signer, health: health}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	v1.POST("/auth/teacher", h.TeacherLogin)
	v1.POST("/auth/student", h.StudentLogin)
	v1.POST("/auth/refresh", h.Refresh)

	teacher := v1.Group("", auth.Bearer(h.signer), auth.RequireRole(auth.RoleTeacher))
	{
		teacher.GET("/classes", h.ListClasses)
		teacher.POST("/classes", h.CreateClass)
		teacher.GET("/classes/:id", h.GetClass)
		teacher.PUT("/classes/:id", h.RenameClass)
		teacher.DELETE("/classes/:id", h.DeleteClass)
		teacher.GET("/classes/:id/students", h.ClassStudents)

		teacher.GET("/subjects", h.ListSubjects)
		teacher.POST("/subjects", h.CreateSubject)
		teacher.PUT("/subjects/:id", h.RenameSubject)
		teacher.DELETE("/subjects/:id", h.DeleteSubject)

		teacher.POST("/students", h.CreateStudent)
		teacher.GET("/students/:id", h.GetStudent)
		teacher.PUT("/students/:id", h.UpdateStudent)
		teacher.DELETE("/students/:id", h.DeleteStudent)

		teacher.GET("/attendance", h.ListAttendance)
		teacher.PUT("/attendance/:id", h.CorrectAttendance)
		teacher.DELETE("/attendance/:id", h.DeleteAttendance)
		teacher.GET("/dashboard", h.Dashboard)
	}

	me := v1.Group("/me", auth.Bearer(h.signer), auth.RequireRole(auth.RoleStudent))
	{
		me.GET("", h.Me)
		me.GET("/attendance", h.MyAttendance)
		me.POST("/attendance", h.Mark)
	}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	checks, ok := h.health.Run(c.Request.Context())
	status, text := http.StatusOK, "ok"
	if !ok {
		status, text = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(status, gin.H{"status": text, "checks": checks})
}

// fail writes err with the status its kind maps to.
func fail(c *gin.Context, err error) {
	var verr *portal.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, portal.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, records.ErrNotFound), errors.Is(err, records.ErrRangeEmpty):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, sheet.ErrRemoteUnavailable):
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "record store unavailable"})
	case errors.Is(err, sheet.ErrConfiguration):
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record store misconfigured"})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
