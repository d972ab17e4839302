package web

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollcall/internal/apperr"
	"rollcall/internal/attendance"
	"rollcall/internal/auth"
	"rollcall/internal/export"
	"rollcall/internal/metrics"
)

// Handler serves the application's HTTP surface.
type Handler struct {
	auth         *auth.Service
	records      *attendance.Service
	cookieSecure bool
	sessionTTL   time.Duration
}

// New creates a handler.
func New(authSvc *auth.Service, records *attendance.Service, cookieSecure bool, sessionTTL time.Duration) *Handler {
	return &Handler{
		auth:         authSvc,
		records:      records,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// Routes registers every endpoint on the engine.
func (h *Handler) Routes(r *gin.Engine) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	student := r.Group("/", auth.RequireRole(h.auth, auth.RoleStudent))
	student.POST("/submit_attendance", h.SubmitAttendance)

	lecturer := r.Group("/", auth.RequireRole(h.auth, auth.RoleLecturer))
	lecturer.GET("/records", h.Records)
	lecturer.POST("/delete_record/:id", h.DeleteRecord)
	lecturer.POST("/toggle_status/:id", h.ToggleStatus)
	lecturer.GET("/download/all/csv", h.DownloadCSV)
	lecturer.GET("/download/all/pdf", h.DownloadPDF)
}

// Register creates an account and sends the user to the login page.
func (h *Handler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	role := c.PostForm("role")

	if _, err := h.auth.Register(c.Request.Context(), username, password, role); err != nil {
		h.fail(c, err, "/register")
		return
	}
	h.succeed(c, http.StatusCreated, "Registration successful! Please login.", "/login", nil)
}

// Login verifies credentials, sets the session cookie and redirects by role.
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, sess, err := h.auth.Login(c.Request.Context(), username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.fail(c, err, "/login")
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	c.SetCookie(auth.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)

	target := "/attendance"
	if sess.Role == auth.RoleLecturer {
		target = "/records"
	}
	h.succeed(c, http.StatusOK, "Logged in.", target, gin.H{"redirect": target, "role": sess.Role.String()})
}

// Logout revokes the session unconditionally.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.SessionCookie); err == nil && token != "" {
		h.auth.Logout(c.Request.Context(), token)
	}
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	h.succeed(c, http.StatusOK, "You have been logged out.", "/", nil)
}

// SubmitAttendance records a student's attendance submission.
func (h *Handler) SubmitAttendance(c *gin.Context) {
	loc := attendance.LocationInput{
		Latitude:  c.PostForm("latitude"),
		Longitude: c.PostForm("longitude"),
		Accuracy:  c.PostForm("accuracy"),
		Name:      c.PostForm("location_name"),
	}
	rec, err := h.records.Submit(c.Request.Context(),
		c.PostForm("name"), c.PostForm("matric_no"), c.PostForm("course"), loc)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(submitOutcome(err)).Inc()
		h.fail(c, err, "/attendance")
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	h.succeed(c, http.StatusCreated, "Attendance submitted successfully!", "/attendance", gin.H{"record": rec})
}

// Records returns the record list newest first plus aggregate counts.
func (h *Handler) Records(c *gin.Context) {
	records, counts, err := h.records.List(c.Request.Context(), listFilter(c))
	if err != nil {
		h.fail(c, err, "/records")
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "records": records, "counts": counts})
}

// DeleteRecord permanently removes a record.
func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "/records")
		return
	}
	h.succeed(c, http.StatusOK, "Record deleted successfully!", "/records", nil)
}

// ToggleStatus activates or deactivates a record and reports fresh counts.
func (h *Handler) ToggleStatus(c *gin.Context) {
	var active bool
	switch c.PostForm("action") {
	case "activate":
		active = true
	case "deactivate":
		active = false
	default:
		h.fail(c, apperr.NewValidation("action"), "/records")
		return
	}

	counts, err := h.records.ToggleActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		h.fail(c, err, "/records")
		return
	}
	message := "Account has been deactivated."
	if active {
		message = "Account has been activated."
	}
	h.succeed(c, http.StatusOK, message, "/records", gin.H{"new_status": active, "new_counts": counts})
}

// DownloadCSV streams the current record set as a CSV attachment.
func (h *Handler) DownloadCSV(c *gin.Context) {
	records, _, err := h.records.List(c.Request.Context(), listFilter(c))
	if err != nil {
		h.fail(c, err, "/records")
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		h.fail(c, err, "/records")
		return
	}
	metrics.ExportsTotal.WithLabelValues("csv").Inc()
	name := export.Filename(time.Now(), "csv")
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// DownloadPDF streams the current record set as a PDF attachment.
func (h *Handler) DownloadPDF(c *gin.Context) {
	records, _, err := h.records.List(c.Request.Context(), listFilter(c))
	if err != nil {
		h.fail(c, err, "/records")
		return
	}
	now := time.Now()
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, records, now); err != nil {
		h.fail(c, err, "/records")
		return
	}
	metrics.ExportsTotal.WithLabelValues("pdf").Inc()
	name := export.Filename(now, "pdf")
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func listFilter(c *gin.Context) attendance.Filter {
	active := c.Query("active")
	return attendance.Filter{
		Course:     c.Query("course"),
		ActiveOnly: active == "1" || active == "true",
	}
}

// succeed answers an XHR client with JSON and a form client with a redirect
// plus flash message.
func (h *Handler) succeed(c *gin.Context, status int, message, redirectTo string, extra gin.H) {
	if isXHR(c) {
		body := gin.H{"success": true, "message": message}
		for k, v := range extra {
			body[k] = v
		}
		c.JSON(status, body)
		return
	}
	SetFlash(c, "success", message, h.cookieSecure)
	c.Redirect(http.StatusSeeOther, redirectTo)
}

// fail maps a workflow error to a status and message. Raw storage errors are
// logged, never shown.
func (h *Handler) fail(c *gin.Context, err error, redirectTo string) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s: %v", c.FullPath(), err)
	}
	if isXHR(c) {
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}
	SetFlash(c, "danger", message, h.cookieSecure)
	c.Redirect(http.StatusSeeOther, redirectTo)
}

func statusFor(err error) (int, string) {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrDuplicateUsername),
		errors.Is(err, apperr.ErrDuplicateRecord):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrRecordInactive):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden, "insufficient permissions"
	default:
		return http.StatusInternalServerError, "something went wrong, please try again"
	}
}

func submitOutcome(err error) string {
	switch {
	case apperr.IsValidation(err):
		return "invalid"
	case errors.Is(err, apperr.ErrDuplicateRecord):
		return "duplicate"
	case errors.Is(err, apperr.ErrRecordInactive):
		return "deactivated"
	default:
		return "error"
	}
}

func isXHR(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
