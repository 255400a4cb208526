package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DszGabriel04/attendance-nitgoa/models"
	"github.com/DszGabriel04/attendance-nitgoa/qr"
	"github.com/DszGabriel04/attendance-nitgoa/sessions"
)

// tokenPrefix shortens a token for log lines; callers may mint tokens shorter
// than the prefix.
func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func (h *Handler) validationURL(c *gin.Context, token string) string {
	base := h.cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/qr/validate?token=" + token
}

// GenerateQR mints a session token for a class and returns it as a scannable
// PNG encoding the validation URL. as_base64 (default) wraps the image in JSON;
// otherwise raw PNG bytes go out with the token in response headers.
func (h *Handler) GenerateQR(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	length, err := intQuery(c, "length", 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	boxSize, err := intQuery(c, "box_size", 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	border, err := intQuery(c, "border", 4)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asBase64 := c.DefaultQuery("as_base64", "true") != "false"

	exists, err := h.store.ClassExists(classID)
	if err != nil {
		log.Println("Failed to check class:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Class '%s' not found", classID)})
		return
	}

	token, err := qr.NewToken(length)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validationURL := h.validationURL(c, token)
	pngBytes, err := qr.PNG(validationURL, boxSize, border)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// register only after the image rendered, so a failed request leaves no
	// orphan session behind
	h.registry.Create(token, classID)
	log.Printf("Issued QR session %s... for class %s", tokenPrefix(token), classID)

	if asBase64 {
		b64 := base64.StdEncoding.EncodeToString(pngBytes)
		c.JSON(http.StatusOK, gin.H{
			"token":          token,
			"data":           "data:image/png;base64," + b64,
			"validation_url": validationURL,
		})
		return
	}

	c.Header("X-QR-Token", token)
	c.Header("X-Validation-URL", validationURL)
	c.Data(http.StatusOK, "image/png", pngBytes)
}

// ValidateQR is the page a student lands on after scanning. An active token
// renders the submission form (whose script runs the device scan check first);
// anything else renders the expired page with 410.
func (h *Handler) ValidateQR(c *gin.Context) {
	token := c.Query("token")
	if token == "" || !h.registry.IsActive(token) {
		c.HTML(http.StatusGone, "token_expired.html", nil)
		return
	}
	c.HTML(http.StatusOK, "scan_form.html", gin.H{"token": token})
}

// CheckScan is the device replay guard: the first call for a (session, device)
// pair claims it and returns allowed=true, every later call returns false until
// the session's keys are cleared on cancel.
func (h *Handler) CheckScan(c *gin.Context) {
	var req models.CheckScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id and session_id are required"})
		return
	}

	allowed, err := h.guard.Allow(c.Request.Context(), req.SessionID, req.DeviceID)
	if err != nil {
		log.Println("Scan guard check failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

// Status reports how a live session is going. include_details adds the list of
// submitted students.
func (h *Handler) Status(c *gin.Context) {
	token := c.Query("token")
	count, ok := h.registry.Count(token)
	if !ok {
		c.JSON(http.StatusGone, gin.H{"error": "Token invalid or cancelled"})
		return
	}
	classID, _ := h.registry.ClassID(token)

	resp := gin.H{
		"token":            token,
		"class_id":         classID,
		"submission_count": count,
	}
	if c.Query("include_details") == "true" {
		resp["submitted_students"] = h.registry.Submissions(token)
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAttendance records one student's presence claim against a live token.
// The write is in-memory only; durability happens at cancel time.
func (h *Handler) SubmitAttendance(c *gin.Context) {
	var req models.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and student_id are required"})
		return
	}

	if !h.registry.IsActive(req.Token) {
		c.JSON(http.StatusGone, gin.H{"error": "QR token is invalid or has been cancelled"})
		return
	}

	classID, ok := h.registry.ClassID(req.Token)
	if !ok {
		// token was invalidated between the two registry calls
		c.JSON(http.StatusGone, gin.H{"error": "QR token is invalid or has been cancelled"})
		return
	}

	enrolled, err := h.store.StudentEnrolled(classID, req.StudentID)
	if err != nil {
		log.Println("Failed enrollment check:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !enrolled {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf(
			"Student '%s' is not enrolled in this class", req.StudentID)})
		return
	}

	switch err := h.registry.AddSubmission(req.Token, req.StudentID); {
	case errors.Is(err, sessions.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance already submitted for this session"})
	case errors.Is(err, sessions.ErrSessionNotFound):
		c.JSON(http.StatusGone, gin.H{"error": "QR token is invalid or has been cancelled"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Printf("Recorded submission for %s in class %s", req.StudentID, classID)
		c.JSON(http.StatusOK, gin.H{
			"message":    "Attendance recorded",
			"student_id": req.StudentID,
			"class_id":   classID,
		})
	}
}

// CancelQR finalizes a session: pending submissions become durable attendance
// rows in one transaction, guard keys are cleared and the token dies. When the
// transaction fails, CleanupOnFailure decides whether teardown still happens.
func (h *Handler) CancelQR(c *gin.Context) {
	var req models.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	classID, ok := h.registry.ClassID(req.Token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}
	submitted := h.registry.Submissions(req.Token)

	marked, err := h.store.FinalizeAttendance(classID, today(), submitted)
	if err != nil {
		log.Println("Finalization transaction failed:", err)
		if h.cfg.CleanupOnFailure {
			// historical policy: tear the session down anyway so it cannot get
			// stuck, accepting that its pending submissions are lost
			h.teardown(c, req.Token)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.teardown(c, req.Token)
	log.Printf("Finalized session %s...: %d students marked present in %s", tokenPrefix(req.Token), marked, classID)

	c.JSON(http.StatusOK, gin.H{
		"token":                   req.Token,
		"cancelled":               true,
		"class_id":                classID,
		"students_marked_present": marked,
		"submitted_students":      submitted,
	})
}

func (h *Handler) teardown(c *gin.Context, token string) {
	if err := h.guard.Clear(c.Request.Context(), token); err != nil {
		// best effort: TTL will reap leftover markers
		log.Println("Failed to clear scan guard keys:", err)
	}
	h.registry.Invalidate(token)
}
