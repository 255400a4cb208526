package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DszGabriel04/attendance-nitgoa/database"
	"github.com/DszGabriel04/attendance-nitgoa/models"
)

// SaveAttendance bulk-records today's attendance for a class. Create-only:
// students with an existing row for today are reported in "skipped".
func (h *Handler) SaveAttendance(c *gin.Context) {
	classID := c.Param("class_id")
	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := today()
	created, skipped, err := h.store.SaveAttendance(classID, date, req.Attendees)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class '" + classID + "' not found"})
		return
	}
	if err != nil {
		log.Println("Failed to save attendance:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Attendance saved",
		"class_id": classID,
		"date":     date,
		"created":  created,
		"skipped":  skipped,
	})
}

// UpdateAttendance flips already-recorded rows for today.
func (h *Handler) UpdateAttendance(c *gin.Context) {
	classID := c.Param("class_id")
	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, problems, err := h.store.UpdateAttendance(classID, today(), req.Attendees)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No attendance records found for this class and date"})
		return
	}
	if err != nil {
		log.Println("Failed to update attendance:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Updated %d record(s)", updated),
		"errors":  problems,
	})
}

// History returns every attendance record for a class. An unknown class yields
// an empty array body, matching what the dashboard expects.
func (h *Handler) History(c *gin.Context) {
	classID := c.Param("class_id")

	history, err := h.store.History(classID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusOK, []database.HistoryRecord{})
		return
	}
	if err != nil {
		log.Println("Failed to fetch history:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"class_code":         classID,
		"attendance_history": history,
	})
}
