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

// CreateClass creates a class together with its roster and marks every listed
// student present for today.
func (h *Handler) CreateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.CreateClassWithStudents(req, today())
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Faculty with id '%s' does not exist", req.FacultyID)})
	case errors.Is(err, database.ErrClassExists):
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf(
			"Class '%s' already exists. Please delete the existing class before creating a new one.", req.ID)})
	case err != nil:
		log.Println("Failed to create class:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf(
			"Class '%s' created with %d students, all marked present for today", req.ID, len(req.Students))})
	}
}

func (h *Handler) DeleteClass(c *gin.Context) {
	classID := c.Param("class_id")

	err := h.store.DeleteClass(classID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Class with id '%s' does not exist", classID)})
	case err != nil:
		log.Println("Failed to delete class:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf(
			"Class '%s' and its attendance have been deleted. Students no longer in any class were also removed.", classID)})
	}
}

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.store.ListClasses(today())
	if err != nil {
		log.Println("Failed to list classes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, classes)
}
