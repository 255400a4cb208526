package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/DszGabriel04/attendance-nitgoa/database"
	"github.com/DszGabriel04/attendance-nitgoa/models"
)

// Login verifies faculty credentials. The mobile client sends email/password as
// query parameters; a JSON body works too. Hashes are bcrypt-verified.
func (h *Handler) Login(c *gin.Context) {
	email := c.Query("email")
	password := c.Query("password")
	if email == "" || password == "" {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		email, password = req.Email, req.Password
	}

	faculty, err := h.store.GetFacultyByEmail(email)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid email"})
		return
	}
	if err != nil {
		log.Println("Failed to look up faculty:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(faculty.PasswordHash), []byte(password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "faculty_id": faculty.ID})
}
