package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// same-origin dashboards plus whatever CORS already allows
		return true
	},
}

// Watch streams live submission counts for a session over a websocket so the
// instructor's QR display can update without polling. The stream ends when the
// token is invalidated or the client goes away.
func (h *Handler) Watch(c *gin.Context) {
	token := c.Query("token")
	if !h.registry.IsActive(token) {
		c.JSON(http.StatusGone, gin.H{"error": "Token invalid or cancelled"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		count, ok := h.registry.Count(token)
		if !ok {
			// session finalized; tell the client and stop
			conn.WriteJSON(gin.H{"active": false})
			return
		}
		if err := conn.WriteJSON(gin.H{"active": true, "submission_count": count}); err != nil {
			log.Printf("Watcher disconnected: %v", err)
			return
		}
	}
}
