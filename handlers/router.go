package handlers

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/DszGabriel04/attendance-nitgoa/templates"
)

// Router builds the gin engine with all routes, CORS and the embedded HTML
// templates wired in.
func Router(h *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.SetHTMLTemplate(template.Must(template.ParseFS(templates.FS, "*.html")))

	router.POST("/faculty/login", h.Login)

	router.POST("/classes", h.CreateClass)
	router.GET("/classes", h.ListClasses)
	router.DELETE("/classes/:class_id", h.DeleteClass)
	router.POST("/classes/:class_id/attendance", h.SaveAttendance)
	router.PUT("/classes/:class_id/attendance", h.UpdateAttendance)

	router.GET("/attendance/history/:class_id", h.History)
	router.GET("/attendance/export/:class_id", h.ExportExcel)

	router.GET("/qr/generate", h.GenerateQR)
	router.GET("/qr/validate", h.ValidateQR)
	router.GET("/qr/status", h.Status)
	router.GET("/qr/watch", h.Watch)
	router.POST("/qr/submit-attendance", h.SubmitAttendance)
	router.POST("/qr/cancel", h.CancelQR)

	router.POST("/api/check_scan", h.CheckScan)

	return router
}
