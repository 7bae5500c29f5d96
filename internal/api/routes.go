package api

import (
	"github.com/FixerMob/Protocol-Service/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// corsMiddleware allows the mobile clients to call the API from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

func RegisterRoutes(r *gin.Engine, h *handlers.ProtocolHandlers) {
	r.Use(corsMiddleware())

	r.GET("/", h.Index)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		// Protocol endpoints
		api.POST("/protocols/video", h.UploadVideo)             // single video upload
		api.POST("/protocols/photos", h.UploadPhotos)           // multi-file photo upload
		api.POST("/protocols/screenshots", h.UploadScreenshots) // multi-file screenshot upload
		api.GET("/protocols", h.ListProtocols)                  // list protocols for a device
		api.GET("/protocols/:id/pdf", h.DownloadPDF)            // download generated PDF
	}
}
