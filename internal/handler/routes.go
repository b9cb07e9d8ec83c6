package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API under /api/v1
func RegisterRoutes(router gin.IRouter, commands *CommandHandler, history *HistoryHandler) {
	apiV1 := router.Group("/api/v1")
	{
		// Command endpoints
		apiV1.POST("/classify", commands.Classify)
		apiV1.POST("/commands", commands.Process)
		apiV1.POST("/commands/stream", commands.ProcessStream)
		apiV1.POST("/email", commands.ComposeEmail)

		// History endpoints
		apiV1.GET("/history", history.List)
		apiV1.DELETE("/history", history.Clear)
		apiV1.GET("/history/similar", history.Similar)
	}
}
