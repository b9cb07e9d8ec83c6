//go:build !embed

package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves the frontend from disk during development
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("serving frontend from ./cmd/server/web/dist (development mode)")

	router.Static("/assets", "./cmd/server/web/dist/assets")
	router.StaticFile("/", "./cmd/server/web/dist/index.html")

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
			"hint":  "build with -tags embed to serve the bundled frontend",
		})
	})
}
