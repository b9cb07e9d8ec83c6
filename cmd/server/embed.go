//go:build embed

package main

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the embedded frontend, falling back to index.html
// for client-side routes
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("using embedded frontend assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Fatal("failed to open embedded dist directory", zap.Error(err))
	}

	index, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		logger.Fatal("embedded frontend has no index.html", zap.Error(err))
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(urlPath), "/")
		if name != "" {
			if content, err := fs.ReadFile(distFS, name); err == nil {
				contentType := mime.TypeByExtension(path.Ext(name))
				if contentType == "" {
					contentType = "application/octet-stream"
				}
				c.Data(http.StatusOK, contentType, content)
				return
			}
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}
