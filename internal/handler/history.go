package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jarvis/internal/model"
	"jarvis/internal/repository"
	"jarvis/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler handles command-history HTTP requests
type HistoryHandler struct {
	historyService *service.HistoryService
	defaultLimit   int
	maxLimit       int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService, maxItems int) *HistoryHandler {
	if maxItems <= 0 {
		maxItems = model.MaxHistoryItems
	}
	return &HistoryHandler{
		historyService: historyService,
		defaultLimit:   maxItems,
		maxLimit:       maxItems,
	}
}

func (h *HistoryHandler) limit(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return 0, false
	}
	return min(limit, h.maxLimit), true
}

// List handles GET /api/v1/history. With grouped=true the items are also
// bucketed by day in the optional tz location.
func (h *HistoryHandler) List(c *gin.Context) {
	limit, ok := h.limit(c, h.defaultLimit)
	if !ok {
		return
	}

	items, err := h.historyService.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list history: " + err.Error()})
		return
	}
	if items == nil {
		items = []model.HistoryItem{}
	}

	response := model.HistoryResponse{
		Items: items,
		Total: len(items),
	}

	if grouped, _ := strconv.ParseBool(c.Query("grouped")); grouped {
		loc := time.Local
		if tz := c.Query("tz"); tz != "" {
			loc, err = time.LoadLocation(tz)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tz: " + tz})
				return
			}
		}
		response.Groups = h.historyService.Group(items, loc)
	}

	c.JSON(http.StatusOK, response)
}

// Clear handles DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.historyService.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Similar handles GET /api/v1/history/similar?q=
func (h *HistoryHandler) Similar(c *gin.Context) {
	startTime := time.Now()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	limit, ok := h.limit(c, 10)
	if !ok {
		return
	}

	results, err := h.historyService.Similar(c.Request.Context(), query, limit)
	switch {
	case errors.Is(err, service.ErrSimilarityUnavailable), errors.Is(err, repository.ErrSimilarityUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Similar-command lookup is not enabled"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Similar-command lookup failed: " + err.Error()})
		return
	}
	if results == nil {
		results = []model.ScoredHistoryItem{}
	}

	c.JSON(http.StatusOK, model.SimilarHistoryResponse{
		Query:   query,
		Results: results,
		Took:    since(startTime),
	})
}
