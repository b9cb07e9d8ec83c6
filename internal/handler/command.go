package handler

import (
	"net/http"
	"strings"
	"time"

	"jarvis/internal/model"
	"jarvis/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommandHandler handles voice-command HTTP requests
type CommandHandler struct {
	commandService *service.CommandService
	logger         *zap.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(commandService *service.CommandService, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{
		commandService: commandService,
		logger:         logger.Named("handler"),
	}
}

// bindTranscript accepts any transcript, including blank ones, which
// classify as unknown
func bindTranscript(c *gin.Context) (string, bool) {
	var req struct {
		Transcript *string `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return "", false
	}
	if req.Transcript == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: transcript is required"})
		return "", false
	}
	return *req.Transcript, true
}

// Classify handles POST /api/v1/classify
func (h *CommandHandler) Classify(c *gin.Context) {
	transcript, ok := bindTranscript(c)
	if !ok {
		return
	}

	intent := h.commandService.Classify(c.Request.Context(), transcript)
	c.JSON(http.StatusOK, model.ClassifyResponse{Intent: intent})
}

// Process handles POST /api/v1/commands
func (h *CommandHandler) Process(c *gin.Context) {
	transcript, ok := bindTranscript(c)
	if !ok {
		return
	}

	response := h.commandService.Process(c.Request.Context(), transcript)
	c.JSON(http.StatusOK, response)
}

// ProcessStream handles POST /api/v1/commands/stream - SSE streaming command
func (h *CommandHandler) ProcessStream(c *gin.Context) {
	transcript, ok := bindTranscript(c)
	if !ok {
		return
	}

	sse, ok := newSSEWriter(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	_, err := h.commandService.ProcessStream(c.Request.Context(), transcript, sse.Send)
	if err != nil {
		h.logger.Warn("command stream aborted", zap.Error(err))
		_ = sse.Send("error", gin.H{"error": err.Error()})
		return
	}

	_ = sse.Send("done", nil)
}

// ComposeEmail handles POST /api/v1/email
func (h *CommandHandler) ComposeEmail(c *gin.Context) {
	var form model.EmailFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	form.Recipient = strings.TrimSpace(form.Recipient)
	form.Subject = strings.TrimSpace(form.Subject)
	form.Intention = strings.TrimSpace(form.Intention)
	if form.Subject == "" || form.Intention == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: subject and intention must not be blank"})
		return
	}

	response := h.commandService.ComposeEmail(c.Request.Context(), form)
	c.JSON(http.StatusOK, response)
}

func since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
