package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/sumit2409/Zenflow/internal/auth"
	"github.com/sumit2409/Zenflow/internal/dto"
	"github.com/sumit2409/Zenflow/internal/service"

	"github.com/gin-gonic/gin"
)

// LogHandler handles activity log listing and upserts.
type LogHandler struct {
	logSvc *service.LogService
}

// NewLogHandler returns a new LogHandler.
func NewLogHandler(logSvc *service.LogService) *LogHandler {
	return &LogHandler{logSvc: logSvc}
}

// List godoc
// @Summary      List activity logs
// @Tags         logs
// @Produce      json
// @Success      200  {object}  dto.ListLogsResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	username := auth.UsernameFromContext(c)
	entries, err := h.logSvc.List(c.Request.Context(), username)
	if err != nil {
		log.Printf("list logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	logs := make([]dto.LogResponse, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, dto.LogResponse{Date: e.Date, Type: e.Type, Value: e.Value})
	}
	c.JSON(http.StatusOK, dto.ListLogsResponse{Logs: logs})
}

// Upsert godoc
// @Summary      Write or overwrite one activity log entry
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertLogRequest  true  "Entry"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /logs [post]
func (h *LogHandler) Upsert(c *gin.Context) {
	var req dto.UpsertLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and type required"})
		return
	}
	username := auth.UsernameFromContext(c)
	err := h.logSvc.Upsert(c.Request.Context(), username, req.Date, req.Type, req.Value.Float())
	if err != nil {
		if errors.Is(err, service.ErrMissingLogFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date and type required"})
			return
		}
		log.Printf("upsert log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
