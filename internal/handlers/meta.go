package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/sumit2409/Zenflow/internal/auth"
	"github.com/sumit2409/Zenflow/internal/dto"
	"github.com/sumit2409/Zenflow/internal/service"

	"github.com/gin-gonic/gin"
)

// MetaHandler handles the per-user metadata blob.
type MetaHandler struct {
	metaSvc *service.MetaService
}

// NewMetaHandler returns a new MetaHandler.
func NewMetaHandler(metaSvc *service.MetaService) *MetaHandler {
	return &MetaHandler{metaSvc: metaSvc}
}

// Get godoc
// @Summary      Get metadata blob
// @Tags         meta
// @Produce      json
// @Success      200  {object}  dto.MetaResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meta [get]
func (h *MetaHandler) Get(c *gin.Context) {
	username := auth.UsernameFromContext(c)
	meta, err := h.metaSvc.Get(c.Request.Context(), username)
	if err != nil {
		log.Printf("get meta: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, dto.MetaResponse{Meta: meta})
}

// Set godoc
// @Summary      Replace metadata blob
// @Tags         meta
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetMetaRequest  true  "Blob"
// @Success      200   {object}  map[string]bool
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /meta [post]
func (h *MetaHandler) Set(c *gin.Context) {
	var req dto.SetMetaRequest
	// An empty body replaces the blob with {}, same as {"meta":{}}.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	username := auth.UsernameFromContext(c)
	if err := h.metaSvc.Set(c.Request.Context(), username, req.Meta); err != nil {
		log.Printf("set meta: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
