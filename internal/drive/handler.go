package drive

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	syncer  *Syncer
}

func NewHandler(service *Service, syncer *Syncer) *Handler {
	return &Handler{
		service: service,
		syncer:  syncer,
	}
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/drive/files", h.ListFiles)
	group.POST("/drive/sync", h.Sync)
}

func (h *Handler) ListFiles(c *gin.Context) {
	folderID := c.Query("folder_id")

	if folderPath := c.Query("path"); folderPath != "" {
		id, err := h.service.FindFolderByPath(c.Request.Context(), folderPath)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found", "details": err.Error()})
			return
		}
		folderID = id
	}

	files, err := h.service.ListFiles(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list drive files", "details": err.Error()})
		return
	}
	if files == nil {
		files = []*File{}
	}

	c.JSON(http.StatusOK, files)
}

func (h *Handler) Sync(c *gin.Context) {
	result, changed, err := h.syncer.Sync(c.Request.Context(), c.Query("force") == "true")
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnreadableInput) || errors.Is(err, domain.ErrMissingIdentityColumn) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": "drive sync failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": h.syncer.SessionID(),
		"changed":    changed,
		"result":     result,
	})
}
