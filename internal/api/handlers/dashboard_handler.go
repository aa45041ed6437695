package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const defaultRunsLimit = 20

type DashboardHandler struct {
	service        *service.DashboardService
	maxUploadBytes int64
}

func NewDashboardHandler(service *service.DashboardService, maxUploadBytes int64) *DashboardHandler {
	return &DashboardHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *DashboardHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/sessions", h.CreateSession)

	sessions := group.Group("/sessions/:session")
	{
		sessions.POST("/snapshots", h.Upload)
		sessions.POST("/import", h.Import)
		sessions.GET("/dates", h.GetDates)
		sessions.GET("/summary", h.GetSummary)
		sessions.GET("/compare", h.GetComparison)
		sessions.GET("/items/*item", h.GetItem)
		sessions.GET("/classification", h.GetClassification)
		sessions.GET("/adhoc", h.GetAdhoc)
		sessions.GET("/rows", h.GetRows)
		sessions.GET("/runs", h.GetRuns)
	}
}

func parseFilter(c *gin.Context) domain.Filter {
	return domain.Filter{
		ItemFamily: strings.TrimSpace(c.Query("item_family")),
		Warehouse:  strings.TrimSpace(c.Query("warehouse")),
		Supplier:   strings.TrimSpace(c.Query("supplier")),
	}
}

// positiveQuery reads an optional positive integer query parameter. An
// absent parameter yields def; anything else that is not a positive integer
// is a user-input error.
func positiveQuery(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status, message = http.StatusNotFound, "session not found"
	case errors.Is(err, domain.ErrItemNotFound):
		status, message = http.StatusNotFound, "item not found"
	case errors.Is(err, domain.ErrUnreadableInput), errors.Is(err, domain.ErrMissingIdentityColumn):
		status, message = http.StatusUnprocessableEntity, "upload could not be processed"
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrStorageDisabled):
		status, message = http.StatusServiceUnavailable, "object storage is not configured"
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func (h *DashboardHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": h.service.CreateSession()})
}

// Upload replaces the session's snapshot set with the posted files.
func (h *DashboardHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large", "details": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data", "details": err.Error()})
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["files[]"]
	}
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file", "details": err.Error()})
			return
		}
		files = append(files, domain.UploadedFile{Filename: fh.Filename, Content: content})
	}

	if raw := strings.TrimSpace(c.PostForm("date")); raw != "" {
		date, err := service.ParseDate(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		for i := range files {
			files[i].Date = &date
		}
	}

	result, err := h.service.Upload(c.Request.Context(), c.Param("session"), files)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *DashboardHandler) Import(c *gin.Context) {
	result, err := h.service.ImportFromStorage(c.Request.Context(), c.Param("session"), c.Query("prefix"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DashboardHandler) GetDates(c *gin.Context) {
	dates, err := h.service.Dates(c.Request.Context(), c.Param("session"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("session"), parseFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetComparison(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	comparison, err := h.service.Compare(c.Request.Context(), c.Param("session"), from, to, parseFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// GetItem takes the rest of the path as the item, so SKUs may contain '/'.
func (h *DashboardHandler) GetItem(c *gin.Context) {
	item := strings.TrimPrefix(c.Param("item"), "/")
	if strings.TrimSpace(item) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}

	detail, err := h.service.Item(c.Request.Context(), c.Param("session"), item, parseFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *DashboardHandler) GetClassification(c *gin.Context) {
	classification, err := h.service.Classification(c.Request.Context(), c.Param("session"), parseFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, classification)
}

func (h *DashboardHandler) GetAdhoc(c *gin.Context) {
	points, err := h.service.Adhoc(c.Request.Context(), c.Param("session"), parseFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

func (h *DashboardHandler) GetRows(c *gin.Context) {
	page, err := positiveQuery(c, "page", 1)
	if err != nil {
		writeError(c, err)
		return
	}
	pageSize, err := positiveQuery(c, "page_size", 0)
	if err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.service.Rows(c.Request.Context(), c.Param("session"), parseFilter(c), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *DashboardHandler) GetRuns(c *gin.Context) {
	limit, err := positiveQuery(c, "limit", defaultRunsLimit)
	if err != nil {
		writeError(c, err)
		return
	}

	runs, err := h.service.Runs(c.Request.Context(), c.Param("session"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if runs == nil {
		runs = []domain.UploadRun{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
