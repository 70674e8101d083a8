package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/extract"
	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
)

// maxUploadBytes caps an upload at 10 MiB before reading the multipart body.
const maxUploadBytes = 10 << 20

var allowedMimeTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"application/pdf": true,
}

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/stats", h.stats)
	rg.GET("/documents/:id", h.get)
	rg.PATCH("/documents/:id/status", h.updateStatus)
	rg.DELETE("/documents/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "no_file", "no file provided", nil)
		return
	}

	declared := fileHeader.Header.Get("Content-Type")
	if declared != "" && !allowedMimeTypes[declared] {
		respond.Error(c, http.StatusBadRequest, "unsupported_type",
			"only PNG, JPEG and PDF files are supported", gin.H{"mimeType": declared})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "no_file", "no file provided", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.Ingest(c.Request.Context(), userID, Upload{
		FileName: fileHeader.Filename,
		Body:     file,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFile):
			respond.Error(c, http.StatusBadRequest, "no_file", "no file provided", nil)
		case errors.Is(err, extract.ErrExtractionFailed):
			respond.Error(c, http.StatusBadRequest, "extraction_failed",
				"could not extract text from the document",
				gin.H{"hint": "ensure the image is clear and well lit, or upload a text-based PDF"})
		case errors.Is(err, ErrStorage):
			respond.Error(c, http.StatusInternalServerError, "storage_failed", "failed to store the document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process the document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, result)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	filter := ListFilter{
		DocumentType: c.Query("type"),
		Category:     c.Query("category"),
		Status:       c.Query("status"),
		Limit:        intQuery(c, "limit", 0),
		Offset:       intQuery(c, "offset", 0),
	}

	list, err := h.Svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	if list == nil {
		list = []Document{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"documents": list})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	doc, err := h.Svc.Get(c.Request.Context(), userID, documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}
	respond.JSON(c, http.StatusOK, doc)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Svc.UpdateStatus(c.Request.Context(), userID, documentID, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid status",
				gin.H{"allowed": []string{StatusActive, StatusExpired, StatusCompleted}})
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update document", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), userID, documentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) stats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	stats, err := h.Svc.Stats(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to aggregate documents", nil)
		return
	}
	respond.JSON(c, http.StatusOK, stats)
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
