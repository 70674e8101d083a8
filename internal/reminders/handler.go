package reminders

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reminders service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches reminder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reminders", h.list)
	rg.GET("/reminders/upcoming", h.upcoming)
	rg.GET("/reminders/stats", h.stats)
	rg.PATCH("/reminders/:id/complete", h.complete)
	rg.PATCH("/reminders/:id/dismiss", h.dismiss)
	rg.PATCH("/reminders/:id/snooze", h.snooze)
	rg.DELETE("/reminders/:id", h.delete)
	rg.POST("/reminders/bulk-delete", h.bulkDelete)
	rg.POST("/reminders/bulk-complete", h.bulkComplete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	filter := ListFilter{
		Status:     c.Query("status"),
		DocumentID: c.Query("documentId"),
		Limit:      intQuery(c, "limit", 0),
		Offset:     intQuery(c, "offset", 0),
	}

	list, err := h.Svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reminders", nil)
		return
	}
	if list == nil {
		list = []Reminder{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"reminders": list})
}

func (h *Handler) upcoming(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	days := intQuery(c, "days", 7)

	list, err := h.Svc.Upcoming(c.Request.Context(), userID, days, time.Now().UTC())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reminders", nil)
		return
	}
	if list == nil {
		list = []Reminder{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"reminders": list})
}

func (h *Handler) stats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	counts, err := h.Svc.Stats(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to aggregate reminders", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"byStatus": counts})
}

func (h *Handler) complete(c *gin.Context) {
	h.updateStatus(c, h.Svc.Complete)
}

func (h *Handler) dismiss(c *gin.Context) {
	h.updateStatus(c, h.Svc.Dismiss)
}

func (h *Handler) updateStatus(c *gin.Context, update func(ctx context.Context, userID, reminderID string) error) {
	userID := middleware.UserIDFromContext(c)
	reminderID := c.Param("id")

	if err := update(c.Request.Context(), userID, reminderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update reminder", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

type snoozeRequest struct {
	Days int `json:"days"`
}

func (h *Handler) snooze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reminderID := c.Param("id")

	var req snoozeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	reminder, err := h.Svc.Snooze(c.Request.Context(), userID, reminderID, req.Days)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to snooze reminder", nil)
		return
	}
	respond.JSON(c, http.StatusOK, reminder)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reminderID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), userID, reminderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete reminder", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) bulkDelete(c *gin.Context) {
	h.bulk(c, h.Svc.BulkDelete, "deleted")
}

func (h *Handler) bulkComplete(c *gin.Context) {
	h.bulk(c, h.Svc.BulkComplete, "completed")
}

func (h *Handler) bulk(c *gin.Context, op func(ctx context.Context, userID string, ids []string) (int, error), field string) {
	userID := middleware.UserIDFromContext(c)

	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "ids are required", nil)
		return
	}

	count, err := op(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "bulk operation failed", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{field: count})
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
