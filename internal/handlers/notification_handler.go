package handlers

import (
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifications *service.NotificationService
	log           *zap.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Unread only"
// @Success 200 {object} dto.NotificationListResponse
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	unreadOnly := c.Query("unread") == "true"
	list, total, err := h.notifications.List(c.Request.Context(), unreadOnly, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.NotificationListResponse{Notifications: make([]dto.NotificationResponse, 0, len(list)), Total: total}
	for i := range list {
		resp.Notifications = append(resp.Notifications, dto.ToNotificationResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Notification id"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark every notification for the caller as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
