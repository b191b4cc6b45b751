package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/service"
	"github.com/hireradar/hireradar-api/internal/util"
)

type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *zerolog.Logger
}

func RegisterNotifications(e *echo.Echo, auth *service.AuthService, notifications *service.NotificationService, logger *zerolog.Logger) {
	h := &NotificationHandler{notifications: notifications, logger: logger}

	g := e.Group("/notifications", RequireAuth(auth))
	g.GET("", h.list)
	g.PUT("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c echo.Context) error {
	user, _ := CurrentUser(c)
	limit, offset := parsePagination(c, 20, 0)
	result, err := h.notifications.List(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("list notifications failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"notifications": result.Items,
		"unread_count":  result.UnreadCount,
		"pagination": util.Envelope{
			"limit":  result.Limit,
			"offset": result.Offset,
		},
	})
}

func (h *NotificationHandler) markRead(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid notification id"))
	}
	if err := h.notifications.MarkRead(c.Request().Context(), user.ID, id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("Notification not found"))
		}
		h.logger.Error().Err(err).Msg("mark notification read failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Notification marked as read"})
}
