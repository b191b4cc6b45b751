package http

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/service"
	"github.com/hireradar/hireradar-api/internal/util"
)

type ConnectionHandler struct {
	connections *service.ConnectionService
	logger      *zerolog.Logger
}

type ConnectionRequestBody struct {
	ReceiverID string `json:"receiver_id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
}

func (r ConnectionRequestBody) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReceiverID, validation.Required, is.UUID),
	)
}

func RegisterConnections(e *echo.Echo, auth *service.AuthService, connections *service.ConnectionService, logger *zerolog.Logger) {
	h := &ConnectionHandler{connections: connections, logger: logger}

	g := e.Group("/connections", RequireAuth(auth))
	g.POST("/request", h.request)
	g.GET("/requests", h.listPending)
	g.PUT("/requests/:id/accept", h.accept)
	g.PUT("/requests/:id/reject", h.reject)
	g.GET("", h.listAccepted)
	g.DELETE("/:id", h.remove)
}

func (h *ConnectionHandler) request(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req ConnectionRequestBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	receiverID := uuid.MustParse(req.ReceiverID)

	created, err := h.connections.Request(c.Request().Context(), user.ID, receiverID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Envelope{
		"message":    "Connection request sent",
		"connection": created,
	})
}

func (h *ConnectionHandler) listPending(c echo.Context) error {
	user, _ := CurrentUser(c)
	items, err := h.connections.ListPending(c.Request().Context(), user.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"requests": items})
}

func (h *ConnectionHandler) listAccepted(c echo.Context) error {
	user, _ := CurrentUser(c)
	items, err := h.connections.ListAccepted(c.Request().Context(), user.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"connections": items})
}

func (h *ConnectionHandler) accept(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request id"))
	}
	updated, err := h.connections.Accept(c.Request().Context(), user.ID, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Connection request accepted", "connection": updated})
}

func (h *ConnectionHandler) reject(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request id"))
	}
	updated, err := h.connections.Reject(c.Request().Context(), user.ID, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Connection request rejected", "connection": updated})
}

func (h *ConnectionHandler) remove(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid connection id"))
	}
	if err := h.connections.Remove(c.Request().Context(), user.ID, id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Connection removed"})
}

func (h *ConnectionHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrSelfConnection):
		return c.JSON(http.StatusBadRequest, util.Error("Cannot connect with yourself"))
	case errors.Is(err, service.ErrConnectionExists):
		return c.JSON(http.StatusConflict, util.Error("Connection already exists or is pending"))
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, util.Error("User not found"))
	case errors.Is(err, service.ErrConnectionNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Connection not found"))
	case errors.Is(err, service.ErrNotConnectionTarget):
		return c.JSON(http.StatusForbidden, util.Error("Only the receiver can respond to this request"))
	case errors.Is(err, service.ErrConnectionNotPending):
		return c.JSON(http.StatusConflict, util.Error("Connection request already handled"))
	default:
		h.logger.Error().Err(err).Msg("connection request failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
}
