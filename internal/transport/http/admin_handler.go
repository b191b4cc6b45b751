package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/service"
	"github.com/hireradar/hireradar-api/internal/util"
)

type AdminHandler struct {
	admin  *service.AdminService
	logger *zerolog.Logger
}

type NameRequest struct {
	Name string `json:"name" example:"Golang"`
}

func (r NameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

func RegisterAdmin(e *echo.Echo, auth *service.AuthService, admin *service.AdminService, logger *zerolog.Logger) {
	h := &AdminHandler{admin: admin, logger: logger}

	g := e.Group("/admin", RequireAuth(auth), RequireAdmin(auth))
	g.GET("/stats", h.stats)
	g.GET("/users", h.listUsers)
	g.DELETE("/users/:id", h.deleteUser)
	g.GET("/jobs", h.listJobs)
	g.DELETE("/jobs/:id", h.deleteJob)

	g.GET("/skills", h.listSkills)
	g.POST("/skills", h.createSkill)
	g.PUT("/skills/:id", h.renameSkill)
	g.DELETE("/skills/:id", h.deleteSkill)

	g.GET("/categories", h.listCategories)
	g.POST("/categories", h.createCategory)
	g.PUT("/categories/:id", h.renameCategory)
	g.DELETE("/categories/:id", h.deleteCategory)
}

func (h *AdminHandler) stats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return h.internal(c, err, "load stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	users, err := h.admin.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return h.internal(c, err, "list users")
	}
	items := make([]AuthUser, 0, len(users))
	for i := range users {
		items = append(items, toAuthUser(&users[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"users": items,
		"meta": util.Envelope{
			"limit":  limit,
			"offset": offset,
			"count":  len(items),
		},
	})
}

func (h *AdminHandler) deleteUser(c echo.Context) error {
	actor, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid user id"))
	}
	if err := h.admin.DeleteUser(c.Request().Context(), actor.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		case errors.Is(err, service.ErrSelfDelete):
			return c.JSON(http.StatusBadRequest, util.Error("Administrators cannot delete their own account"))
		default:
			return h.internal(c, err, "delete user")
		}
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": fmt.Sprintf("User %s deleted successfully", id)})
}

func (h *AdminHandler) listJobs(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	result, err := h.admin.ListJobs(c.Request().Context(), limit, offset)
	if err != nil {
		return h.internal(c, err, "list jobs")
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"jobs":  result.Items,
		"total": result.Total,
	})
}

func (h *AdminHandler) deleteJob(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid job id"))
	}
	if err := h.admin.DeleteJob(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("Job not found"))
		}
		return h.internal(c, err, "delete job")
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": fmt.Sprintf("Job %d deleted successfully", id)})
}

func (h *AdminHandler) listSkills(c echo.Context) error {
	skills, err := h.admin.ListSkills(c.Request().Context())
	if err != nil {
		return h.internal(c, err, "list skills")
	}
	return c.JSON(http.StatusOK, skills)
}

func (h *AdminHandler) createSkill(c echo.Context) error {
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Missing field: name"))
	}
	skill, err := h.admin.CreateSkill(c.Request().Context(), name)
	if err != nil {
		return h.writeTaxonomyError(c, err, "Skill")
	}
	return c.JSON(http.StatusCreated, skill)
}

func (h *AdminHandler) renameSkill(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid skill id"))
	}
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Missing field: name"))
	}
	skill, err := h.admin.RenameSkill(c.Request().Context(), id, name)
	if err != nil {
		return h.writeTaxonomyError(c, err, "Skill")
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Skill updated successfully", "skill": skill})
}

func (h *AdminHandler) deleteSkill(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid skill id"))
	}
	if err := h.admin.DeleteSkill(c.Request().Context(), id); err != nil {
		return h.writeTaxonomyError(c, err, "Skill")
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": fmt.Sprintf("Skill %d deleted successfully", id)})
}

func (h *AdminHandler) listCategories(c echo.Context) error {
	categories, err := h.admin.ListCategories(c.Request().Context())
	if err != nil {
		return h.internal(c, err, "list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *AdminHandler) createCategory(c echo.Context) error {
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Missing field: name"))
	}
	category, err := h.admin.CreateCategory(c.Request().Context(), name)
	if err != nil {
		return h.writeTaxonomyError(c, err, "Category")
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *AdminHandler) renameCategory(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid category id"))
	}
	name, ok := bindName(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Missing field: name"))
	}
	category, err := h.admin.RenameCategory(c.Request().Context(), id, name)
	if err != nil {
		return h.writeTaxonomyError(c, err, "Category")
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Category updated successfully", "category": category})
}

func (h *AdminHandler) deleteCategory(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid category id"))
	}
	if err := h.admin.DeleteCategory(c.Request().Context(), id); err != nil {
		return h.writeTaxonomyError(c, err, "Category")
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": fmt.Sprintf("Category %d deleted successfully", id)})
}

func (h *AdminHandler) writeTaxonomyError(c echo.Context, err error, kind string) error {
	switch {
	case errors.Is(err, service.ErrSkillNotFound), errors.Is(err, service.ErrCategoryNotFound):
		return c.JSON(http.StatusNotFound, util.Error(kind+" not found"))
	case errors.Is(err, service.ErrNameRequired):
		return c.JSON(http.StatusBadRequest, util.Error("Missing field: name"))
	case errors.Is(err, service.ErrNameTaken):
		return c.JSON(http.StatusConflict, util.Error(kind+" already exists"))
	default:
		return h.internal(c, err, "update "+strings.ToLower(kind))
	}
}

func (h *AdminHandler) internal(c echo.Context, err error, action string) error {
	h.logger.Error().Err(err).Str("action", action).Msg("admin request failed")
	return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
}

func bindName(c echo.Context) (string, bool) {
	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return "", false
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return "", false
	}
	return req.Name, true
}

func parseIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
