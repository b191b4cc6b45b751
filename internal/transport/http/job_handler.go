package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/service"
	"github.com/hireradar/hireradar-api/internal/util"
)

type JobHandler struct {
	jobs   *service.JobService
	saved  *service.SavedJobService
	logger *zerolog.Logger
}

type JobRequest struct {
	Title       string  `json:"title" example:"Backend Engineer"`
	Company     string  `json:"company" example:"Acme"`
	Location    *string `json:"location,omitempty" example:"Berlin"`
	EmpType     *string `json:"emp_type,omitempty" example:"full-time"`
	SalaryRange *string `json:"salary_range,omitempty" example:"60k-80k"`
	SalaryMin   *int64  `json:"salary_min,omitempty" example:"60000"`
	Description *string `json:"description,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty" example:"2"`
	SkillIDs    []int64 `json:"skill_ids,omitempty"`
}

func (r JobRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Company, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.SalaryMin, validation.Min(int64(0))),
		validation.Field(&r.CategoryID, validation.Min(int64(1))),
		validation.Field(&r.SkillIDs, validation.Length(0, 50)),
	)
}

func (r JobRequest) toInput() domain.JobInput {
	return domain.JobInput{
		Title:       strings.TrimSpace(r.Title),
		Company:     strings.TrimSpace(r.Company),
		Location:    r.Location,
		EmpType:     r.EmpType,
		SalaryRange: r.SalaryRange,
		SalaryMin:   r.SalaryMin,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		SkillIDs:    r.SkillIDs,
	}
}

func RegisterJobs(e *echo.Echo, auth *service.AuthService, jobs *service.JobService, saved *service.SavedJobService, logger *zerolog.Logger) {
	h := &JobHandler{jobs: jobs, saved: saved, logger: logger}

	e.GET("/jobs", h.searchJobs)
	e.GET("/jobs/:id", h.getJob)

	employer := e.Group("/jobs", RequireAuth(auth), RequireRole(domain.RoleEmployer))
	employer.POST("", h.createJob)
	employer.PUT("/:id", h.updateJob)
	employer.DELETE("/:id", h.deleteJob)

	requireAuth := RequireAuth(auth)
	e.POST("/jobs/:id/save", h.saveJob, requireAuth)
	e.DELETE("/jobs/:id/save", h.unsaveJob, requireAuth)
	e.GET("/users/me/saved-jobs", h.listSavedJobs, requireAuth)
}

// searchJobs godoc
// @Summary Search job postings
// @Tags jobs
// @Produce json
// @Param search query string false "Matches title, company or description"
// @Param location query string false "Location substring"
// @Param salary_min query int false "Minimum salary"
// @Param skill query string false "Skill name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /jobs [get]
func (h *JobHandler) searchJobs(c echo.Context) error {
	query, err := parseJobQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	page, err := h.jobs.Search(c.Request().Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Msg("search jobs failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"jobs": page.Items,
		"pagination": util.Envelope{
			"page":  page.Page,
			"limit": page.Limit,
			"total": page.Total,
		},
	})
}

func parseJobQuery(c echo.Context) (service.JobQuery, error) {
	q := service.JobQuery{
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Location: strings.TrimSpace(c.QueryParam("location")),
		Skill:    strings.TrimSpace(c.QueryParam("skill")),
	}
	if v := strings.TrimSpace(c.QueryParam("salary_min")); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 0 {
			return q, errors.New("salary_min must be a non-negative number")
		}
		q.SalaryMin = &parsed
	}
	if v := strings.TrimSpace(c.QueryParam("page")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			q.Page = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			q.Limit = parsed
		}
	}
	return q, nil
}

func (h *JobHandler) getJob(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid job id"))
	}
	job, err := h.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeJobError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) createJob(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req JobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	job, err := h.jobs.Create(c.Request().Context(), user, req.toInput())
	if err != nil {
		return h.writeJobError(c, err)
	}
	return c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) updateJob(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid job id"))
	}
	var req JobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	job, err := h.jobs.Update(c.Request().Context(), user.ID, id, req.toInput())
	if err != nil {
		return h.writeJobError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) deleteJob(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid job id"))
	}
	if err := h.jobs.Delete(c.Request().Context(), user.ID, id); err != nil {
		return h.writeJobError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Job deleted successfully"})
}

func (h *JobHandler) saveJob(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid job id"))
	}
	saved, err := h.saved.Save(c.Request().Context(), user.ID, id)
	if err != nil {
		return h.writeJobError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Envelope{
		"saved_job": util.Envelope{
			"id":       saved.ID,
			"job_id":   saved.JobID,
			"saved_at": saved.CreatedAt.UTC().Format(time.RFC3339),
		},
		"message": "Job saved",
	})
}

func (h *JobHandler) unsaveJob(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid job id"))
	}
	if err := h.saved.Remove(c.Request().Context(), user.ID, id); err != nil {
		if errors.Is(err, service.ErrSavedJobNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("Job is not in your saved jobs"))
		}
		return h.writeJobError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"job_id": id, "message": "Job removed from saved jobs"})
}

func (h *JobHandler) listSavedJobs(c echo.Context) error {
	user, _ := CurrentUser(c)
	limit, offset := parsePagination(c, 20, 0)
	result, err := h.saved.List(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("list saved jobs failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"items": result.Items,
		"pagination": util.Envelope{
			"limit":  result.Limit,
			"offset": result.Offset,
			"total":  result.Total,
			"count":  len(result.Items),
		},
	})
}

func (h *JobHandler) writeJobError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Job not found"))
	case errors.Is(err, service.ErrNotJobOwner):
		return c.JSON(http.StatusForbidden, util.Error("You can only modify your own job postings"))
	case errors.Is(err, service.ErrEmployerOnly):
		return c.JSON(http.StatusForbidden, util.Error("Only employers can post jobs"))
	case errors.Is(err, service.ErrInvalidReference):
		return c.JSON(http.StatusBadRequest, util.Error("Unknown category or skill"))
	default:
		h.logger.Error().Err(err).Msg("job request failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
}
