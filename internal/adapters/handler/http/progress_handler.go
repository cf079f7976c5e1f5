package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type ProgressHandler struct {
	svc      *services.ProgressService
	settings SettingsResolver
}

func NewProgressHandler(svc *services.ProgressService, settings SettingsResolver) *ProgressHandler {
	return &ProgressHandler{
		svc:      svc,
		settings: settings,
	}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/:id/streak", h.Streak)
	router.GET("/habits/:id/calendar", h.Calendar)
	router.GET("/progress", h.Overview)
}

// Streak godoc
// @Summary  Current and best streak of a habit
// @Tags     progress
// @Produce  json
// @Param    id         path   string true  "Habit ID"
// @Param    X-Timezone header string false "IANA timezone"
// @Success  200 {object} domain.StreakResult
// @Security BearerAuth
// @Router   /habits/{id}/streak [get]
func (h *ProgressHandler) Streak(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	result, err := h.svc.GetStreak(c.Request.Context(), c.Param("id"), userID, settings)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Calendar godoc
// @Summary  Month grid of a habit
// @Description offset 0 is the current month, -1 the previous one. Positive offsets are clamped to 0.
// @Tags     progress
// @Produce  json
// @Param    id              path   string true  "Habit ID"
// @Param    offset          query  int    false "Months from the current one"
// @Param    X-Timezone      header string false "IANA timezone"
// @Param    Accept-Language header string false "Locale of titles and weekday symbols"
// @Success  200 {object} domain.MonthGrid
// @Security BearerAuth
// @Router   /habits/{id}/calendar [get]
func (h *ProgressHandler) Calendar(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "offset must be an integer"})
			return
		}
		offset = n
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	grid, err := h.svc.GetCalendar(c.Request.Context(), c.Param("id"), userID, offset, settings)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

// Overview godoc
// @Summary  Streak and today's status of every habit
// @Tags     progress
// @Produce  json
// @Param    X-Timezone header string false "IANA timezone"
// @Success  200 {array} domain.HabitProgress
// @Security BearerAuth
// @Router   /progress [get]
func (h *ProgressHandler) Overview(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	overview, err := h.svc.GetOverview(c.Request.Context(), userID, settings)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
