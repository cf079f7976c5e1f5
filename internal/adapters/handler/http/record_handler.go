package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type RecordHandler struct {
	svc      *services.RecordService
	settings SettingsResolver
}

func NewRecordHandler(svc *services.RecordService, settings SettingsResolver) *RecordHandler {
	return &RecordHandler{
		svc:      svc,
		settings: settings,
	}
}

type markDayRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	habitRecords := router.Group("/habits/:id/records")
	{
		habitRecords.GET("", h.List)
		habitRecords.PUT("/:date", h.MarkDay)
		habitRecords.POST("/today/toggle", h.ToggleToday)
	}

	router.DELETE("/records/:id", h.Delete)
}

// MarkDay godoc
// @Summary  Set the status of a habit for one day
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    id         path   string         true  "Habit ID"
// @Param    date       path   string         true  "Day (YYYY-MM-DD)"
// @Param    body       body   markDayRequest true  "success, failure or none"
// @Param    X-Timezone header string         false "IANA timezone"
// @Success  200 {object} domain.DayRecord
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /habits/{id}/records/{date} [put]
func (h *RecordHandler) MarkDay(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	date, err := time.ParseInLocation(domain.DayKeyLayout, c.Param("date"), settings.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid date format (use YYYY-MM-DD)"})
		return
	}

	var req markDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	status, err := domain.ParseHabitStatus(req.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	record, err := h.svc.MarkDay(c.Request.Context(), services.MarkDayInput{
		HabitID:  c.Param("id"),
		UserID:   userID,
		Date:     date,
		Status:   status,
		Settings: settings,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ToggleToday godoc
// @Summary  Flip today between done and not done
// @Tags     records
// @Produce  json
// @Param    id         path   string true  "Habit ID"
// @Param    X-Timezone header string false "IANA timezone"
// @Success  200 {object} domain.DayRecord
// @Security BearerAuth
// @Router   /habits/{id}/records/today/toggle [post]
func (h *RecordHandler) ToggleToday(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	record, err := h.svc.ToggleToday(c.Request.Context(), c.Param("id"), userID, settings)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// List godoc
// @Summary  List the records of a habit
// @Tags     records
// @Produce  json
// @Param    id   path  string true  "Habit ID"
// @Param    from query string false "First day (YYYY-MM-DD)"
// @Param    to   query string false "Last day (YYYY-MM-DD)"
// @Success  200 {array} domain.DayRecord
// @Security BearerAuth
// @Router   /habits/{id}/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	var from, to time.Time
	var err error

	if raw := c.Query("from"); raw != "" {
		if from, err = time.ParseInLocation(domain.DayKeyLayout, raw, settings.Location); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid from date (use YYYY-MM-DD)"})
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.ParseInLocation(domain.DayKeyLayout, raw, settings.Location); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid to date (use YYYY-MM-DD)"})
			return
		}
	}

	list, err := h.svc.ListByHabitID(c.Request.Context(), c.Param("id"), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Delete godoc
// @Summary  Delete a day record
// @Tags     records
// @Param    id path string true "Record ID"
// @Success  204
// @Security BearerAuth
// @Router   /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}

	settings, ok := h.settings.resolveOrAbort(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID, settings); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
