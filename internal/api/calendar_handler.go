package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"runtracker/internal/service"
)

// CalendarHandler serves the month grid of a training plan.
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// monthQuery reads ?plan=&year=&month=&date=. Non-numeric year or month are ignored
// the same way an unparsable date is.
func monthQuery(c *gin.Context) service.MonthQuery {
	q := service.MonthQuery{
		PlanID: c.Query("plan"),
		Date:   c.Query("date"),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		q.Year = year
	}
	if month, err := strconv.Atoi(c.Query("month")); err == nil {
		q.Month = month
	}
	return q
}

// GetMonth handles GET /calendar
func (h *CalendarHandler) GetMonth(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, err := h.calendarService.Month(c.Request.Context(), userID, monthQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetMonthHTML handles GET /calendar.html and returns the table fragment.
func (h *CalendarHandler) GetMonthHTML(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, err := h.calendarService.Month(c.Request.Context(), userID, monthQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(m.HTML()))
}

// CreateSnapshot handles POST /calendar/snapshots
func (h *CalendarHandler) CreateSnapshot(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	snap, err := h.calendarService.SaveSnapshot(c.Request.Context(), userID, monthQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}
