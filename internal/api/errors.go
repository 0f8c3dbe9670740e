package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"runtracker/internal/calendar"
	"runtracker/internal/service"
)

// respondServiceError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrNoCurrentPlan),
		errors.Is(err, service.ErrTrainingNotFound),
		errors.Is(err, service.ErrDiaryEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrSnapshotsDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, calendar.ErrInvalidMonth):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseDateField parses a YYYY-MM-DD request field, recording a failure in v.
// Empty input yields the zero time so the service can report the field as required.
func parseDateField(v *service.ValidationError, field, text string) time.Time {
	if text == "" {
		return time.Time{}
	}
	date, err := time.Parse(calendar.DateLayout, text)
	if err != nil {
		v.Add(field, "Enter a valid date.")
		return time.Time{}
	}
	return date
}

func bindingError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(calendar.DateLayout)
}
