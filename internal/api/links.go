package api

import (
	"net/url"
	"time"

	"runtracker/internal/calendar"
)

// RouteLinker builds calendar links that point at this package's training routes.
type RouteLinker struct {
	base string
}

// NewRouteLinker returns a linker rooted at base, e.g. "/api/v1".
func NewRouteLinker(base string) *RouteLinker {
	return &RouteLinker{base: base}
}

var _ calendar.Linker = (*RouteLinker)(nil)

// CreateTrainingURL points at the new-training form of the plan, prefilled with date.
func (l *RouteLinker) CreateTrainingURL(planID string, date time.Time) string {
	return l.base + "/plans/" + url.PathEscape(planID) + "/trainings/new?date=" + date.Format(calendar.DateLayout)
}

// EditTrainingURL points at the training itself.
func (l *RouteLinker) EditTrainingURL(trainingID string, date time.Time) string {
	return l.base + "/trainings/" + url.PathEscape(trainingID) + "?date=" + date.Format(calendar.DateLayout)
}
