package calendar

import (
	"strings"
	"time"

	"runtracker/internal/domain"
)

// CSS classes of a day cell. Plain days use the lower-case weekday abbreviation ("mon", "tue", ...).
const (
	ClassNoDay       = "noday"
	ClassToday       = "today"
	ClassPlanStart   = "plan-start"
	ClassPlanEnd     = "plan-end"
	ClassTrainingDay = "training-day"
)

// WeekdayClass returns the base class of a plain day.
func WeekdayClass(wd time.Weekday) string {
	return strings.ToLower(wd.String()[:3])
}

// Classifier decides the category of each day of one displayed month.
type Classifier struct {
	Plan      *domain.TrainingPlan
	Today     time.Time
	Year      int
	Month     time.Month
	Trainings map[int]domain.Training
}

// Classify returns the class of day (0 means a padding cell). First match wins:
// padding, today, plan start, plan end, training day, weekday.
func (c Classifier) Classify(day int, weekday time.Weekday) string {
	if day == 0 {
		return ClassNoDay
	}
	date := domain.Date(c.Year, c.Month, day)
	switch {
	case date.Equal(domain.DateOf(c.Today)):
		return ClassToday
	case c.Plan != nil && date.Equal(domain.DateOf(c.Plan.StartDate)):
		return ClassPlanStart
	case c.Plan != nil && date.Equal(domain.DateOf(c.Plan.EndDate)):
		return ClassPlanEnd
	}
	if _, ok := c.Trainings[day]; ok {
		return ClassTrainingDay
	}
	return WeekdayClass(weekday)
}
