package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"runtracker/internal/domain"
)

var (
	// ErrNoPlan is returned when Build is called without a training plan.
	ErrNoPlan = errors.New("calendar requires a training plan")
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Linker produces the URLs of the training actions. The calendar never builds URLs itself.
type Linker interface {
	CreateTrainingURL(planID string, date time.Time) string
	EditTrainingURL(trainingID string, date time.Time) string
}

// TrainingLookup returns a plan's trainings in one month keyed by day of month.
type TrainingLookup interface {
	TrainingsInMonth(ctx context.Context, plan *domain.TrainingPlan, year int, month time.Month) (map[int]domain.Training, error)
}

// Cell is one day of the grid. Padding cells have Day == 0 and no link.
type Cell struct {
	Day        int    `json:"day"`
	Weekday    string `json:"weekday"`
	Date       string `json:"date,omitempty"`
	Class      string `json:"class"`
	Link       string `json:"link,omitempty"`
	TrainingID string `json:"trainingId,omitempty"`
	Training   string `json:"training,omitempty"`
	Completed  bool   `json:"completed,omitempty"`
}

// Week is always seven cells long.
type Week []Cell

// Month is a renderable month view of a plan plus its navigation.
type Month struct {
	PlanID   string   `json:"planId"`
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Title    string   `json:"title"`
	Weekdays []string `json:"weekdays"`
	Weeks    []Week   `json:"weeks"`
	Previous MonthRef `json:"previousMonth"`
	Next     MonthRef `json:"nextMonth"`
}

// Builder assembles Month views.
type Builder struct {
	lookup       TrainingLookup
	links        Linker
	firstWeekday time.Weekday
	now          func() time.Time
}

// Option configures the Builder.
type Option func(*Builder)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithFirstWeekday sets the first column of the grid. Monday by default.
func WithFirstWeekday(wd time.Weekday) Option {
	return func(b *Builder) {
		b.firstWeekday = wd
	}
}

// NewBuilder constructs a Builder.
func NewBuilder(lookup TrainingLookup, links Linker, opts ...Option) *Builder {
	b := &Builder{
		lookup:       lookup,
		links:        links,
		firstWeekday: time.Monday,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Today returns the builder's notion of the current date.
func (b *Builder) Today() time.Time {
	return domain.DateOf(b.now())
}

// Build loads the plan's trainings for the month and lays them out.
func (b *Builder) Build(ctx context.Context, plan *domain.TrainingPlan, year, month int) (*Month, error) {
	if plan == nil {
		return nil, ErrNoPlan
	}
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	trainings, err := b.lookup.TrainingsInMonth(ctx, plan, year, time.Month(month))
	if err != nil {
		return nil, fmt.Errorf("loading trainings for %d-%02d: %w", year, month, err)
	}
	return BuildMonth(plan, year, month, b.Today(), trainings, b.links, b.firstWeekday), nil
}

// BuildMonth is the pure layout step: it has no I/O and depends only on its arguments.
func BuildMonth(plan *domain.TrainingPlan, year, month int, today time.Time, trainings map[int]domain.Training, links Linker, firstWeekday time.Weekday) *Month {
	m := time.Month(month)
	classifier := Classifier{Plan: plan, Today: today, Year: year, Month: m, Trainings: trainings}
	prev, next := PreviousAndNextMonth(year, month)

	view := &Month{
		PlanID:   plan.ID,
		Year:     year,
		Month:    month,
		Title:    fmt.Sprintf("%s %d", m, year),
		Weekdays: weekdayHeader(firstWeekday),
		Previous: prev,
		Next:     next,
	}

	for _, days := range monthDays(year, m, firstWeekday) {
		week := make(Week, len(days))
		for i, d := range days {
			week[i] = formatDay(classifier, plan, d, links)
		}
		view.Weeks = append(view.Weeks, week)
	}
	return view
}

type dayRef struct {
	day     int
	weekday time.Weekday
}

// monthDays enumerates the month as full weeks starting at first; days outside the month are 0.
func monthDays(year int, month time.Month, first time.Weekday) [][]dayRef {
	lead := (int(domain.Date(year, month, 1).Weekday()) - int(first) + 7) % 7
	n := daysIn(year, month)
	weeks := make([][]dayRef, 0, 6)
	for start := 0; start < lead+n; start += 7 {
		week := make([]dayRef, 7)
		for i := range week {
			day := start + i - lead + 1
			if day < 1 || day > n {
				day = 0
			}
			week[i] = dayRef{day: day, weekday: time.Weekday((int(first) + i) % 7)}
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func formatDay(c Classifier, plan *domain.TrainingPlan, d dayRef, links Linker) Cell {
	cell := Cell{
		Day:     d.day,
		Weekday: WeekdayClass(d.weekday),
		Class:   c.Classify(d.day, d.weekday),
	}
	if d.day == 0 {
		return cell
	}
	date := domain.Date(c.Year, c.Month, d.day)
	cell.Date = date.Format(DateLayout)
	if t, ok := c.Trainings[d.day]; ok {
		cell.TrainingID = t.ID
		cell.Training = t.String()
		cell.Completed = t.Completed
		cell.Link = links.EditTrainingURL(t.ID, date)
		return cell
	}
	cell.Link = links.CreateTrainingURL(plan.ID, date)
	return cell
}

func weekdayHeader(first time.Weekday) []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(first) + i) % 7).String()[:3]
	}
	return names
}

// IndexByDay keys trainings by day of month. Later entries win on collisions,
// which the one-training-per-date rule prevents.
func IndexByDay(trainings []domain.Training) map[int]domain.Training {
	byDay := make(map[int]domain.Training, len(trainings))
	for _, t := range trainings {
		byDay[t.Date.Day()] = t
	}
	return byDay
}
