package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runtracker/internal/domain"
)

type testLinker struct{}

func (testLinker) CreateTrainingURL(planID string, date time.Time) string {
	return fmt.Sprintf("/plans/%s/trainings/new?date=%s", planID, date.Format(DateLayout))
}

func (testLinker) EditTrainingURL(trainingID string, date time.Time) string {
	return fmt.Sprintf("/trainings/%s?date=%s", trainingID, date.Format(DateLayout))
}

type stubLookup struct {
	trainings []domain.Training
	err       error
	calls     int
}

func (s *stubLookup) TrainingsInMonth(_ context.Context, plan *domain.TrainingPlan, year int, month time.Month) (map[int]domain.Training, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var inMonth []domain.Training
	for _, t := range s.trainings {
		if t.TrainingPlanID == plan.ID && t.Date.Year() == year && t.Date.Month() == month {
			inMonth = append(inMonth, t)
		}
	}
	return IndexByDay(inMonth), nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMonthGridShape(t *testing.T) {
	plan := testPlan()
	cases := []struct {
		year, month int
		first       time.Weekday
		weeks       int
	}{
		{2024, 3, time.Monday, 5},  // starts on a Friday
		{2021, 2, time.Monday, 4},  // Monday the 1st, 28 days
		{2015, 2, time.Sunday, 4},  // Sunday the 1st, 28 days
		{2020, 8, time.Monday, 6},  // Saturday the 1st, 31 days
		{2024, 9, time.Sunday, 5},  // Sunday the 1st, 30 days
		{2024, 12, time.Monday, 6}, // Sunday the 1st
	}
	for _, tc := range cases {
		view := BuildMonth(plan, tc.year, tc.month, domain.Date(2000, 1, 1), nil, testLinker{}, tc.first)
		require.Len(t, view.Weeks, tc.weeks, "%d-%02d", tc.year, tc.month)

		days := 0
		expected := 1
		for _, week := range view.Weeks {
			require.Len(t, week, 7)
			for i, cell := range week {
				wantWeekday := WeekdayClass(time.Weekday((int(tc.first) + i) % 7))
				assert.Equal(t, wantWeekday, cell.Weekday)
				if cell.Day == 0 {
					assert.Empty(t, cell.Link, "padding cells never carry a link")
					assert.Equal(t, ClassNoDay, cell.Class)
					continue
				}
				assert.Equal(t, expected, cell.Day, "days are consecutive")
				date := domain.Date(tc.year, time.Month(tc.month), cell.Day)
				assert.Equal(t, WeekdayClass(date.Weekday()), cell.Weekday, "weekday alignment of %s", date.Format(DateLayout))
				expected++
				days++
			}
		}
		assert.Equal(t, daysIn(tc.year, time.Month(tc.month)), days)
	}
}

func TestMonthLinksAndTrainings(t *testing.T) {
	plan := testPlan()
	trainings := map[int]domain.Training{
		12: {ID: "t12", TrainingPlanID: plan.ID, Date: domain.Date(2024, 3, 12), MainTraining: "Intervals", AdditionalTraining: "core"},
		20: {ID: "t20", TrainingPlanID: plan.ID, Date: domain.Date(2024, 3, 20), MainTraining: "Long run", Completed: true},
	}
	view := BuildMonth(plan, 2024, 3, domain.Date(2024, 3, 12), trainings, testLinker{}, time.Monday)

	assert.Equal(t, "March 2024", view.Title)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, view.Weekdays)
	assert.Equal(t, MonthRef{Month: 2, Year: 2024}, view.Previous)
	assert.Equal(t, MonthRef{Month: 4, Year: 2024}, view.Next)

	cells := map[int]Cell{}
	for _, week := range view.Weeks {
		for _, cell := range week {
			if cell.Day != 0 {
				cells[cell.Day] = cell
			}
		}
	}

	today := cells[12]
	assert.Equal(t, ClassToday, today.Class, "today wins over training day")
	assert.Equal(t, "/trainings/t12?date=2024-03-12", today.Link)
	assert.Equal(t, "Intervals + core", today.Training)

	long := cells[20]
	assert.Equal(t, ClassTrainingDay, long.Class)
	assert.Equal(t, "/trainings/t20?date=2024-03-20", long.Link)
	assert.True(t, long.Completed)

	for day, cell := range cells {
		if cell.Class == ClassTrainingDay {
			assert.True(t, strings.HasPrefix(cell.Link, "/trainings/"), "day %d", day)
			continue
		}
		if _, scheduled := trainings[day]; !scheduled {
			assert.Equal(t, fmt.Sprintf("/plans/plan-1/trainings/new?date=2024-03-%02d", day), cell.Link)
			assert.Empty(t, cell.TrainingID)
		}
	}
	assert.Equal(t, ClassPlanStart, cells[4].Class)
	assert.Equal(t, ClassPlanEnd, cells[28].Class)
	assert.Equal(t, "fri", cells[1].Class)
}

func TestBuilderUsesLookupAndClock(t *testing.T) {
	plan := testPlan()
	lookup := &stubLookup{trainings: []domain.Training{
		{ID: "a", TrainingPlanID: plan.ID, Date: domain.Date(2024, 3, 6), MainTraining: "Easy"},
		{ID: "b", TrainingPlanID: plan.ID, Date: domain.Date(2024, 4, 6), MainTraining: "Tempo"},
		{ID: "c", TrainingPlanID: "other", Date: domain.Date(2024, 3, 7), MainTraining: "Hills"},
	}}
	b := NewBuilder(lookup, testLinker{},
		WithNow(fixedNow(time.Date(2024, 3, 6, 23, 30, 0, 0, time.UTC))),
		WithFirstWeekday(time.Sunday))

	view, err := b.Build(context.Background(), plan, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, "Sun", view.Weekdays[0])

	var scheduled []string
	for _, week := range view.Weeks {
		for _, cell := range week {
			if cell.TrainingID != "" {
				scheduled = append(scheduled, cell.TrainingID)
				assert.Equal(t, ClassToday, cell.Class)
			}
		}
	}
	assert.Equal(t, []string{"a"}, scheduled)
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder(&stubLookup{}, testLinker{})
	_, err := b.Build(context.Background(), nil, 2024, 3)
	assert.ErrorIs(t, err, ErrNoPlan)

	_, err = b.Build(context.Background(), testPlan(), 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	boom := errors.New("boom")
	b = NewBuilder(&stubLookup{err: boom}, testLinker{})
	_, err = b.Build(context.Background(), testPlan(), 2024, 3)
	assert.ErrorIs(t, err, boom)
}

func TestMonthHTML(t *testing.T) {
	plan := testPlan()
	trainings := map[int]domain.Training{
		20: {ID: "t20", Date: domain.Date(2024, 3, 20), MainTraining: "5k <race>"},
	}
	out := BuildMonth(plan, 2024, 3, domain.Date(2024, 3, 1), trainings, testLinker{}, time.Monday).HTML()

	assert.True(t, strings.HasPrefix(out, `<table border="0" cellpadding="0" cellspacing="0" class="month">`))
	assert.Contains(t, out, `<tr><th colspan="7" class="month">March 2024</th></tr>`)
	assert.Contains(t, out, `<th class="mon">Mon</th>`)
	assert.Contains(t, out, `<td class="noday">&nbsp;</td>`)
	assert.Contains(t, out, `<td class="today"><a href="/plans/plan-1/trainings/new?date=2024-03-01">1</a></td>`)
	assert.Contains(t, out, `<td class="training-day"><a href="/trainings/t20?date=2024-03-20">20<br><div class="training">5k &lt;race&gt;</div></a></td>`)
	assert.Equal(t, 5+2, strings.Count(out, "<tr>"))
}
