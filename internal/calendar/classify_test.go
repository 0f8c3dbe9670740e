package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"runtracker/internal/domain"
)

func testPlan() *domain.TrainingPlan {
	return &domain.TrainingPlan{
		ID:        "plan-1",
		OwnerID:   "user-1",
		Name:      "Spring 10k",
		StartDate: domain.Date(2024, time.March, 4),
		EndDate:   domain.Date(2024, time.March, 28),
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := Classifier{
		Plan:  testPlan(),
		Today: domain.Date(2024, time.March, 12),
		Year:  2024,
		Month: time.March,
		Trainings: map[int]domain.Training{
			4:  {ID: "t4"},
			12: {ID: "t12"},
			20: {ID: "t20"},
			28: {ID: "t28"},
		},
	}

	assert.Equal(t, ClassNoDay, c.Classify(0, time.Monday))
	assert.Equal(t, ClassToday, c.Classify(12, time.Tuesday), "today wins over training")
	assert.Equal(t, ClassPlanStart, c.Classify(4, time.Monday), "plan start wins over training")
	assert.Equal(t, ClassPlanEnd, c.Classify(28, time.Thursday), "plan end wins over training")
	assert.Equal(t, ClassTrainingDay, c.Classify(20, time.Wednesday))
	assert.Equal(t, "fri", c.Classify(15, time.Friday))
}

func TestClassifyTodayWinsOverPlanStart(t *testing.T) {
	plan := testPlan()
	c := Classifier{Plan: plan, Today: plan.StartDate, Year: 2024, Month: time.March}
	assert.Equal(t, ClassToday, c.Classify(4, time.Monday))
}

func TestClassifyPlanStartWinsOverPlanEnd(t *testing.T) {
	plan := testPlan()
	plan.EndDate = plan.StartDate
	c := Classifier{Plan: plan, Today: domain.Date(2030, time.January, 1), Year: 2024, Month: time.March}
	assert.Equal(t, ClassPlanStart, c.Classify(4, time.Monday))
}

func TestWeekdayClass(t *testing.T) {
	assert.Equal(t, "mon", WeekdayClass(time.Monday))
	assert.Equal(t, "sun", WeekdayClass(time.Sunday))
}
