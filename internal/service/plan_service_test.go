package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runtracker/internal/domain"
	"runtracker/internal/service"
)

func TestCreatePlanValidation(t *testing.T) {
	s := setupServices(t, nil)
	owner := s.user(t, "owner@example.com")
	ctx := context.Background()

	tests := []struct {
		name  string
		input service.PlanInput
		field string
	}{
		{
			name:  "missing name",
			input: service.PlanInput{StartDate: domain.Date(2024, 3, 1), EndDate: domain.Date(2024, 3, 2)},
			field: "name",
		},
		{
			name:  "name too long",
			input: service.PlanInput{Name: strings.Repeat("x", 65), StartDate: domain.Date(2024, 3, 1), EndDate: domain.Date(2024, 3, 2)},
			field: "name",
		},
		{
			name:  "missing start",
			input: service.PlanInput{Name: "Plan", EndDate: domain.Date(2024, 3, 2)},
			field: "startDate",
		},
		{
			name:  "end before start",
			input: service.PlanInput{Name: "Plan", StartDate: domain.Date(2024, 3, 2), EndDate: domain.Date(2024, 3, 1)},
			field: "endDate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.plans.CreatePlan(ctx, owner, tt.input)
			requireFieldError(t, err, tt.field)
		})
	}

	plan, err := s.plans.CreatePlan(ctx, owner, service.PlanInput{Name: "One day", StartDate: domain.Date(2024, 3, 1), EndDate: domain.Date(2024, 3, 1)})
	require.NoError(t, err)
	assert.False(t, plan.CurrentPlan)
}

func TestCurrentPlanIsUniquePerOwner(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	owner := s.user(t, "owner@example.com")
	other := s.user(t, "other@example.com")

	_, err := s.plans.GetCurrent(ctx, owner)
	assert.ErrorIs(t, err, service.ErrNoCurrentPlan)

	first := s.marchPlan(t, owner, true)
	foreign := s.marchPlan(t, other, true)
	second := s.marchPlan(t, owner, true)

	current, err := s.plans.GetCurrent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	plans, err := s.plans.ListPlans(ctx, owner)
	require.NoError(t, err)
	currentCount := 0
	for _, p := range plans {
		if p.CurrentPlan {
			currentCount++
		}
	}
	assert.Equal(t, 1, currentCount)

	selected, err := s.plans.SelectCurrent(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.True(t, selected.CurrentPlan)
	current, err = s.plans.GetCurrent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	// Promoting a plan never touches other owners.
	current, err = s.plans.GetCurrent(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, current.ID)

	_, err = s.plans.SelectCurrent(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	current, err = s.plans.GetCurrent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
	current, err = s.plans.GetCurrent(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, current.ID)
	_, err = s.plans.SelectCurrent(ctx, owner, "missing")
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}

func TestUpdatePlanCurrency(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	owner := s.user(t, "owner@example.com")

	first := s.marchPlan(t, owner, true)
	second := s.marchPlan(t, owner, false)

	input := service.PlanInput{
		Name:        "Summer",
		StartDate:   domain.Date(2024, time.June, 1),
		EndDate:     domain.Date(2024, time.August, 31),
		CurrentPlan: true,
	}
	updated, err := s.plans.UpdatePlan(ctx, owner, second.ID, input)
	require.NoError(t, err)
	assert.True(t, updated.CurrentPlan)
	assert.Equal(t, "Summer", updated.Name)

	reloaded, err := s.plans.GetPlan(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.CurrentPlan)

	input.CurrentPlan = false
	updated, err = s.plans.UpdatePlan(ctx, owner, second.ID, input)
	require.NoError(t, err)
	assert.False(t, updated.CurrentPlan)
	_, err = s.plans.GetCurrent(ctx, owner)
	assert.ErrorIs(t, err, service.ErrNoCurrentPlan)
}

func TestPlanOwnership(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	owner := s.user(t, "owner@example.com")
	intruder := s.user(t, "intruder@example.com")
	plan := s.marchPlan(t, owner, false)

	_, err := s.plans.GetPlan(ctx, intruder, plan.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	_, err = s.plans.UpdatePlan(ctx, intruder, plan.ID, service.PlanInput{Name: "Mine", StartDate: plan.StartDate, EndDate: plan.EndDate})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	assert.ErrorIs(t, s.plans.DeletePlan(ctx, intruder, plan.ID), service.ErrPermissionDenied)
	_, err = s.plans.GetPlan(ctx, owner, "missing")
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}

func TestDeletePlanRemovesTrainings(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	owner := s.user(t, "owner@example.com")
	plan := s.marchPlan(t, owner, true)

	training, err := s.trainings.CreateTraining(ctx, owner, plan.ID, service.TrainingInput{
		Date:         domain.Date(2024, time.March, 10),
		MainTraining: "Long run",
	})
	require.NoError(t, err)

	require.NoError(t, s.plans.DeletePlan(ctx, owner, plan.ID))
	_, err = s.store.Trainings.GetByID(ctx, training.ID)
	assert.Error(t, err)
	_, err = s.plans.GetCurrent(ctx, owner)
	assert.ErrorIs(t, err, service.ErrNoCurrentPlan)
}
