package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"runtracker/internal/calendar"
	"runtracker/internal/domain"
	"runtracker/internal/repository"
	"runtracker/internal/repository/gormstore"
	"runtracker/internal/service"
	"runtracker/internal/storage"
)

// 2024-03-15 is a Friday.
var testNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

type testLinker struct{}

func (testLinker) CreateTrainingURL(planID string, date time.Time) string {
	return fmt.Sprintf("/plans/%s/trainings/new?date=%s", planID, date.Format(calendar.DateLayout))
}

func (testLinker) EditTrainingURL(trainingID string, date time.Time) string {
	return fmt.Sprintf("/trainings/%s?date=%s", trainingID, date.Format(calendar.DateLayout))
}

type services struct {
	store     *repository.Store
	auth      service.AuthService
	plans     service.PlanService
	trainings service.TrainingService
	diary     service.DiaryService
	calendar  service.CalendarService
}

func setupServices(t *testing.T, files storage.FileStorage) *services {
	t.Helper()
	db, err := gormstore.Open(gormstore.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, gormstore.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := gormstore.NewStore(db)
	clock := service.Clock(func() time.Time { return testNow })
	plans := service.NewPlanService(store.Plans, store.Trainings)
	trainings := service.NewTrainingService(plans, store.Trainings)
	builder := calendar.NewBuilder(trainings, testLinker{}, calendar.WithNow(clock))

	return &services{
		store:     store,
		auth:      service.NewAuthService(store.Users, "test-secret", time.Hour),
		plans:     plans,
		trainings: trainings,
		diary:     service.NewDiaryService(store.Diary, trainings, clock),
		calendar:  service.NewCalendarService(plans, builder, files),
	}
}

func (s *services) user(t *testing.T, email string) string {
	t.Helper()
	user, err := s.auth.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return user.ID
}

func (s *services) marchPlan(t *testing.T, ownerID string, current bool) *domain.TrainingPlan {
	t.Helper()
	plan, err := s.plans.CreatePlan(context.Background(), ownerID, service.PlanInput{
		Name:        "Spring 10k",
		StartDate:   domain.Date(2024, time.March, 4),
		EndDate:     domain.Date(2024, time.March, 28),
		CurrentPlan: current,
	})
	require.NoError(t, err)
	return plan
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, field, "fields: %v", verr.Fields)
}
