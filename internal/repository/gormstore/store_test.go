package gormstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runtracker/internal/domain"
	"runtracker/internal/repository"
	"runtracker/internal/repository/gormstore"
)

func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gormstore.Open(gormstore.DriverSQLite, filepath.Join(t.TempDir(), "runtracker.db"))
	require.NoError(t, err)
	require.NoError(t, gormstore.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gormstore.NewStore(db)
}

func createUser(t *testing.T, store *repository.Store, email string) string {
	t.Helper()
	id, err := store.Users.Create(context.Background(), &domain.User{Email: email, PasswordHash: "hash", IsActive: true})
	require.NoError(t, err)
	return id
}

func createPlan(t *testing.T, store *repository.Store, ownerID, name string) *domain.TrainingPlan {
	t.Helper()
	plan := &domain.TrainingPlan{
		OwnerID:   ownerID,
		Name:      name,
		StartDate: domain.Date(2024, time.March, 4),
		EndDate:   domain.Date(2024, time.March, 28),
	}
	_, err := store.Plans.Create(context.Background(), plan)
	require.NoError(t, err)
	return plan
}

func TestUserRepository(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id := createUser(t, store, "runner@example.com")
	assert.NotEmpty(t, id)

	user, err := store.Users.GetByEmail(ctx, "runner@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.IsActive)

	_, err = store.Users.Create(ctx, &domain.User{Email: "runner@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = store.Users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	createUser(t, store, "another@example.com")
	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "another@example.com", users[0].Email)
}

func TestTrainingPlanRepositorySetCurrent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner@example.com")
	other := createUser(t, store, "other@example.com")

	first := createPlan(t, store, owner, "Spring")
	second := createPlan(t, store, owner, "Summer")
	foreign := createPlan(t, store, other, "Foreign")

	_, err := store.Plans.GetCurrent(ctx, owner)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Plans.SetCurrent(ctx, owner, first.ID))
	require.NoError(t, store.Plans.SetCurrent(ctx, other, foreign.ID))
	require.NoError(t, store.Plans.SetCurrent(ctx, owner, second.ID))

	current, err := store.Plans.GetCurrent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	reloaded, err := store.Plans.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.CurrentPlan)

	// Other owners keep their current plan.
	foreignCurrent, err := store.Plans.GetCurrent(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, foreignCurrent.ID)

	err = store.Plans.SetCurrent(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	foreignCurrent, err = store.Plans.GetCurrent(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, foreignCurrent.ID)
}

func TestTrainingPlanRepositoryUpdateAndDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner@example.com")
	plan := createPlan(t, store, owner, "Spring")

	plan.Name = "Spring 10k"
	plan.EndDate = domain.Date(2024, time.April, 14)
	require.NoError(t, store.Plans.Update(ctx, plan))

	reloaded, err := store.Plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring 10k", reloaded.Name)
	assert.Equal(t, domain.Date(2024, time.April, 14), reloaded.EndDate)
	assert.Equal(t, domain.Date(2024, time.March, 4), reloaded.StartDate)

	assert.ErrorIs(t, store.Plans.Delete(ctx, plan.ID, "someone-else"), repository.ErrNotFound)
	require.NoError(t, store.Plans.Delete(ctx, plan.ID, owner))
	_, err = store.Plans.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTrainingRepository(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner@example.com")
	plan := createPlan(t, store, owner, "Spring")

	for _, day := range []int{12, 5, 31} {
		_, err := store.Trainings.Create(ctx, &domain.Training{
			TrainingPlanID: plan.ID,
			Date:           domain.Date(2024, time.March, day),
			MainTraining:   "Easy run",
		})
		require.NoError(t, err)
	}
	_, err := store.Trainings.Create(ctx, &domain.Training{
		TrainingPlanID: plan.ID,
		Date:           domain.Date(2024, time.April, 1),
		MainTraining:   "Long run",
	})
	require.NoError(t, err)

	_, err = store.Trainings.Create(ctx, &domain.Training{
		TrainingPlanID: plan.ID,
		Date:           domain.Date(2024, time.March, 5),
		MainTraining:   "Intervals",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	march, err := store.Trainings.GetByPlanBetween(ctx, plan.ID, domain.Date(2024, time.March, 1), domain.Date(2024, time.April, 1))
	require.NoError(t, err)
	require.Len(t, march, 3)
	assert.Equal(t, 5, march[0].Date.Day())
	assert.Equal(t, 12, march[1].Date.Day())
	assert.Equal(t, 31, march[2].Date.Day())

	found, err := store.Trainings.GetByPlanAndDate(ctx, plan.ID, domain.Date(2024, time.March, 12))
	require.NoError(t, err)
	assert.Equal(t, march[1].ID, found.ID)

	require.NoError(t, store.Trainings.SetCompleted(ctx, found.ID, true))
	found, err = store.Trainings.GetByID(ctx, found.ID)
	require.NoError(t, err)
	assert.True(t, found.Completed)

	found.AdditionalTraining = "Strides"
	require.NoError(t, store.Trainings.Update(ctx, found))
	found, err = store.Trainings.GetByID(ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, "Easy run + Strides", found.String())

	require.NoError(t, store.Trainings.Delete(ctx, found.ID))
	assert.ErrorIs(t, store.Trainings.Delete(ctx, found.ID), repository.ErrNotFound)

	require.NoError(t, store.Trainings.DeleteByPlanID(ctx, plan.ID))
	rest, err := store.Trainings.GetByPlanBetween(ctx, plan.ID, domain.Date(2024, time.January, 1), domain.Date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestDiaryRepository(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "runner@example.com")

	older := &domain.DiaryEntry{UserID: user, Date: domain.Date(2024, time.March, 2), TrainingDistance: 5, TrainingTime: 30}
	older.DeriveAverageSpeed()
	_, err := store.Diary.Create(ctx, older)
	require.NoError(t, err)

	newer := &domain.DiaryEntry{UserID: user, Date: domain.Date(2024, time.March, 9), TrainingDistance: 10, TrainingTime: 55, TrainingID: "training-1"}
	newer.DeriveAverageSpeed()
	_, err = store.Diary.Create(ctx, newer)
	require.NoError(t, err)

	_, err = store.Diary.Create(ctx, &domain.DiaryEntry{UserID: user, Date: domain.Date(2024, time.March, 9), TrainingDistance: 1, TrainingTime: 5})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	entries, err := store.Diary.GetByUserID(ctx, user)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, "training-1", entries[0].TrainingID)
	assert.Equal(t, "", entries[1].TrainingID)
	assert.InDelta(t, 10.0, entries[1].AverageSpeed, 0.001)

	byDate, err := store.Diary.GetByUserAndDate(ctx, user, domain.Date(2024, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, older.ID, byDate.ID)

	older.Notes = "windy"
	require.NoError(t, store.Diary.Update(ctx, older))
	reloaded, err := store.Diary.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "windy", reloaded.Notes)

	assert.ErrorIs(t, store.Diary.Delete(ctx, older.ID, "someone-else"), repository.ErrNotFound)
	require.NoError(t, store.Diary.Delete(ctx, older.ID, user))
	_, err = store.Diary.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
