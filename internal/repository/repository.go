package repository

import (
	"context"
	"time"

	"runtracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error) // ErrDuplicate when the email is taken
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (string, error)
	GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]domain.TrainingPlan, error)
	// GetCurrent returns ErrNotFound when the owner has no current plan.
	GetCurrent(ctx context.Context, ownerID string) (*domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	Delete(ctx context.Context, id, ownerID string) error
	// SetCurrent clears the flag on every other plan of the owner, then sets it on planID.
	// Returns ErrNotFound if planID does not exist for that owner.
	SetCurrent(ctx context.Context, ownerID, planID string) error
}

// TrainingRepository defines the interface for interacting with scheduled trainings.
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training) (string, error) // ErrDuplicate on (plan, date)
	GetByID(ctx context.Context, id string) (*domain.Training, error)
	GetByPlanAndDate(ctx context.Context, planID string, date time.Time) (*domain.Training, error)
	// GetByPlanBetween returns trainings with from <= date < to, ordered by date.
	GetByPlanBetween(ctx context.Context, planID string, from, to time.Time) ([]domain.Training, error)
	Update(ctx context.Context, training *domain.Training) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
	DeleteByPlanID(ctx context.Context, planID string) error
}

// DiaryRepository defines the interface for interacting with diary entries.
type DiaryRepository interface {
	Create(ctx context.Context, entry *domain.DiaryEntry) (string, error) // ErrDuplicate on (user, date)
	GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DiaryEntry, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.DiaryEntry, error) // Newest first
	Update(ctx context.Context, entry *domain.DiaryEntry) error
	Delete(ctx context.Context, id, userID string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users     UserRepository
	Plans     TrainingPlanRepository
	Trainings TrainingRepository
	Diary     DiaryRepository
}
