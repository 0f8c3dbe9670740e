package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"runtracker/internal/domain"
	"runtracker/internal/repository"
)

type trainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository creates a gorm-backed repository.TrainingRepository.
func NewTrainingRepository(db *gorm.DB) repository.TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) Create(ctx context.Context, training *domain.Training) (string, error) {
	if training.TrainingPlanID == "" || training.MainTraining == "" || training.Date.IsZero() {
		return "", errors.New("training requires trainingPlanId, date, and mainTraining")
	}
	training.ID = uuid.NewString()
	training.Date = domain.DateOf(training.Date)
	row := trainingFromDomain(training)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", translate(err)
	}
	training.CreatedAt, training.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return training.ID, nil
}

func (r *trainingRepository) GetByID(ctx context.Context, id string) (*domain.Training, error) {
	var row Training
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	training := row.toDomain()
	return &training, nil
}

func (r *trainingRepository) GetByPlanAndDate(ctx context.Context, planID string, date time.Time) (*domain.Training, error) {
	var row Training
	err := r.db.WithContext(ctx).
		Where("training_plan_id = ? AND date = ?", planID, domain.DateOf(date)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	training := row.toDomain()
	return &training, nil
}

func (r *trainingRepository) GetByPlanBetween(ctx context.Context, planID string, from, to time.Time) ([]domain.Training, error) {
	var rows []Training
	err := r.db.WithContext(ctx).
		Where("training_plan_id = ? AND date >= ? AND date < ?", planID, from, to).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error listing trainings: %w", err)
	}
	trainings := make([]domain.Training, 0, len(rows))
	for _, row := range rows {
		trainings = append(trainings, row.toDomain())
	}
	return trainings, nil
}

func (r *trainingRepository) Update(ctx context.Context, training *domain.Training) error {
	if training.ID == "" {
		return errors.New("training ID is required for update")
	}
	training.Date = domain.DateOf(training.Date)
	training.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&Training{}).Where("id = ?", training.ID).Updates(map[string]interface{}{
		"date":                training.Date,
		"main_training":       training.MainTraining,
		"additional_training": training.AdditionalTraining,
		"completed":           training.Completed,
		"updated_at":          training.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *trainingRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	result := r.db.WithContext(ctx).Model(&Training{}).Where("id = ?", id).Updates(map[string]interface{}{
		"completed":  completed,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *trainingRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Training{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *trainingRepository) DeleteByPlanID(ctx context.Context, planID string) error {
	return r.db.WithContext(ctx).Where("training_plan_id = ?", planID).Delete(&Training{}).Error
}
