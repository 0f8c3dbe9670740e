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

type trainingPlanRepository struct {
	db *gorm.DB
}

// NewTrainingPlanRepository creates a gorm-backed repository.TrainingPlanRepository.
func NewTrainingPlanRepository(db *gorm.DB) repository.TrainingPlanRepository {
	return &trainingPlanRepository{db: db}
}

func (r *trainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (string, error) {
	if plan.OwnerID == "" || plan.Name == "" {
		return "", errors.New("plan requires ownerId and name")
	}
	plan.ID = uuid.NewString()
	row := planFromDomain(plan)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", translate(err)
	}
	plan.CreatedAt, plan.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return plan.ID, nil
}

func (r *trainingPlanRepository) GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	var row TrainingPlan
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	plan := row.toDomain()
	return &plan, nil
}

func (r *trainingPlanRepository) GetCurrent(ctx context.Context, ownerID string) (*domain.TrainingPlan, error) {
	var row TrainingPlan
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND current_plan = ?", ownerID, true).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	plan := row.toDomain()
	return &plan, nil
}

func (r *trainingPlanRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]domain.TrainingPlan, error) {
	var rows []TrainingPlan
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("start_date DESC").Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error listing plans: %w", err)
	}
	plans := make([]domain.TrainingPlan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, row.toDomain())
	}
	return plans, nil
}

func (r *trainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == "" {
		return errors.New("training plan ID is required for update")
	}
	plan.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&TrainingPlan{}).Where("id = ?", plan.ID).Updates(map[string]interface{}{
		"name":         plan.Name,
		"description":  plan.Description,
		"start_date":   domain.DateOf(plan.StartDate),
		"end_date":     domain.DateOf(plan.EndDate),
		"current_plan": plan.CurrentPlan,
		"updated_at":   plan.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetCurrent runs the flip-others-then-set-self sequence in one transaction.
func (r *trainingPlanRepository) SetCurrent(ctx context.Context, ownerID, planID string) error {
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var count int64
		err := txn.Model(&TrainingPlan{}).Where("id = ? AND owner_id = ?", planID, ownerID).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return repository.ErrNotFound
		}

		now := time.Now().UTC()
		err = txn.Model(&TrainingPlan{}).
			Where("owner_id = ? AND current_plan = ? AND id <> ?", ownerID, true, planID).
			Updates(map[string]interface{}{"current_plan": false, "updated_at": now}).Error
		if err != nil {
			return fmt.Errorf("error clearing current plan: %w", err)
		}

		err = txn.Model(&TrainingPlan{}).
			Where("id = ? AND owner_id = ?", planID, ownerID).
			Updates(map[string]interface{}{"current_plan": true, "updated_at": now}).Error
		if err != nil {
			return fmt.Errorf("error setting current plan: %w", err)
		}
		return nil
	})
}

func (r *trainingPlanRepository) Delete(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return errors.New("plan ID and owner ID are required for deletion")
	}
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&TrainingPlan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
