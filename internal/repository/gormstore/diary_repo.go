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

type diaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository creates a gorm-backed repository.DiaryRepository.
func NewDiaryRepository(db *gorm.DB) repository.DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	if entry.UserID == "" || entry.Date.IsZero() {
		return "", errors.New("diary entry requires userId and date")
	}
	entry.ID = uuid.NewString()
	entry.Date = domain.DateOf(entry.Date)
	row := diaryFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", translate(err)
	}
	entry.CreatedAt, entry.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return entry.ID, nil
}

func (r *diaryRepository) GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	var row DiaryEntry
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	entry := row.toDomain()
	return &entry, nil
}

func (r *diaryRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DiaryEntry, error) {
	var row DiaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, domain.DateOf(date)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	entry := row.toDomain()
	return &entry, nil
}

func (r *diaryRepository) GetByUserID(ctx context.Context, userID string) ([]domain.DiaryEntry, error) {
	var rows []DiaryEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing diary entries: %w", err)
	}
	entries := make([]domain.DiaryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

func (r *diaryRepository) Update(ctx context.Context, entry *domain.DiaryEntry) error {
	if entry.ID == "" {
		return errors.New("diary entry ID is required for update")
	}
	entry.Date = domain.DateOf(entry.Date)
	entry.UpdatedAt = time.Now().UTC()
	row := diaryFromDomain(entry)
	result := r.db.WithContext(ctx).Model(&DiaryEntry{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]interface{}{
			"date":                 row.Date,
			"training_id":          row.TrainingID,
			"training_information": row.TrainingInformation,
			"training_distance":    row.TrainingDistance,
			"training_time":        row.TrainingTime,
			"average_speed":        row.AverageSpeed,
			"notes":                row.Notes,
			"updated_at":           row.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *diaryRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&DiaryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
