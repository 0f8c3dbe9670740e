package gormstore

import (
	"time"

	"runtracker/internal/domain"
)

type User struct {
	ID           string `gorm:"size:36;primaryKey"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TrainingPlan struct {
	ID          string    `gorm:"size:36;primaryKey"`
	OwnerID     string    `gorm:"size:36;not null;index:idx_plan_owner_current"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name        string    `gorm:"size:64;not null"`
	Description string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	CurrentPlan bool      `gorm:"not null;default:false;index:idx_plan_owner_current"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Training struct {
	ID                 string        `gorm:"size:36;primaryKey"`
	TrainingPlanID     string        `gorm:"size:36;not null;uniqueIndex:idx_training_plan_date"`
	TrainingPlan       *TrainingPlan `gorm:"foreignKey:TrainingPlanID;constraint:OnDelete:CASCADE"`
	Date               time.Time     `gorm:"not null;uniqueIndex:idx_training_plan_date"`
	MainTraining       string        `gorm:"size:32;not null"`
	AdditionalTraining string        `gorm:"size:32"`
	Completed          bool          `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type DiaryEntry struct {
	ID                  string    `gorm:"size:36;primaryKey"`
	UserID              string    `gorm:"size:36;not null;uniqueIndex:idx_diary_user_date"`
	User                *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TrainingID          *string   `gorm:"size:36"`
	Date                time.Time `gorm:"not null;uniqueIndex:idx_diary_user_date"`
	TrainingInformation string    `gorm:"size:128"`
	TrainingDistance    float64   `gorm:"type:decimal(4,2);not null"`
	TrainingTime        int       `gorm:"type:smallint;not null"`
	AverageSpeed        float64   `gorm:"type:decimal(6,2);not null"`
	Notes               string    `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (DiaryEntry) TableName() string {
	return "training_diary"
}

func userFromDomain(u *domain.User) User {
	return User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (u User) toDomain() domain.User {
	return domain.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func planFromDomain(p *domain.TrainingPlan) TrainingPlan {
	return TrainingPlan{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   domain.DateOf(p.StartDate),
		EndDate:     domain.DateOf(p.EndDate),
		CurrentPlan: p.CurrentPlan,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p TrainingPlan) toDomain() domain.TrainingPlan {
	return domain.TrainingPlan{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   domain.DateOf(p.StartDate.UTC()),
		EndDate:     domain.DateOf(p.EndDate.UTC()),
		CurrentPlan: p.CurrentPlan,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func trainingFromDomain(t *domain.Training) Training {
	return Training{
		ID:                 t.ID,
		TrainingPlanID:     t.TrainingPlanID,
		Date:               domain.DateOf(t.Date),
		MainTraining:       t.MainTraining,
		AdditionalTraining: t.AdditionalTraining,
		Completed:          t.Completed,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func (t Training) toDomain() domain.Training {
	return domain.Training{
		ID:                 t.ID,
		TrainingPlanID:     t.TrainingPlanID,
		Date:               domain.DateOf(t.Date.UTC()),
		MainTraining:       t.MainTraining,
		AdditionalTraining: t.AdditionalTraining,
		Completed:          t.Completed,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func diaryFromDomain(e *domain.DiaryEntry) DiaryEntry {
	row := DiaryEntry{
		ID:                  e.ID,
		UserID:              e.UserID,
		Date:                domain.DateOf(e.Date),
		TrainingInformation: e.TrainingInformation,
		TrainingDistance:    e.TrainingDistance,
		TrainingTime:        e.TrainingTime,
		AverageSpeed:        e.AverageSpeed,
		Notes:               e.Notes,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
	if e.TrainingID != "" {
		id := e.TrainingID
		row.TrainingID = &id
	}
	return row
}

func (e DiaryEntry) toDomain() domain.DiaryEntry {
	entry := domain.DiaryEntry{
		ID:                  e.ID,
		UserID:              e.UserID,
		Date:                domain.DateOf(e.Date.UTC()),
		TrainingInformation: e.TrainingInformation,
		TrainingDistance:    e.TrainingDistance,
		TrainingTime:        e.TrainingTime,
		AverageSpeed:        e.AverageSpeed,
		Notes:               e.Notes,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
	if e.TrainingID != nil {
		entry.TrainingID = *e.TrainingID
	}
	return entry
}
