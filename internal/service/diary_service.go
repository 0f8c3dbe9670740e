package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
	"unicode/utf8"

	"runtracker/internal/calendar"
	"runtracker/internal/domain"
	"runtracker/internal/repository"
)

// Diary field limits.
const (
	MaxTrainingDistance    = 99.99
	MaxTrainingTime        = 32767
	MaxTrainingInformation = 128
)

// DiaryInput carries the editable fields of a diary entry.
type DiaryInput struct {
	Date                time.Time
	TrainingID          string
	TrainingInformation string
	TrainingDistance    float64
	TrainingTime        int
	Notes               string
	// Problems holds field errors found while decoding the request.
	Problems *ValidationError
}

type DiaryService interface {
	CreateEntry(ctx context.Context, userID string, input DiaryInput) (*domain.DiaryEntry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*domain.DiaryEntry, error)
	ListEntries(ctx context.Context, userID string) ([]domain.DiaryEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID string, input DiaryInput) (*domain.DiaryEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

type diaryService struct {
	diaryRepo repository.DiaryRepository
	trainings TrainingService
	clock     Clock
}

// NewDiaryService creates a new instance of diaryService. A nil clock uses time.Now.
func NewDiaryService(diaryRepo repository.DiaryRepository, trainings TrainingService, clock Clock) DiaryService {
	if clock == nil {
		clock = time.Now
	}
	return &diaryService{
		diaryRepo: diaryRepo,
		trainings: trainings,
		clock:     clock,
	}
}

func (s *diaryService) validateEntry(ctx context.Context, userID, selfID string, input DiaryInput) error {
	v := newValidation(input.Problems)
	switch {
	case v.Has("date"):
	case input.Date.IsZero():
		v.Add("date", "This field is required.")
	case domain.DateOf(input.Date).After(s.clock.Today()):
		v.Add("date", "Date cannot be in the future.")
	}

	switch {
	case input.TrainingDistance <= 0:
		v.Add("trainingDistance", "Distance must be greater than zero.")
	case input.TrainingDistance > MaxTrainingDistance:
		v.Add("trainingDistance", fmt.Sprintf("Ensure this value is less than or equal to %.2f.", MaxTrainingDistance))
	case !hasAtMostTwoDecimals(input.TrainingDistance):
		v.Add("trainingDistance", "Ensure that there are no more than 2 decimal places.")
	}

	switch {
	case input.TrainingTime <= 0:
		v.Add("trainingTime", "Time must be greater than zero.")
	case input.TrainingTime > MaxTrainingTime:
		v.Add("trainingTime", fmt.Sprintf("Ensure this value is less than or equal to %d.", MaxTrainingTime))
	}

	if utf8.RuneCountInString(input.TrainingInformation) > MaxTrainingInformation {
		v.Add("trainingInformation", fmt.Sprintf("Ensure this value has at most %d characters.", MaxTrainingInformation))
	}

	if !input.Date.IsZero() {
		other, err := s.diaryRepo.GetByUserAndDate(ctx, userID, input.Date)
		switch {
		case err == nil && other.ID != selfID:
			v.Add("date", "A diary entry already exists for this date.")
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	return v.OrNil()
}

func hasAtMostTwoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// linkedTraining resolves the training an entry refers to. The training must
// belong to one of the user's plans.
func (s *diaryService) linkedTraining(ctx context.Context, userID, trainingID string) (*domain.Training, error) {
	if trainingID == "" {
		return nil, nil
	}
	return s.trainings.GetTraining(ctx, userID, trainingID)
}

// CreateEntry logs a run. The average speed is always derived, never taken from input.
// A linked training is marked completed only once the entry is stored.
func (s *diaryService) CreateEntry(ctx context.Context, userID string, input DiaryInput) (*domain.DiaryEntry, error) {
	if userID == "" {
		return nil, ErrPermissionDenied
	}
	training, err := s.linkedTraining(ctx, userID, input.TrainingID)
	if err != nil {
		return nil, err
	}
	if err := s.validateEntry(ctx, userID, "", input); err != nil {
		return nil, err
	}

	entry := &domain.DiaryEntry{
		UserID:              userID,
		Date:                domain.DateOf(input.Date),
		TrainingInformation: input.TrainingInformation,
		TrainingDistance:    domain.RoundCents(input.TrainingDistance),
		TrainingTime:        input.TrainingTime,
		Notes:               input.Notes,
	}
	if training != nil {
		entry.TrainingID = training.ID
		if entry.TrainingInformation == "" {
			entry.TrainingInformation = training.String()
		}
	}
	entry.DeriveAverageSpeed()

	if _, err := s.diaryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("date", "A diary entry already exists for this date.")
		}
		return nil, fmt.Errorf("error creating diary entry: %w", err)
	}

	if training != nil {
		if _, err := s.trainings.MarkCompleted(ctx, userID, training.ID, true); err != nil {
			if delErr := s.diaryRepo.Delete(ctx, entry.ID, userID); delErr != nil {
				log.Printf("ERROR: Failed to remove diary entry %s after completing training %s failed: %v", entry.ID, training.ID, delErr)
			}
			return nil, fmt.Errorf("error completing linked training: %w", err)
		}
	}
	log.Printf("INFO: Diary entry %s logged for user %s on %s", entry.ID, userID, entry.Date.Format(calendar.DateLayout))
	return entry, nil
}

func (s *diaryService) GetEntry(ctx context.Context, userID, entryID string) (*domain.DiaryEntry, error) {
	entry, err := s.diaryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDiaryEntryNotFound
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return entry, nil
}

func (s *diaryService) ListEntries(ctx context.Context, userID string) ([]domain.DiaryEntry, error) {
	return s.diaryRepo.GetByUserID(ctx, userID)
}

// UpdateEntry rewrites the entry. Re-linking or unlinking leaves the previously
// linked training's Completed flag alone.
func (s *diaryService) UpdateEntry(ctx context.Context, userID, entryID string, input DiaryInput) (*domain.DiaryEntry, error) {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	var training *domain.Training
	if input.TrainingID != entry.TrainingID {
		if training, err = s.linkedTraining(ctx, userID, input.TrainingID); err != nil {
			return nil, err
		}
	}
	if err := s.validateEntry(ctx, userID, entry.ID, input); err != nil {
		return nil, err
	}

	previous := *entry
	entry.Date = domain.DateOf(input.Date)
	entry.TrainingID = input.TrainingID
	entry.TrainingInformation = input.TrainingInformation
	entry.TrainingDistance = domain.RoundCents(input.TrainingDistance)
	entry.TrainingTime = input.TrainingTime
	entry.Notes = input.Notes
	if training != nil && entry.TrainingInformation == "" {
		entry.TrainingInformation = training.String()
	}
	entry.DeriveAverageSpeed()

	if err := s.diaryRepo.Update(ctx, entry); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fieldError("date", "A diary entry already exists for this date.")
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrDiaryEntryNotFound
		}
		return nil, fmt.Errorf("error updating diary entry: %w", err)
	}

	if training != nil {
		if _, err := s.trainings.MarkCompleted(ctx, userID, training.ID, true); err != nil {
			if restoreErr := s.diaryRepo.Update(ctx, &previous); restoreErr != nil {
				log.Printf("ERROR: Failed to restore diary entry %s after completing training %s failed: %v", entry.ID, training.ID, restoreErr)
			}
			return nil, fmt.Errorf("error completing linked training: %w", err)
		}
	}
	return entry, nil
}

func (s *diaryService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if _, err := s.GetEntry(ctx, userID, entryID); err != nil {
		return err
	}
	if err := s.diaryRepo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDiaryEntryNotFound
		}
		return err
	}
	return nil
}
