package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"runtracker/internal/calendar"
	"runtracker/internal/domain"
	"runtracker/internal/repository"
)

// MaxTrainingTextLength bounds MainTraining and AdditionalTraining.
const MaxTrainingTextLength = 32

// TrainingInput carries the editable fields of a training.
type TrainingInput struct {
	Date               time.Time
	MainTraining       string
	AdditionalTraining string
	// Problems holds field errors found while decoding the request, such as an unparsable date.
	Problems *ValidationError
}

type TrainingService interface {
	CreateTraining(ctx context.Context, ownerID, planID string, input TrainingInput) (*domain.Training, error)
	// DraftTraining returns an unsaved training for the create form, dated from dateText when it parses.
	DraftTraining(ctx context.Context, ownerID, planID, dateText string) (*domain.Training, error)
	GetTraining(ctx context.Context, ownerID, trainingID string) (*domain.Training, error)
	ListTrainings(ctx context.Context, ownerID, planID string) ([]domain.Training, error)
	UpdateTraining(ctx context.Context, ownerID, trainingID string, input TrainingInput) (*domain.Training, error)
	DeleteTraining(ctx context.Context, ownerID, trainingID string) error
	MarkCompleted(ctx context.Context, ownerID, trainingID string, completed bool) (*domain.Training, error)
	// TrainingsInMonth indexes the plan's trainings of one month by day of month.
	TrainingsInMonth(ctx context.Context, plan *domain.TrainingPlan, year int, month time.Month) (map[int]domain.Training, error)
}

type trainingService struct {
	plans        PlanService
	trainingRepo repository.TrainingRepository
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(plans PlanService, trainingRepo repository.TrainingRepository) TrainingService {
	return &trainingService{
		plans:        plans,
		trainingRepo: trainingRepo,
	}
}

var _ calendar.TrainingLookup = (*trainingService)(nil)

// validateTraining checks the fields against the plan. selfID is the training
// being edited, which may keep its own date.
func (s *trainingService) validateTraining(ctx context.Context, plan *domain.TrainingPlan, selfID string, input TrainingInput) error {
	v := newValidation(input.Problems)
	if input.MainTraining == "" {
		v.Add("mainTraining", "This field is required.")
	} else if utf8.RuneCountInString(input.MainTraining) > MaxTrainingTextLength {
		v.Add("mainTraining", fmt.Sprintf("Ensure this value has at most %d characters.", MaxTrainingTextLength))
	}
	if utf8.RuneCountInString(input.AdditionalTraining) > MaxTrainingTextLength {
		v.Add("additionalTraining", fmt.Sprintf("Ensure this value has at most %d characters.", MaxTrainingTextLength))
	}

	if v.Has("date") {
		return v.OrNil()
	}
	if input.Date.IsZero() {
		v.Add("date", "This field is required.")
		return v.OrNil()
	}
	if !plan.Contains(input.Date) {
		v.Add("date", fmt.Sprintf("Date must be between %s and %s.",
			plan.StartDate.Format(calendar.DateLayout), plan.EndDate.Format(calendar.DateLayout)))
		return v.OrNil()
	}

	other, err := s.trainingRepo.GetByPlanAndDate(ctx, plan.ID, input.Date)
	switch {
	case err == nil && other.ID != selfID:
		v.Add("date", "A training is already scheduled on this date.")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return v.OrNil()
}

// CreateTraining checks plan ownership first, then the fields.
func (s *trainingService) CreateTraining(ctx context.Context, ownerID, planID string, input TrainingInput) (*domain.Training, error) {
	plan, err := s.plans.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.validateTraining(ctx, plan, "", input); err != nil {
		return nil, err
	}

	training := &domain.Training{
		TrainingPlanID:     plan.ID,
		Date:               domain.DateOf(input.Date),
		MainTraining:       input.MainTraining,
		AdditionalTraining: input.AdditionalTraining,
	}
	if _, err := s.trainingRepo.Create(ctx, training); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("date", "A training is already scheduled on this date.")
		}
		return nil, fmt.Errorf("error creating training: %w", err)
	}
	return training, nil
}

func (s *trainingService) DraftTraining(ctx context.Context, ownerID, planID, dateText string) (*domain.Training, error) {
	plan, err := s.plans.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	draft := &domain.Training{TrainingPlanID: plan.ID}
	if date, ok := calendar.ParseDate(dateText); ok {
		draft.Date = date
	}
	return draft, nil
}

// GetTraining loads a training and checks ownership through its plan.
func (s *trainingService) GetTraining(ctx context.Context, ownerID, trainingID string) (*domain.Training, error) {
	training, _, err := s.loadOwned(ctx, ownerID, trainingID)
	return training, err
}

func (s *trainingService) loadOwned(ctx context.Context, ownerID, trainingID string) (*domain.Training, *domain.TrainingPlan, error) {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTrainingNotFound
		}
		return nil, nil, err
	}
	plan, err := s.plans.GetPlan(ctx, ownerID, training.TrainingPlanID)
	if err != nil {
		return nil, nil, err
	}
	return training, plan, nil
}

// ListTrainings returns every training of the plan, ordered by date.
func (s *trainingService) ListTrainings(ctx context.Context, ownerID, planID string) ([]domain.Training, error) {
	plan, err := s.plans.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	return s.trainingRepo.GetByPlanBetween(ctx, plan.ID, domain.DateOf(plan.StartDate), domain.DateOf(plan.EndDate).AddDate(0, 0, 1))
}

func (s *trainingService) UpdateTraining(ctx context.Context, ownerID, trainingID string, input TrainingInput) (*domain.Training, error) {
	training, plan, err := s.loadOwned(ctx, ownerID, trainingID)
	if err != nil {
		return nil, err
	}
	if err := s.validateTraining(ctx, plan, training.ID, input); err != nil {
		return nil, err
	}

	training.Date = domain.DateOf(input.Date)
	training.MainTraining = input.MainTraining
	training.AdditionalTraining = input.AdditionalTraining
	if err := s.trainingRepo.Update(ctx, training); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fieldError("date", "A training is already scheduled on this date.")
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTrainingNotFound
		}
		return nil, fmt.Errorf("error updating training: %w", err)
	}
	return training, nil
}

func (s *trainingService) DeleteTraining(ctx context.Context, ownerID, trainingID string) error {
	training, _, err := s.loadOwned(ctx, ownerID, trainingID)
	if err != nil {
		return err
	}
	if err := s.trainingRepo.Delete(ctx, training.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	return nil
}

func (s *trainingService) MarkCompleted(ctx context.Context, ownerID, trainingID string, completed bool) (*domain.Training, error) {
	training, _, err := s.loadOwned(ctx, ownerID, trainingID)
	if err != nil {
		return nil, err
	}
	if err := s.trainingRepo.SetCompleted(ctx, training.ID, completed); err != nil {
		return nil, err
	}
	training.Completed = completed
	return training, nil
}

func (s *trainingService) TrainingsInMonth(ctx context.Context, plan *domain.TrainingPlan, year int, month time.Month) (map[int]domain.Training, error) {
	from := domain.Date(year, month, 1)
	trainings, err := s.trainingRepo.GetByPlanBetween(ctx, plan.ID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	return calendar.IndexByDay(trainings), nil
}
