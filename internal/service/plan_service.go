package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"runtracker/internal/domain"
	"runtracker/internal/repository"
)

// MaxPlanNameLength bounds TrainingPlan.Name.
const MaxPlanNameLength = 64

// PlanInput carries the editable fields of a training plan.
type PlanInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	CurrentPlan bool
	// Problems holds field errors found while decoding the request.
	Problems *ValidationError
}

type PlanService interface {
	CreatePlan(ctx context.Context, ownerID string, input PlanInput) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, ownerID, planID string) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, ownerID string) ([]domain.TrainingPlan, error)
	UpdatePlan(ctx context.Context, ownerID, planID string, input PlanInput) (*domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, ownerID, planID string) error
	// SelectCurrent makes planID the owner's only current plan.
	SelectCurrent(ctx context.Context, ownerID, planID string) (*domain.TrainingPlan, error)
	// GetCurrent returns ErrNoCurrentPlan when the owner has not selected one.
	GetCurrent(ctx context.Context, ownerID string) (*domain.TrainingPlan, error)
}

type planService struct {
	planRepo     repository.TrainingPlanRepository
	trainingRepo repository.TrainingRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.TrainingPlanRepository, trainingRepo repository.TrainingRepository) PlanService {
	return &planService{
		planRepo:     planRepo,
		trainingRepo: trainingRepo,
	}
}

func validatePlan(input PlanInput) error {
	v := newValidation(input.Problems)
	if input.Name == "" {
		v.Add("name", "This field is required.")
	} else if utf8.RuneCountInString(input.Name) > MaxPlanNameLength {
		v.Add("name", fmt.Sprintf("Ensure this value has at most %d characters.", MaxPlanNameLength))
	}
	if input.StartDate.IsZero() && !v.Has("startDate") {
		v.Add("startDate", "This field is required.")
	}
	if input.EndDate.IsZero() && !v.Has("endDate") {
		v.Add("endDate", "This field is required.")
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() &&
		domain.DateOf(input.EndDate).Before(domain.DateOf(input.StartDate)) {
		v.Add("endDate", "End date must not be before the start date.")
	}
	return v.OrNil()
}

// CreatePlan stores a new plan. A plan created as current goes through the
// promotion sequence so the owner's previous current plan is cleared.
func (s *planService) CreatePlan(ctx context.Context, ownerID string, input PlanInput) (*domain.TrainingPlan, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	if err := validatePlan(input); err != nil {
		return nil, err
	}

	plan := &domain.TrainingPlan{
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   domain.DateOf(input.StartDate),
		EndDate:     domain.DateOf(input.EndDate),
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("error creating training plan: %w", err)
	}

	if input.CurrentPlan {
		if err := s.planRepo.SetCurrent(ctx, ownerID, plan.ID); err != nil {
			return nil, fmt.Errorf("error selecting new plan as current: %w", err)
		}
		plan.CurrentPlan = true
	}
	log.Printf("INFO: Training plan %s created for user %s", plan.ID, ownerID)
	return plan, nil
}

// GetPlan loads a plan and checks that ownerID owns it.
func (s *planService) GetPlan(ctx context.Context, ownerID, planID string) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsOwnedBy(ownerID) {
		return nil, ErrPermissionDenied
	}
	return plan, nil
}

func (s *planService) ListPlans(ctx context.Context, ownerID string) ([]domain.TrainingPlan, error) {
	return s.planRepo.GetByOwnerID(ctx, ownerID)
}

// UpdatePlan rewrites the editable fields. Clearing CurrentPlan is allowed;
// setting it promotes the plan.
func (s *planService) UpdatePlan(ctx context.Context, ownerID, planID string, input PlanInput) (*domain.TrainingPlan, error) {
	existing, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if err := validatePlan(input); err != nil {
		return nil, err
	}

	wasCurrent := existing.CurrentPlan
	existing.Name = input.Name
	existing.Description = input.Description
	existing.StartDate = domain.DateOf(input.StartDate)
	existing.EndDate = domain.DateOf(input.EndDate)
	existing.CurrentPlan = input.CurrentPlan && wasCurrent

	if err := s.planRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error updating training plan: %w", err)
	}

	if input.CurrentPlan && !wasCurrent {
		if err := s.planRepo.SetCurrent(ctx, ownerID, planID); err != nil {
			return nil, fmt.Errorf("error selecting plan as current: %w", err)
		}
		existing.CurrentPlan = true
	}
	return existing, nil
}

// DeletePlan removes the plan together with its trainings.
func (s *planService) DeletePlan(ctx context.Context, ownerID, planID string) error {
	if _, err := s.GetPlan(ctx, ownerID, planID); err != nil {
		return err
	}
	if err := s.trainingRepo.DeleteByPlanID(ctx, planID); err != nil {
		return fmt.Errorf("error deleting trainings of plan %s: %w", planID, err)
	}
	if err := s.planRepo.Delete(ctx, planID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	log.Printf("INFO: Training plan %s deleted by user %s", planID, ownerID)
	return nil
}

func (s *planService) SelectCurrent(ctx context.Context, ownerID, planID string) (*domain.TrainingPlan, error) {
	plan, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.SetCurrent(ctx, ownerID, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	plan.CurrentPlan = true
	return plan, nil
}

func (s *planService) GetCurrent(ctx context.Context, ownerID string) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetCurrent(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCurrentPlan
		}
		return nil, err
	}
	return plan, nil
}
