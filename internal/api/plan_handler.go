package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"runtracker/internal/domain"
	"runtracker/internal/service"
)

// PlanHandler serves training plan endpoints.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type PlanRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // YYYY-MM-DD
	CurrentPlan bool   `json:"currentPlan"`
}

type PlanResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	CurrentPlan bool      `json:"currentPlan"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r PlanRequest) toInput() service.PlanInput {
	problems := &service.ValidationError{}
	return service.PlanInput{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   parseDateField(problems, "startDate", r.StartDate),
		EndDate:     parseDateField(problems, "endDate", r.EndDate),
		CurrentPlan: r.CurrentPlan,
		Problems:    problems,
	}
}

// CreatePlan handles POST /plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	input := req.toInput()
	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans handles GET /plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, MapPlanToResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlan handles GET /plans/:planId
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), userID, c.Param("planId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// GetCurrentPlan handles GET /current-plan
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// UpdatePlan handles PUT /plans/:planId
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	input := req.toInput()
	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, c.Param("planId"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// SelectPlan handles POST /plans/:planId/select
func (h *PlanHandler) SelectPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.SelectCurrent(c.Request.Context(), userID, c.Param("planId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan handles DELETE /plans/:planId
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, c.Param("planId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MapPlanToResponse converts a domain TrainingPlan to its DTO.
func MapPlanToResponse(plan *domain.TrainingPlan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		StartDate:   formatDate(plan.StartDate),
		EndDate:     formatDate(plan.EndDate),
		CurrentPlan: plan.CurrentPlan,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}
