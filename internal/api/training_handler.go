package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"runtracker/internal/domain"
	"runtracker/internal/service"
)

// TrainingHandler serves scheduled training endpoints.
type TrainingHandler struct {
	trainingService service.TrainingService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

type TrainingRequest struct {
	Date               string `json:"date"` // YYYY-MM-DD
	MainTraining       string `json:"mainTraining"`
	AdditionalTraining string `json:"additionalTraining"`
}

type CompleteRequest struct {
	Completed *bool `json:"completed"` // Defaults to true
}

type TrainingResponse struct {
	ID                 string `json:"id"`
	TrainingPlanID     string `json:"trainingPlanId"`
	Date               string `json:"date,omitempty"`
	MainTraining       string `json:"mainTraining"`
	AdditionalTraining string `json:"additionalTraining,omitempty"`
	Display            string `json:"display"`
	Completed          bool   `json:"completed"`
}

// toInput leaves date parse failures in Problems so the service reports them
// after its ownership check.
func (r TrainingRequest) toInput() service.TrainingInput {
	problems := &service.ValidationError{}
	return service.TrainingInput{
		Date:               parseDateField(problems, "date", r.Date),
		MainTraining:       r.MainTraining,
		AdditionalTraining: r.AdditionalTraining,
		Problems:           problems,
	}
}

// CreateTraining handles POST /plans/:planId/trainings
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	input := req.toInput()
	training, err := h.trainingService.CreateTraining(c.Request.Context(), userID, c.Param("planId"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapTrainingToResponse(training))
}

// NewTraining handles GET /plans/:planId/trainings/new?date=YYYY-MM-DD, the target of
// the calendar's create links. An unparsable date is ignored.
func (h *TrainingHandler) NewTraining(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	draft, err := h.trainingService.DraftTraining(c.Request.Context(), userID, c.Param("planId"), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(draft))
}

// ListTrainings handles GET /plans/:planId/trainings
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	trainings, err := h.trainingService.ListTrainings(c.Request.Context(), userID, c.Param("planId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := make([]TrainingResponse, 0, len(trainings))
	for i := range trainings {
		resp = append(resp, MapTrainingToResponse(&trainings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetTraining handles GET /trainings/:trainingId, the target of the calendar's edit links.
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	training, err := h.trainingService.GetTraining(c.Request.Context(), userID, c.Param("trainingId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// UpdateTraining handles PUT /trainings/:trainingId
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	input := req.toInput()
	training, err := h.trainingService.UpdateTraining(c.Request.Context(), userID, c.Param("trainingId"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// CompleteTraining handles POST /trainings/:trainingId/complete
func (h *TrainingHandler) CompleteTraining(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	completed := true
	var req CompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		if req.Completed != nil {
			completed = *req.Completed
		}
	}

	training, err := h.trainingService.MarkCompleted(c.Request.Context(), userID, c.Param("trainingId"), completed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// DeleteTraining handles DELETE /trainings/:trainingId
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.trainingService.DeleteTraining(c.Request.Context(), userID, c.Param("trainingId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MapTrainingToResponse converts a domain Training to its DTO.
func MapTrainingToResponse(training *domain.Training) TrainingResponse {
	return TrainingResponse{
		ID:                 training.ID,
		TrainingPlanID:     training.TrainingPlanID,
		Date:               formatDate(training.Date),
		MainTraining:       training.MainTraining,
		AdditionalTraining: training.AdditionalTraining,
		Display:            training.String(),
		Completed:          training.Completed,
	}
}
