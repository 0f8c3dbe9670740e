package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"runtracker/internal/domain"
	"runtracker/internal/service"
)

// DiaryHandler serves training diary endpoints.
type DiaryHandler struct {
	diaryService service.DiaryService
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(diaryService service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

type DiaryRequest struct {
	Date                string  `json:"date"` // YYYY-MM-DD
	TrainingID          string  `json:"trainingId"`
	TrainingInformation string  `json:"trainingInformation"`
	TrainingDistance    float64 `json:"trainingDistance"` // km
	TrainingTime        int     `json:"trainingTime"`     // minutes
	Notes               string  `json:"notes"`
}

type DiaryResponse struct {
	ID                  string  `json:"id"`
	Date                string  `json:"date"`
	TrainingID          string  `json:"trainingId,omitempty"`
	TrainingInformation string  `json:"trainingInformation"`
	TrainingDistance    float64 `json:"trainingDistance"`
	TrainingTime        int     `json:"trainingTime"`
	AverageSpeed        float64 `json:"averageSpeed"` // km/h
	Notes               string  `json:"notes,omitempty"`
}

func (r DiaryRequest) toInput() service.DiaryInput {
	problems := &service.ValidationError{}
	return service.DiaryInput{
		Date:                parseDateField(problems, "date", r.Date),
		TrainingID:          r.TrainingID,
		TrainingInformation: r.TrainingInformation,
		TrainingDistance:    r.TrainingDistance,
		TrainingTime:        r.TrainingTime,
		Notes:               r.Notes,
		Problems:            problems,
	}
}

// CreateEntry handles POST /diary
func (h *DiaryHandler) CreateEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req DiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	input := req.toInput()
	entry, err := h.diaryService.CreateEntry(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapDiaryToResponse(entry))
}

// ListEntries handles GET /diary
func (h *DiaryHandler) ListEntries(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	entries, err := h.diaryService.ListEntries(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := make([]DiaryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, MapDiaryToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetEntry handles GET /diary/:entryId
func (h *DiaryHandler) GetEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	entry, err := h.diaryService.GetEntry(c.Request.Context(), userID, c.Param("entryId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDiaryToResponse(entry))
}

// UpdateEntry handles PUT /diary/:entryId
func (h *DiaryHandler) UpdateEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req DiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	input := req.toInput()
	entry, err := h.diaryService.UpdateEntry(c.Request.Context(), userID, c.Param("entryId"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDiaryToResponse(entry))
}

// DeleteEntry handles DELETE /diary/:entryId
func (h *DiaryHandler) DeleteEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.diaryService.DeleteEntry(c.Request.Context(), userID, c.Param("entryId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MapDiaryToResponse converts a domain DiaryEntry to its DTO.
func MapDiaryToResponse(entry *domain.DiaryEntry) DiaryResponse {
	return DiaryResponse{
		ID:                  entry.ID,
		Date:                formatDate(entry.Date),
		TrainingID:          entry.TrainingID,
		TrainingInformation: entry.TrainingInformation,
		TrainingDistance:    entry.TrainingDistance,
		TrainingTime:        entry.TrainingTime,
		AverageSpeed:        entry.AverageSpeed,
		Notes:               entry.Notes,
	}
}
