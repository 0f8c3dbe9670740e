package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"time"

	"github.com/google/uuid"

	"runtracker/internal/calendar"
	"runtracker/internal/domain"
	"runtracker/internal/storage"
)

// SnapshotURLExpiry is how long a snapshot download link stays valid.
const SnapshotURLExpiry = time.Hour

// MonthQuery selects the plan and month to render. Zero values fall back to
// the owner's current plan and the current month. Date, when it parses as
// YYYY-MM-DD, wins over Year and Month.
type MonthQuery struct {
	PlanID string
	Year   int
	Month  int
	Date   string
}

// Snapshot points at a rendered calendar stored in object storage.
type Snapshot struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type CalendarService interface {
	Month(ctx context.Context, ownerID string, q MonthQuery) (*calendar.Month, error)
	SaveSnapshot(ctx context.Context, ownerID string, q MonthQuery) (*Snapshot, error)
}

type calendarService struct {
	plans   PlanService
	builder *calendar.Builder
	files   storage.FileStorage
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(plans PlanService, builder *calendar.Builder, files storage.FileStorage) CalendarService {
	if files == nil {
		files = storage.Disabled()
	}
	return &calendarService{
		plans:   plans,
		builder: builder,
		files:   files,
	}
}

func (s *calendarService) resolvePlan(ctx context.Context, ownerID, planID string) (*domain.TrainingPlan, error) {
	if planID != "" {
		return s.plans.GetPlan(ctx, ownerID, planID)
	}
	return s.plans.GetCurrent(ctx, ownerID)
}

func (s *calendarService) resolveMonth(q MonthQuery) (year, month int, err error) {
	if date, ok := calendar.ParseDate(q.Date); ok {
		return date.Year(), int(date.Month()), nil
	}
	today := s.builder.Today()
	year, month = today.Year(), int(today.Month())
	if q.Year != 0 {
		year = q.Year
	}
	if q.Month != 0 {
		if q.Month < 1 || q.Month > 12 {
			return 0, 0, fieldError("month", "Month must be between 1 and 12.")
		}
		month = q.Month
	}
	return year, month, nil
}

func (s *calendarService) Month(ctx context.Context, ownerID string, q MonthQuery) (*calendar.Month, error) {
	plan, err := s.resolvePlan(ctx, ownerID, q.PlanID)
	if err != nil {
		return nil, err
	}
	year, month, err := s.resolveMonth(q)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(ctx, plan, year, month)
}

// SaveSnapshot renders the month as a standalone HTML page, uploads it and
// returns a presigned download link.
func (s *calendarService) SaveSnapshot(ctx context.Context, ownerID string, q MonthQuery) (*Snapshot, error) {
	m, err := s.Month(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("calendars/%s/%s.html", ownerID, uuid.NewString())
	if err := s.files.PutObject(ctx, key, "text/html; charset=utf-8", []byte(snapshotPage(m))); err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return nil, ErrSnapshotsDisabled
		}
		return nil, fmt.Errorf("error uploading calendar snapshot: %w", err)
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, SnapshotURLExpiry)
	if err != nil {
		if delErr := s.files.DeleteObject(ctx, key); delErr != nil {
			log.Printf("WARN: Failed to clean up snapshot %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("error signing calendar snapshot: %w", err)
	}

	log.Printf("INFO: Calendar snapshot %s stored for user %s", key, ownerID)
	return &Snapshot{
		ObjectKey:   key,
		DownloadURL: url,
		ExpiresAt:   time.Now().Add(SnapshotURLExpiry).UTC(),
	}, nil
}

func snapshotPage(m *calendar.Month) string {
	return "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>" +
		html.EscapeString(m.Title) + "</title></head>\n<body>\n" +
		m.HTML() + "\n</body>\n</html>\n"
}
