package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"runtracker/internal/domain"
)

// --- Error Definitions ---
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUserNotFound       = errors.New("user not found")
	ErrPlanNotFound       = errors.New("training plan not found")
	ErrNoCurrentPlan      = errors.New("no current training plan, create one or select an existing plan")
	ErrTrainingNotFound   = errors.New("training not found")
	ErrDiaryEntryNotFound = errors.New("diary entry not found")
	ErrSnapshotsDisabled  = errors.New("calendar snapshots are not configured")
)

// ValidationError collects field-level problems. It is recoverable: the caller
// fixes the listed fields and resubmits.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns e as an error when any field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field already failed.
func (e *ValidationError) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[field]
	return ok
}

// newValidation starts a ValidationError from problems found while decoding a
// request. They are reported alongside the service's own field checks, which
// run only after ownership has been established.
func newValidation(problems *ValidationError) *ValidationError {
	v := &ValidationError{}
	if problems == nil {
		return v
	}
	for field, msgs := range problems.Fields {
		for _, msg := range msgs {
			v.Add(field, msg)
		}
	}
	return v
}

// fieldError builds a single-field ValidationError.
func fieldError(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Clock supplies the current time. Services derive "today" from it.
type Clock func() time.Time

// Today returns the civil date of the clock's current time.
func (c Clock) Today() time.Time {
	if c == nil {
		return domain.DateOf(time.Now())
	}
	return domain.DateOf(c())
}
