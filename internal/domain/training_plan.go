// internal/domain/training_plan.go
package domain

import (
	"time"
)

// TrainingPlan is a bounded date range owned by a user, within which trainings are scheduled.
// StartDate and EndDate are inclusive and stored as UTC midnight (see DateOf).
type TrainingPlan struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	OwnerID     string    `bson:"ownerId" json:"ownerId"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate"`
	CurrentPlan bool      `bson:"currentPlan" json:"currentPlan"` // At most one per owner
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsOwnedBy reports whether userID owns the plan.
func (p *TrainingPlan) IsOwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// Contains reports whether the civil date of t lies within [StartDate, EndDate].
func (p *TrainingPlan) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(p.StartDate)) && !d.After(DateOf(p.EndDate))
}
