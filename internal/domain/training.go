package domain

import (
	"time"
)

// Training is a single scheduled workout on one date within a plan.
// A plan holds at most one training per date.
type Training struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	TrainingPlanID     string    `bson:"trainingPlanId" json:"trainingPlanId"`
	Date               time.Time `bson:"date" json:"date"`
	MainTraining       string    `bson:"mainTraining" json:"mainTraining"`
	AdditionalTraining string    `bson:"additionalTraining,omitempty" json:"additionalTraining,omitempty"`
	Completed          bool      `bson:"completed" json:"completed"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// String returns the display text, e.g. "10 km easy + strides".
func (t Training) String() string {
	if t.AdditionalTraining == "" {
		return t.MainTraining
	}
	return t.MainTraining + " + " + t.AdditionalTraining
}
