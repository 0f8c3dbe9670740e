package domain

import (
	"math"
	"time"
)

// DiaryEntry is a retrospective log of a completed training. One entry per user and date.
type DiaryEntry struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	UserID              string    `bson:"userId" json:"userId"`
	TrainingID          string    `bson:"trainingId,omitempty" json:"trainingId,omitempty"` // Optional link to the scheduled training
	Date                time.Time `bson:"date" json:"date"`
	TrainingInformation string    `bson:"trainingInformation" json:"trainingInformation"`
	TrainingDistance    float64   `bson:"trainingDistance" json:"trainingDistance"` // km
	TrainingTime        int       `bson:"trainingTime" json:"trainingTime"`         // minutes
	AverageSpeed        float64   `bson:"averageSpeed" json:"averageSpeed"`         // km/h, always derived
	Notes               string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DeriveAverageSpeed recomputes AverageSpeed from distance and time.
func (e *DiaryEntry) DeriveAverageSpeed() {
	e.AverageSpeed = AverageSpeed(e.TrainingDistance, e.TrainingTime)
}

// AverageSpeed returns km/h rounded to two decimals, or 0 when minutes is not positive.
func AverageSpeed(distanceKm float64, minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return RoundCents(distanceKm * 60 / float64(minutes))
}

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
