package models

import (
	"fmt"
	"time"
)

// Record is the canonical output of any read: one health observation in the
// platform-agnostic shape. Which optional fields are populated follows from
// Type.Kind(). Timestamps are UTC instants; StartDate == EndDate for
// quantities the platform only exposes as an instant.
type Record struct {
	ID         string    `json:"id"`
	Type       DataType  `json:"type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	SourceName string    `json:"source_name"`
	SourceID   string    `json:"source_id"`

	// Quantity records
	Value float64 `json:"value,omitempty"`
	Unit  Unit    `json:"unit,omitempty"`

	// Blood pressure records (unit fixed to mmHg)
	Systolic  float64 `json:"systolic,omitempty"`
	Diastolic float64 `json:"diastolic,omitempty"`

	// Session records (sleep, workout); always derived from the dates.
	DurationMin float64 `json:"duration_min,omitempty"`

	// Sleep records. Zero stages is valid (unstaged sleep).
	Stages []StageInterval `json:"stages,omitempty"`

	// Workout records
	WorkoutType       WorkoutType `json:"workout_type,omitempty"`
	TotalEnergyBurned *float64    `json:"total_energy_burned,omitempty"`
	TotalDistance     *float64    `json:"total_distance,omitempty"`
	AvgHeartRate      *float64    `json:"avg_heart_rate,omitempty"`
	MaxHeartRate      *float64    `json:"max_heart_rate,omitempty"`

	// Nutrition records; native sources populate subsets.
	Nutrition *Nutrition `json:"nutrition,omitempty"`
}

// StageInterval is one sleep stage segment nested inside a sleep record.
type StageInterval struct {
	Stage       SleepStage `json:"stage"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	DurationMin float64    `json:"duration_min"`
}

// Nutrition holds independently-optional macro fields.
type Nutrition struct {
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Fiber         *float64 `json:"fiber,omitempty"`
	Sugar         *float64 `json:"sugar,omitempty"`
}

// Minutes returns the span between two instants in minutes, for derived
// duration fields.
func Minutes(start, end time.Time) float64 {
	return end.Sub(start).Minutes()
}

// WriteRequest mirrors the Record shapes minus ID and source provenance,
// which the underlying store assigns on insert. EndDate is mandatory for
// interval types; for instantaneous quantities a zero EndDate means "use the
// platform default window".
type WriteRequest struct {
	Type      DataType  `json:"type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date,omitempty"`

	Value float64 `json:"value,omitempty"`
	Unit  Unit    `json:"unit,omitempty"`

	Systolic  float64 `json:"systolic,omitempty"`
	Diastolic float64 `json:"diastolic,omitempty"`

	Stages []StageInterval `json:"stages,omitempty"`

	WorkoutType       WorkoutType `json:"workout_type,omitempty"`
	TotalEnergyBurned *float64    `json:"total_energy_burned,omitempty"`
	TotalDistance     *float64    `json:"total_distance,omitempty"`

	Nutrition *Nutrition `json:"nutrition,omitempty"`
}

// Validate checks the request against its variant's required fields. It runs
// before any native call; a failure here leaves no partial side effects.
func (r *WriteRequest) Validate() error {
	if r.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidParameters)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", ErrInvalidParameters)
	}
	if r.Type.Interval() && r.EndDate.IsZero() {
		return fmt.Errorf("%w: end_date is required for %s", ErrInvalidParameters, r.Type)
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidParameters)
	}

	switch r.Type.Kind() {
	case KindBloodPressure:
		if r.Systolic <= 0 || r.Diastolic <= 0 {
			return fmt.Errorf("%w: blood pressure requires systolic and diastolic", ErrInvalidParameters)
		}
	case KindWorkout:
		if r.WorkoutType == "" {
			return fmt.Errorf("%w: workout_type is required", ErrInvalidParameters)
		}
	case KindSleep:
		for _, st := range r.Stages {
			if st.Stage == "" || st.StartDate.IsZero() || st.EndDate.IsZero() {
				return fmt.Errorf("%w: sleep stage missing stage or dates", ErrInvalidParameters)
			}
			if st.EndDate.Before(st.StartDate) {
				return fmt.Errorf("%w: sleep stage end before start", ErrInvalidParameters)
			}
		}
	case KindNutrition:
		if r.Nutrition == nil {
			return fmt.Errorf("%w: nutrition payload is required", ErrInvalidParameters)
		}
	case KindQuantity:
		if r.Value < 0 {
			return fmt.Errorf("%w: negative value", ErrInvalidParameters)
		}
	}
	return nil
}
