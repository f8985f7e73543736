package bridge

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/healthbridge/internal/mapping"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
	"github.com/meltforce/healthbridge/internal/sleep"
	"github.com/meltforce/healthbridge/internal/units"
)

// Aggregate buckets are synthesized by this layer, not read from a device;
// their provenance is fixed to this sentinel and their ids are fresh per
// query.
const (
	aggregateSourceName = "healthbridge"
	aggregateSourceID   = "healthbridge:aggregated"
)

// Query describes one unified read.
type Query struct {
	Type  models.DataType `json:"type"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`

	// Limit caps per-sample reads; 0 means the service default.
	Limit int `json:"limit,omitempty"`

	// Aggregate selects interval-bucketed sums for quantity types. Sleep
	// and workout reads ignore it.
	Aggregate bool            `json:"aggregate,omitempty"`
	Interval  native.Interval `json:"interval,omitempty"`
}

func (q *Query) validate() error {
	if q.Type == "" {
		return fmt.Errorf("%w: type is required", models.ErrInvalidParameters)
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", models.ErrInvalidParameters)
	}
	if q.End.Before(q.Start) {
		return fmt.Errorf("%w: end before start", models.ErrInvalidParameters)
	}
	if q.Aggregate && q.Interval != "" && !q.Interval.Valid() {
		return fmt.Errorf("%w: interval %q", models.ErrInvalidParameters, q.Interval)
	}
	return nil
}

// ReadData executes one unified read and reshapes the native result into
// unified records. Quantity types honor Aggregate; sleep and workout types
// always route to session reconstruction.
func (s *Service) ReadData(ctx context.Context, q Query) ([]models.Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx); err != nil {
		return nil, err
	}
	nativeType, err := mapping.DataTypeToPlatform(q.Type, s.platform)
	if err != nil {
		return nil, err
	}

	switch q.Type.Kind() {
	case models.KindSleep:
		return s.readSleep(ctx, nativeType, q)
	case models.KindWorkout:
		return s.readWorkouts(ctx, nativeType, q)
	default:
		if q.Aggregate && q.Type.Kind() == models.KindQuantity {
			return s.readAggregate(ctx, nativeType, q)
		}
		return s.readSamples(ctx, nativeType, q)
	}
}

func (s *Service) limit(q Query) int {
	if q.Limit > 0 {
		return q.Limit
	}
	return s.opts.DefaultLimit
}

func (s *Service) readSamples(ctx context.Context, nativeType string, q Query) ([]models.Record, error) {
	samples, err := s.transport.QuerySamples(ctx, nativeType, q.Start, q.End, s.limit(q), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrReadFailed, err)
	}
	// Descending start order is part of the read contract; sort locally when
	// the platform cannot.
	if !s.transport.SupportsDescendingSort() {
		sort.Slice(samples, func(i, j int) bool {
			return samples[i].Start.After(samples[j].Start)
		})
	}

	records := make([]models.Record, 0, len(samples))
	for _, smp := range samples {
		rec, err := s.sampleToRecord(q.Type, smp)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Service) sampleToRecord(t models.DataType, smp native.Sample) (models.Record, error) {
	rec := models.Record{
		ID:         smp.ID,
		Type:       t,
		StartDate:  smp.Start,
		EndDate:    smp.End,
		SourceName: smp.SourceName,
		SourceID:   smp.SourceID,
	}

	switch t.Kind() {
	case models.KindBloodPressure:
		rec.Systolic = smp.Value
		rec.Diastolic = smp.SecondaryValue
	case models.KindNutrition:
		n := &models.Nutrition{}
		if smp.Value > 0 {
			v := smp.Value
			n.Calories = &v
		}
		if smp.SecondaryValue > 0 {
			v := smp.SecondaryValue
			n.Protein = &v
		}
		rec.Nutrition = n
	default:
		value, unit, err := units.Normalize(t, smp.Value, models.Unit(smp.Unit))
		if err != nil {
			return models.Record{}, err
		}
		rec.Value = value
		rec.Unit = unit
	}
	return rec, nil
}

func (s *Service) readAggregate(ctx context.Context, nativeType string, q Query) ([]models.Record, error) {
	interval := q.Interval
	if interval == "" {
		interval = native.IntervalDay
	}
	buckets, err := s.transport.QueryAggregates(ctx, nativeType, q.Start, q.End, interval)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrReadFailed, err)
	}

	records := make([]models.Record, 0, len(buckets))
	for _, b := range buckets {
		value, unit, err := units.Normalize(q.Type, b.Value, models.Unit(b.Unit))
		if err != nil {
			return nil, err
		}
		records = append(records, models.Record{
			ID:         uuid.NewString(),
			Type:       q.Type,
			StartDate:  b.Start,
			EndDate:    b.End,
			SourceName: aggregateSourceName,
			SourceID:   aggregateSourceID,
			Value:      value,
			Unit:       unit,
		})
	}
	return records, nil
}

func (s *Service) readSleep(ctx context.Context, nativeType string, q Query) ([]models.Record, error) {
	samples, err := s.transport.QuerySamples(ctx, nativeType, q.Start, q.End, s.limit(q), false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrReadFailed, err)
	}

	stages := make([]sleep.StageSample, 0, len(samples))
	for _, smp := range samples {
		stage, err := mapping.SleepStageFromPlatform(smp.Category, s.platform)
		if err != nil {
			return nil, err
		}
		stages = append(stages, sleep.StageSample{
			ID:         smp.ID,
			Stage:      stage,
			Start:      smp.Start,
			End:        smp.End,
			SourceName: smp.SourceName,
			SourceID:   smp.SourceID,
		})
	}
	return sleep.GroupSessions(stages, s.opts.SessionGap), nil
}

func (s *Service) readWorkouts(ctx context.Context, nativeType string, q Query) ([]models.Record, error) {
	samples, err := s.transport.QuerySamples(ctx, nativeType, q.Start, q.End, s.limit(q), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrReadFailed, err)
	}
	if !s.transport.SupportsDescendingSort() {
		sort.Slice(samples, func(i, j int) bool {
			return samples[i].Start.After(samples[j].Start)
		})
	}

	records := make([]models.Record, 0, len(samples))
	for _, smp := range samples {
		wt, err := mapping.WorkoutTypeFromPlatform(smp.Category, s.platform)
		if err != nil {
			return nil, err
		}
		rec := models.Record{
			ID:          smp.ID,
			Type:        models.TypeWorkout,
			StartDate:   smp.Start,
			EndDate:     smp.End,
			SourceName:  smp.SourceName,
			SourceID:    smp.SourceID,
			WorkoutType: wt,
			DurationMin: models.Minutes(smp.Start, smp.End),
		}
		if smp.Value > 0 {
			v := smp.Value
			rec.TotalEnergyBurned = &v
		}
		if smp.SecondaryValue > 0 {
			v := smp.SecondaryValue
			rec.TotalDistance = &v
		}
		records = append(records, rec)
	}
	return records, nil
}
