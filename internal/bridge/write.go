package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/healthbridge/internal/mapping"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
	"github.com/meltforce/healthbridge/internal/units"
)

// instantWindow is the default span applied when an instantaneous quantity
// write carries no end date.
const instantWindow = 60 * time.Second

// WriteData validates the request, converts it to the platform's native
// shape and units, and inserts it. The call returns only after the native
// store confirms the insert; there is no optimistic success path.
func (s *Service) WriteData(ctx context.Context, req models.WriteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.ensureAvailable(ctx); err != nil {
		return err
	}
	nativeType, err := mapping.DataTypeToPlatform(req.Type, s.platform)
	if err != nil {
		return err
	}

	switch req.Type.Kind() {
	case models.KindSleep:
		return s.writeSleep(ctx, nativeType, req)
	case models.KindWorkout:
		return s.writeWorkout(ctx, nativeType, req)
	case models.KindBloodPressure:
		return s.insert(ctx, native.Sample{
			Type:           nativeType,
			Value:          req.Systolic,
			SecondaryValue: req.Diastolic,
			Unit:           string(models.UnitMillimetersOfMercury),
			Start:          req.StartDate,
			End:            endOrDefault(req),
		})
	case models.KindNutrition:
		smp := native.Sample{
			Type:  nativeType,
			Unit:  string(models.UnitKilocalories),
			Start: req.StartDate,
			End:   endOrDefault(req),
		}
		if req.Nutrition.Calories != nil {
			smp.Value = *req.Nutrition.Calories
		}
		if req.Nutrition.Protein != nil {
			smp.SecondaryValue = *req.Nutrition.Protein
		}
		return s.insert(ctx, smp)
	default:
		value, unit, err := units.Normalize(req.Type, req.Value, req.Unit)
		if err != nil {
			return err
		}
		return s.insert(ctx, native.Sample{
			Type:  nativeType,
			Value: value,
			Unit:  string(unit),
			Start: req.StartDate,
			End:   endOrDefault(req),
		})
	}
}

func endOrDefault(req models.WriteRequest) time.Time {
	if !req.EndDate.IsZero() {
		return req.EndDate
	}
	return req.StartDate.Add(instantWindow)
}

func (s *Service) writeSleep(ctx context.Context, nativeType string, req models.WriteRequest) error {
	stages := req.Stages
	if len(stages) == 0 {
		// Unstaged sleep: one unspecified-sleep segment spanning the session.
		stages = []models.StageInterval{{
			Stage:     models.StageAsleep,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		}}
	}
	for _, st := range stages {
		code, err := mapping.SleepStageToPlatform(st.Stage, s.platform)
		if err != nil {
			return err
		}
		err = s.insert(ctx, native.Sample{
			Type:     nativeType,
			Category: code,
			Unit:     string(models.UnitMinutes),
			Start:    st.StartDate,
			End:      st.EndDate,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeWorkout(ctx context.Context, nativeType string, req models.WriteRequest) error {
	code, err := mapping.WorkoutTypeToPlatform(req.WorkoutType, s.platform)
	if err != nil {
		return err
	}
	smp := native.Sample{
		Type:     nativeType,
		Category: code,
		Unit:     string(models.UnitMinutes),
		Start:    req.StartDate,
		End:      req.EndDate,
	}
	if req.TotalEnergyBurned != nil {
		smp.Value = *req.TotalEnergyBurned
	}
	if req.TotalDistance != nil {
		smp.SecondaryValue = *req.TotalDistance
	}
	return s.insert(ctx, smp)
}

func (s *Service) insert(ctx context.Context, smp native.Sample) error {
	if err := s.transport.InsertSample(ctx, smp); err != nil {
		return fmt.Errorf("%w: %v", models.ErrWriteFailed, err)
	}
	return nil
}
