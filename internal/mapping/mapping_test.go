package mapping

import (
	"errors"
	"testing"

	"github.com/meltforce/healthbridge/internal/models"
)

var platforms = []models.Platform{models.PlatformHealthKit, models.PlatformHealthConnect}

// TestDataTypeBijectivity verifies fromPlatform(toPlatform(t, P), P) == t for
// every data type with an entry, on both platforms.
func TestDataTypeBijectivity(t *testing.T) {
	for _, p := range platforms {
		fwd, _, err := typeTable(p)
		if err != nil {
			t.Fatal(err)
		}
		for dt := range fwd {
			id, err := DataTypeToPlatform(dt, p)
			if err != nil {
				t.Fatalf("%s/%s: to: %v", p, dt, err)
			}
			back, err := DataTypeFromPlatform(id, p)
			if err != nil {
				t.Fatalf("%s/%s: from(%s): %v", p, dt, id, err)
			}
			if back != dt {
				t.Errorf("%s: %s -> %s -> %s", p, dt, id, back)
			}
		}
	}
}

// TestWorkoutBijectivity verifies workout round trips, excluding the
// documented canonical collapse (functional strength training on Health
// Connect shares plain strength training's code).
func TestWorkoutBijectivity(t *testing.T) {
	for _, p := range platforms {
		fwd, _, err := workoutTable(p)
		if err != nil {
			t.Fatal(err)
		}
		for w := range fwd {
			if p == models.PlatformHealthConnect && w == models.WorkoutFunctionalStrengthTraining {
				continue
			}
			code, err := WorkoutTypeToPlatform(w, p)
			if err != nil {
				t.Fatalf("%s/%s: to: %v", p, w, err)
			}
			back, err := WorkoutTypeFromPlatform(code, p)
			if err != nil {
				t.Fatalf("%s/%s: from(%d): %v", p, w, code, err)
			}
			if back != w {
				t.Errorf("%s: %s -> %d -> %s", p, w, code, back)
			}
		}
	}
}

// TestWorkoutCanonicalInverse verifies the shared Health Connect strength
// code resolves to the documented canonical unified value.
func TestWorkoutCanonicalInverse(t *testing.T) {
	code, err := WorkoutTypeToPlatform(models.WorkoutFunctionalStrengthTraining, models.PlatformHealthConnect)
	if err != nil {
		t.Fatal(err)
	}
	back, err := WorkoutTypeFromPlatform(code, models.PlatformHealthConnect)
	if err != nil {
		t.Fatal(err)
	}
	if back != models.WorkoutStrengthTraining {
		t.Errorf("inverse of shared code %d = %s, want strength_training", code, back)
	}
}

func TestSleepStageBijectivity(t *testing.T) {
	for _, p := range platforms {
		fwd, _, err := stageTable(p)
		if err != nil {
			t.Fatal(err)
		}
		for s := range fwd {
			code, err := SleepStageToPlatform(s, p)
			if err != nil {
				t.Fatalf("%s/%s: to: %v", p, s, err)
			}
			back, err := SleepStageFromPlatform(code, p)
			if err != nil {
				t.Fatalf("%s/%s: from(%d): %v", p, s, code, err)
			}
			if back != s {
				t.Errorf("%s: %s -> %d -> %s", p, s, code, back)
			}
		}
	}
}

// TestLookupMiss verifies mapping misses surface ErrUnsupportedDataType and
// never default silently.
func TestLookupMiss(t *testing.T) {
	if _, err := DataTypeToPlatform("basal_body_temperature", models.PlatformHealthKit); !errors.Is(err, models.ErrUnsupportedDataType) {
		t.Errorf("unknown data type: err = %v", err)
	}
	if _, err := DataTypeFromPlatform("HKQuantityTypeIdentifierVO2Max", models.PlatformHealthKit); !errors.Is(err, models.ErrUnsupportedDataType) {
		t.Errorf("unknown native id: err = %v", err)
	}
	if _, err := SleepStageToPlatform(models.StageOutOfBed, models.PlatformHealthKit); !errors.Is(err, models.ErrUnsupportedDataType) {
		t.Errorf("out_of_bed has no HealthKit value: err = %v", err)
	}
	if _, err := WorkoutTypeFromPlatform(99999, models.PlatformHealthConnect); !errors.Is(err, models.ErrUnsupportedDataType) {
		t.Errorf("unknown workout code: err = %v", err)
	}
	if _, err := DataTypeToPlatform(models.TypeSteps, "fitbit"); !errors.Is(err, models.ErrInvalidParameters) {
		t.Errorf("unknown platform: err = %v", err)
	}
}
