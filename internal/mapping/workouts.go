package mapping

import (
	"fmt"

	"github.com/meltforce/healthbridge/internal/models"
)

// healthKitWorkouts maps unified workout types to HKWorkoutActivityType raw
// values.
var healthKitWorkouts = map[models.WorkoutType]int64{
	models.WorkoutRunning:                    37,
	models.WorkoutWalking:                    52,
	models.WorkoutCycling:                    13,
	models.WorkoutSwimming:                   46,
	models.WorkoutHiking:                     24,
	models.WorkoutYoga:                       57,
	models.WorkoutPilates:                    66,
	models.WorkoutRowing:                     35,
	models.WorkoutElliptical:                 16,
	models.WorkoutStrengthTraining:           50,
	models.WorkoutFunctionalStrengthTraining: 20,
	models.WorkoutTennis:                     48,
	models.WorkoutBadminton:                  2,
	models.WorkoutBasketball:                 6,
	models.WorkoutSoccer:                     44,
	models.WorkoutBoxing:                     11,
	models.WorkoutDancing:                    75,
	models.WorkoutOther:                      3000,
}

// healthConnectWorkouts maps unified workout types to ExerciseSessionRecord
// exercise type constants. Health Connect has a single strength-training
// code, so both unified strength variants land on 70; the canonical inverse
// below picks plain strength_training.
var healthConnectWorkouts = map[models.WorkoutType]int64{
	models.WorkoutRunning:                    56,
	models.WorkoutWalking:                    79,
	models.WorkoutCycling:                    8,
	models.WorkoutSwimming:                   73,
	models.WorkoutHiking:                     37,
	models.WorkoutYoga:                       83,
	models.WorkoutPilates:                    48,
	models.WorkoutRowing:                     64,
	models.WorkoutElliptical:                 25,
	models.WorkoutStrengthTraining:           70,
	models.WorkoutFunctionalStrengthTraining: 70,
	models.WorkoutTennis:                     75,
	models.WorkoutBadminton:                  2,
	models.WorkoutBasketball:                 4,
	models.WorkoutSoccer:                     67,
	models.WorkoutBoxing:                     11,
	models.WorkoutDancing:                    16,
	models.WorkoutOther:                      0,
}

// canonicalWorkoutInverse fixes the unified value chosen when several
// unified workout types share one native code.
var canonicalWorkoutInverse = map[models.Platform]map[int64]models.WorkoutType{
	models.PlatformHealthConnect: {
		70: models.WorkoutStrengthTraining,
	},
}

var (
	healthKitWorkoutsInv     = invertWorkouts(models.PlatformHealthKit, healthKitWorkouts)
	healthConnectWorkoutsInv = invertWorkouts(models.PlatformHealthConnect, healthConnectWorkouts)
)

func invertWorkouts(p models.Platform, fwd map[models.WorkoutType]int64) map[int64]models.WorkoutType {
	inv := make(map[int64]models.WorkoutType, len(fwd))
	for w, code := range fwd {
		if canon, ok := canonicalWorkoutInverse[p][code]; ok {
			inv[code] = canon
			continue
		}
		inv[code] = w
	}
	return inv
}

func workoutTable(p models.Platform) (map[models.WorkoutType]int64, map[int64]models.WorkoutType, error) {
	switch p {
	case models.PlatformHealthKit:
		return healthKitWorkouts, healthKitWorkoutsInv, nil
	case models.PlatformHealthConnect:
		return healthConnectWorkouts, healthConnectWorkoutsInv, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown platform %q", models.ErrInvalidParameters, p)
}

// WorkoutTypeToPlatform resolves a unified workout type to the native code.
func WorkoutTypeToPlatform(w models.WorkoutType, p models.Platform) (int64, error) {
	fwd, _, err := workoutTable(p)
	if err != nil {
		return 0, err
	}
	code, ok := fwd[w]
	if !ok {
		return 0, fmt.Errorf("%w: workout type %s has no %s entry", models.ErrUnsupportedDataType, w, p)
	}
	return code, nil
}

// WorkoutTypeFromPlatform resolves a native code back to the unified type.
func WorkoutTypeFromPlatform(code int64, p models.Platform) (models.WorkoutType, error) {
	_, inv, err := workoutTable(p)
	if err != nil {
		return "", err
	}
	w, ok := inv[code]
	if !ok {
		return "", fmt.Errorf("%w: workout code %d unknown on %s", models.ErrUnsupportedDataType, code, p)
	}
	return w, nil
}
