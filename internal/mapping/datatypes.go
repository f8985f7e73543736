// Package mapping holds the static bidirectional tables translating the
// unified vocabulary (data types, workout types, sleep stages) to each
// platform's native identifiers and back. Tables are built once at load time
// and never mutated; concurrent reads need no synchronization.
//
// The forward direction is bijective per platform. The inverse is
// non-injective only where one unified concept legitimately covers several
// native identifiers; those cases pick an explicitly documented canonical
// unified value (see the canonical maps below), never an arbitrary one.
package mapping

import (
	"fmt"

	"github.com/meltforce/healthbridge/internal/models"
)

// healthKitTypes maps unified data types to HealthKit type identifiers.
var healthKitTypes = map[models.DataType]string{
	models.TypeSteps:                  "HKQuantityTypeIdentifierStepCount",
	models.TypeDistanceWalkingRunning: "HKQuantityTypeIdentifierDistanceWalkingRunning",
	models.TypeFlightsClimbed:         "HKQuantityTypeIdentifierFlightsClimbed",
	models.TypeActiveEnergyBurned:     "HKQuantityTypeIdentifierActiveEnergyBurned",
	models.TypeHeartRate:              "HKQuantityTypeIdentifierHeartRate",
	models.TypeRestingHeartRate:       "HKQuantityTypeIdentifierRestingHeartRate",
	models.TypeHeartRateVariability:   "HKQuantityTypeIdentifierHeartRateVariabilitySDNN",
	models.TypeRespiratoryRate:        "HKQuantityTypeIdentifierRespiratoryRate",
	models.TypeBloodOxygen:            "HKQuantityTypeIdentifierOxygenSaturation",
	models.TypeBloodGlucose:           "HKQuantityTypeIdentifierBloodGlucose",
	models.TypeBloodPressure:          "HKCorrelationTypeIdentifierBloodPressure",
	models.TypeBodyTemperature:        "HKQuantityTypeIdentifierBodyTemperature",
	models.TypeWeight:                 "HKQuantityTypeIdentifierBodyMass",
	models.TypeHeight:                 "HKQuantityTypeIdentifierHeight",
	models.TypeBodyFat:                "HKQuantityTypeIdentifierBodyFatPercentage",
	models.TypeWater:                  "HKQuantityTypeIdentifierDietaryWater",
	models.TypeSleep:                  "HKCategoryTypeIdentifierSleepAnalysis",
	models.TypeWorkout:                "HKWorkoutTypeIdentifier",
	models.TypeNutrition:              "HKCorrelationTypeIdentifierFood",
}

// healthConnectTypes maps unified data types to Health Connect record classes.
var healthConnectTypes = map[models.DataType]string{
	models.TypeSteps:                  "StepsRecord",
	models.TypeDistanceWalkingRunning: "DistanceRecord",
	models.TypeFlightsClimbed:         "FloorsClimbedRecord",
	models.TypeActiveEnergyBurned:     "ActiveCaloriesBurnedRecord",
	models.TypeHeartRate:              "HeartRateRecord",
	models.TypeRestingHeartRate:       "RestingHeartRateRecord",
	models.TypeHeartRateVariability:   "HeartRateVariabilityRmssdRecord",
	models.TypeRespiratoryRate:        "RespiratoryRateRecord",
	models.TypeBloodOxygen:            "OxygenSaturationRecord",
	models.TypeBloodGlucose:           "BloodGlucoseRecord",
	models.TypeBloodPressure:          "BloodPressureRecord",
	models.TypeBodyTemperature:        "BodyTemperatureRecord",
	models.TypeWeight:                 "WeightRecord",
	models.TypeHeight:                 "HeightRecord",
	models.TypeBodyFat:                "BodyFatRecord",
	models.TypeWater:                  "HydrationRecord",
	models.TypeSleep:                  "SleepSessionRecord",
	models.TypeWorkout:                "ExerciseSessionRecord",
	models.TypeNutrition:              "NutritionRecord",
}

var (
	healthKitTypesInv     = invertTypes(healthKitTypes)
	healthConnectTypesInv = invertTypes(healthConnectTypes)
)

func invertTypes(fwd map[models.DataType]string) map[string]models.DataType {
	inv := make(map[string]models.DataType, len(fwd))
	for t, id := range fwd {
		inv[id] = t
	}
	return inv
}

func typeTable(p models.Platform) (map[models.DataType]string, map[string]models.DataType, error) {
	switch p {
	case models.PlatformHealthKit:
		return healthKitTypes, healthKitTypesInv, nil
	case models.PlatformHealthConnect:
		return healthConnectTypes, healthConnectTypesInv, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown platform %q", models.ErrInvalidParameters, p)
}

// DataTypeToPlatform resolves a unified data type to its native identifier.
func DataTypeToPlatform(t models.DataType, p models.Platform) (string, error) {
	fwd, _, err := typeTable(p)
	if err != nil {
		return "", err
	}
	id, ok := fwd[t]
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s entry", models.ErrUnsupportedDataType, t, p)
	}
	return id, nil
}

// DataTypeFromPlatform resolves a native identifier back to the unified type.
func DataTypeFromPlatform(id string, p models.Platform) (models.DataType, error) {
	_, inv, err := typeTable(p)
	if err != nil {
		return "", err
	}
	t, ok := inv[id]
	if !ok {
		return "", fmt.Errorf("%w: native identifier %q unknown on %s", models.ErrUnsupportedDataType, id, p)
	}
	return t, nil
}
