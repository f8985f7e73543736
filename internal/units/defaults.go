package units

import "github.com/meltforce/healthbridge/internal/models"

// typeDefault records the documented default unit (and, where the quantity is
// convertible, its family) for each data type. Dimensionless units like count
// or bpm have no family and never convert.
type typeDefault struct {
	unit   models.Unit
	family Family
}

var defaults = map[models.DataType]typeDefault{
	models.TypeSteps:                  {models.UnitCount, ""},
	models.TypeDistanceWalkingRunning: {models.UnitMeters, FamilyDistance},
	models.TypeFlightsClimbed:         {models.UnitCount, ""},
	models.TypeActiveEnergyBurned:     {models.UnitKilocalories, FamilyEnergy},
	models.TypeHeartRate:              {models.UnitBeatsPerMinute, ""},
	models.TypeRestingHeartRate:       {models.UnitBeatsPerMinute, ""},
	models.TypeHeartRateVariability:   {models.UnitMilliseconds, ""},
	models.TypeRespiratoryRate:        {models.UnitBreathsPerMinute, ""},
	models.TypeBloodOxygen:            {models.UnitPercent, ""},
	models.TypeBloodGlucose:           {models.UnitMilligramsPerDeciliter, FamilyGlucose},
	models.TypeBloodPressure:          {models.UnitMillimetersOfMercury, ""},
	models.TypeBodyTemperature:        {models.UnitCelsius, FamilyTemperature},
	models.TypeWeight:                 {models.UnitKilograms, FamilyMass},
	models.TypeHeight:                 {models.UnitMeters, FamilyDistance},
	models.TypeBodyFat:                {models.UnitPercent, ""},
	models.TypeWater:                  {models.UnitLiters, FamilyVolume},
	models.TypeSleep:                  {models.UnitMinutes, FamilyDuration},
	models.TypeWorkout:                {models.UnitMinutes, FamilyDuration},
	models.TypeNutrition:              {models.UnitKilocalories, FamilyEnergy},
}

// Default returns the documented default unit for a data type.
func Default(t models.DataType) (models.Unit, bool) {
	d, ok := defaults[t]
	return d.unit, ok
}

// FamilyOf returns the conversion family for a data type's scalar value, or
// false when the value is dimensionless and never converts.
func FamilyOf(t models.DataType) (Family, bool) {
	d, ok := defaults[t]
	if !ok || d.family == "" {
		return "", false
	}
	return d.family, true
}

// Normalize converts a value carried in from arbitrary native units to the
// data type's default unit. Dimensionless types pass through untouched.
func Normalize(t models.DataType, value float64, from models.Unit) (float64, models.Unit, error) {
	def, ok := Default(t)
	if !ok {
		return 0, "", models.ErrUnsupportedDataType
	}
	if from == "" || from == def {
		return value, def, nil
	}
	family, convertible := FamilyOf(t)
	if !convertible {
		return value, def, nil
	}
	v, err := Convert(value, from, def, family)
	if err != nil {
		return 0, "", err
	}
	return v, def, nil
}
