package models

// Platform identifies which native health store backs the bridge.
type Platform string

const (
	PlatformHealthKit     Platform = "healthkit"
	PlatformHealthConnect Platform = "healthconnect"
)

// Valid reports whether p names a supported platform.
func (p Platform) Valid() bool {
	return p == PlatformHealthKit || p == PlatformHealthConnect
}

// DataType identifies a measurable health quantity or composite. The set is
// closed; every member resolves to a native identifier per platform through
// the mapping tables.
type DataType string

const (
	TypeSteps                DataType = "steps"
	TypeDistanceWalkingRunning DataType = "distance_walking_running"
	TypeFlightsClimbed       DataType = "flights_climbed"
	TypeActiveEnergyBurned   DataType = "active_energy_burned"
	TypeHeartRate            DataType = "heart_rate"
	TypeRestingHeartRate     DataType = "resting_heart_rate"
	TypeHeartRateVariability DataType = "heart_rate_variability"
	TypeRespiratoryRate      DataType = "respiratory_rate"
	TypeBloodOxygen          DataType = "blood_oxygen"
	TypeBloodGlucose         DataType = "blood_glucose"
	TypeBloodPressure        DataType = "blood_pressure"
	TypeBodyTemperature      DataType = "body_temperature"
	TypeWeight               DataType = "weight"
	TypeHeight               DataType = "height"
	TypeBodyFat              DataType = "body_fat"
	TypeWater                DataType = "water"
	TypeSleep                DataType = "sleep"
	TypeWorkout              DataType = "workout"
	TypeNutrition            DataType = "nutrition"
)

// Kind groups data types by the record shape they produce.
type Kind int

const (
	KindQuantity Kind = iota
	KindBloodPressure
	KindSleep
	KindWorkout
	KindNutrition
)

// Kind returns the record shape for this data type.
func (t DataType) Kind() Kind {
	switch t {
	case TypeBloodPressure:
		return KindBloodPressure
	case TypeSleep:
		return KindSleep
	case TypeWorkout:
		return KindWorkout
	case TypeNutrition:
		return KindNutrition
	default:
		return KindQuantity
	}
}

// Interval reports whether the type describes a time-spanning session
// (sleep, workout) rather than an instantaneous or short-window quantity.
// Interval types require an explicit end date on writes.
func (t DataType) Interval() bool {
	return t == TypeSleep || t == TypeWorkout
}

// WorkoutType identifies a workout activity in the unified vocabulary.
type WorkoutType string

const (
	WorkoutRunning                    WorkoutType = "running"
	WorkoutWalking                    WorkoutType = "walking"
	WorkoutCycling                    WorkoutType = "cycling"
	WorkoutSwimming                   WorkoutType = "swimming"
	WorkoutHiking                     WorkoutType = "hiking"
	WorkoutYoga                       WorkoutType = "yoga"
	WorkoutPilates                    WorkoutType = "pilates"
	WorkoutRowing                     WorkoutType = "rowing"
	WorkoutElliptical                 WorkoutType = "elliptical"
	WorkoutStrengthTraining           WorkoutType = "strength_training"
	WorkoutFunctionalStrengthTraining WorkoutType = "functional_strength_training"
	WorkoutTennis                     WorkoutType = "tennis"
	WorkoutBadminton                  WorkoutType = "badminton"
	WorkoutBasketball                 WorkoutType = "basketball"
	WorkoutSoccer                     WorkoutType = "soccer"
	WorkoutBoxing                     WorkoutType = "boxing"
	WorkoutDancing                    WorkoutType = "dancing"
	WorkoutOther                      WorkoutType = "other"
)

// SleepStage identifies one stage in the unified sleep taxonomy.
type SleepStage string

const (
	StageAwake    SleepStage = "awake"
	StageAsleep   SleepStage = "asleep" // unspecified sleep
	StageLight    SleepStage = "light"
	StageDeep     SleepStage = "deep"
	StageREM      SleepStage = "rem"
	StageInBed    SleepStage = "in_bed"
	StageOutOfBed SleepStage = "out_of_bed"
)

// AccessType distinguishes read from write authorization.
type AccessType string

const (
	AccessRead  AccessType = "read"
	AccessWrite AccessType = "write"
)

// PermissionStatus is the unified 4-state authorization model. It is always
// recomputed from live platform state; nothing is persisted.
type PermissionStatus string

const (
	StatusAuthorized    PermissionStatus = "authorized"
	StatusDenied        PermissionStatus = "denied"
	StatusNotDetermined PermissionStatus = "not_determined"
	StatusUnavailable   PermissionStatus = "unavailable"
)

// Unit names a physical unit from one of the supported families.
type Unit string

const (
	// Distance
	UnitMeters      Unit = "m"
	UnitKilometers  Unit = "km"
	UnitMiles       Unit = "mi"
	UnitFeet        Unit = "ft"
	UnitInches      Unit = "in"
	UnitCentimeters Unit = "cm"
	UnitYards       Unit = "yd"

	// Mass
	UnitKilograms Unit = "kg"
	UnitGrams     Unit = "g"
	UnitMilligrams Unit = "mg"
	UnitPounds    Unit = "lb"
	UnitOunces    Unit = "oz"
	UnitStones    Unit = "st"

	// Temperature
	UnitCelsius    Unit = "degC"
	UnitFahrenheit Unit = "degF"
	UnitKelvin     Unit = "K"

	// Glucose / concentration
	UnitMilligramsPerDeciliter Unit = "mg/dL"
	UnitMillimolesPerLiter     Unit = "mmol/L"

	// Energy
	UnitKilocalories Unit = "kcal"
	UnitCalories     Unit = "cal"
	UnitKilojoules   Unit = "kJ"
	UnitJoules       Unit = "J"

	// Volume
	UnitLiters      Unit = "L"
	UnitMilliliters Unit = "mL"
	UnitFluidOuncesUS Unit = "fl_oz_us"
	UnitCupsUS      Unit = "cup_us"

	// Duration
	UnitMinutes Unit = "min"
	UnitSeconds Unit = "s"
	UnitHours   Unit = "h"
	UnitDays    Unit = "d"

	// Dimensionless / per-type units that never convert
	UnitCount             Unit = "count"
	UnitBeatsPerMinute    Unit = "bpm"
	UnitBreathsPerMinute  Unit = "brpm"
	UnitPercent           Unit = "%"
	UnitMilliseconds      Unit = "ms"
	UnitMillimetersOfMercury Unit = "mmHg"
)
