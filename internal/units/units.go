// Package units converts physical quantities between the units of the seven
// supported families. Every conversion routes through the family's base unit
// (meters, kilograms, celsius, mg/dL, kilocalories, liters, minutes); direct
// cross-unit formulas are deliberately absent. All families are linear except
// temperature, which is affine.
package units

import (
	"fmt"

	"github.com/meltforce/healthbridge/internal/models"
)

// Family names a group of interconvertible units with one base unit.
type Family string

const (
	FamilyDistance    Family = "distance"
	FamilyMass        Family = "mass"
	FamilyTemperature Family = "temperature"
	FamilyGlucose     Family = "glucose"
	FamilyEnergy      Family = "energy"
	FamilyVolume      Family = "volume"
	FamilyDuration    Family = "duration"
)

// factors holds the multiplier that takes one unit to its family base.
// Temperature is absent here; it is affine, not a pure scaling.
var factors = map[Family]map[models.Unit]float64{
	FamilyDistance: {
		models.UnitMeters:      1,
		models.UnitKilometers:  1000,
		models.UnitMiles:       1609.344,
		models.UnitFeet:        0.3048,
		models.UnitInches:      0.0254,
		models.UnitCentimeters: 0.01,
		models.UnitYards:       0.9144,
	},
	FamilyMass: {
		models.UnitKilograms:  1,
		models.UnitGrams:      0.001,
		models.UnitMilligrams: 1e-6,
		models.UnitPounds:     0.45359237,
		models.UnitOunces:     0.028349523125,
		models.UnitStones:     6.35029318,
	},
	FamilyGlucose: {
		models.UnitMilligramsPerDeciliter: 1,
		models.UnitMillimolesPerLiter:     18.0182, // molar mass of glucose per dL
	},
	FamilyEnergy: {
		models.UnitKilocalories: 1,
		models.UnitCalories:     0.001,
		models.UnitKilojoules:   1.0 / 4.184,
		models.UnitJoules:       1.0 / 4184.0,
	},
	FamilyVolume: {
		models.UnitLiters:        1,
		models.UnitMilliliters:   0.001,
		models.UnitFluidOuncesUS: 0.0295735295625,
		models.UnitCupsUS:        0.2365882365,
	},
	FamilyDuration: {
		models.UnitMinutes: 1,
		models.UnitSeconds: 1.0 / 60.0,
		models.UnitHours:   60,
		models.UnitDays:    1440,
	},
}

// Convert converts value from one unit to another within the given family.
// A unit foreign to the family is an error, never a silent passthrough.
func Convert(value float64, from, to models.Unit, family Family) (float64, error) {
	if from == to {
		if !known(from, family) {
			return 0, fmt.Errorf("%w: unit %q not in family %q", models.ErrInvalidParameters, from, family)
		}
		return value, nil
	}
	base, err := toBase(value, from, family)
	if err != nil {
		return 0, err
	}
	return fromBase(base, to, family)
}

func known(u models.Unit, family Family) bool {
	if family == FamilyTemperature {
		return u == models.UnitCelsius || u == models.UnitFahrenheit || u == models.UnitKelvin
	}
	_, ok := factors[family][u]
	return ok
}

func toBase(value float64, u models.Unit, family Family) (float64, error) {
	if family == FamilyTemperature {
		switch u {
		case models.UnitCelsius:
			return value, nil
		case models.UnitFahrenheit:
			return (value - 32) * 5 / 9, nil
		case models.UnitKelvin:
			return value - 273.15, nil
		}
		return 0, fmt.Errorf("%w: unit %q not in family %q", models.ErrInvalidParameters, u, family)
	}

	table, ok := factors[family]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit family %q", models.ErrInvalidParameters, family)
	}
	f, ok := table[u]
	if !ok {
		return 0, fmt.Errorf("%w: unit %q not in family %q", models.ErrInvalidParameters, u, family)
	}
	return value * f, nil
}

func fromBase(value float64, u models.Unit, family Family) (float64, error) {
	if family == FamilyTemperature {
		switch u {
		case models.UnitCelsius:
			return value, nil
		case models.UnitFahrenheit:
			return value*9/5 + 32, nil
		case models.UnitKelvin:
			return value + 273.15, nil
		}
		return 0, fmt.Errorf("%w: unit %q not in family %q", models.ErrInvalidParameters, u, family)
	}

	table, ok := factors[family]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit family %q", models.ErrInvalidParameters, family)
	}
	f, ok := table[u]
	if !ok {
		return 0, fmt.Errorf("%w: unit %q not in family %q", models.ErrInvalidParameters, u, family)
	}
	return value / f, nil
}

// FamilyUnits returns the units of a family, for enumeration in tests and
// tool schemas.
func FamilyUnits(family Family) []models.Unit {
	if family == FamilyTemperature {
		return []models.Unit{models.UnitCelsius, models.UnitFahrenheit, models.UnitKelvin}
	}
	out := make([]models.Unit, 0, len(factors[family]))
	for u := range factors[family] {
		out = append(out, u)
	}
	return out
}
