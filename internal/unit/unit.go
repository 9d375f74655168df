// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package unit describes physical quantities as a base unit scaled by a
// power-of-ten multiplier, optionally divided by a second unit, and converts
// values between representations of the same quantity.
//
// Only multipliers are converted. Two units are convertible when their
// physical quantity, base unit, and denominator unit agree; anything else
// (energy to power, joule to watt-hour) is rejected with ErrUnitMismatch.
package unit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnitMismatch is returned when a conversion is requested between
	// units that do not describe the same quantity in the same unit family,
	// or when the source unit is missing.
	ErrUnitMismatch = errors.New("unit mismatch")

	// ErrInvalidMultiplier is returned for a multiplier outside the known
	// ordered set.
	ErrInvalidMultiplier = errors.New("invalid multiplier")
)

// PhysicalQuantity names the kind of quantity a value measures.
type PhysicalQuantity string

const (
	QuantityUndefined   PhysicalQuantity = ""
	QuantityPower       PhysicalQuantity = "POWER"
	QuantityEnergy      PhysicalQuantity = "ENERGY"
	QuantityCost        PhysicalQuantity = "COST"
	QuantityTemperature PhysicalQuantity = "TEMPERATURE"
	QuantityEmission    PhysicalQuantity = "EMISSION"
	QuantityVolume      PhysicalQuantity = "VOLUME"
)

// Unit is a base unit without scaling.
type Unit string

const (
	UnitNone           Unit = ""
	UnitWatt           Unit = "WATT"
	UnitJoule          Unit = "JOULE"
	UnitWattHour       Unit = "WATTHOUR"
	UnitEuro           Unit = "EURO"
	UnitKelvin         Unit = "KELVIN"
	UnitDegreesCelsius Unit = "DEGREES_CELSIUS"
	UnitGram           Unit = "GRAM"
	UnitCubicMetre     Unit = "CUBIC_METRE"
)

// TimeUnit is the optional "per time" part of a unit, e.g. EURO per YEAR.
type TimeUnit string

const (
	TimeNone   TimeUnit = ""
	TimeSecond TimeUnit = "SECOND"
	TimeHour   TimeUnit = "HOUR"
	TimeDay    TimeUnit = "DAY"
	TimeYear   TimeUnit = "YEAR"
)

// QuantityAndUnit describes how a numeric value is to be interpreted.
// It is a value type; the zero value means "no unit".
type QuantityAndUnit struct {
	ID               string           `json:"id,omitempty" yaml:"id,omitempty"`
	Description      string           `json:"description,omitempty" yaml:"description,omitempty"`
	PhysicalQuantity PhysicalQuantity `json:"physicalQuantity" yaml:"physicalQuantity"`
	Unit             Unit             `json:"unit" yaml:"unit"`
	Multiplier       Multiplier       `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	PerUnit          Unit             `json:"perUnit,omitempty" yaml:"perUnit,omitempty"`
	PerMultiplier    Multiplier       `json:"perMultiplier,omitempty" yaml:"perMultiplier,omitempty"`
	PerTimeUnit      TimeUnit         `json:"perTimeUnit,omitempty" yaml:"perTimeUnit,omitempty"`
}

// Equals reports whether u and other agree on every field that affects the
// meaning of a value: unit, multiplier, denominator unit and multiplier,
// and physical quantity. Identifiers and descriptions are ignored.
func (u QuantityAndUnit) Equals(other QuantityAndUnit) bool {
	return u.Unit == other.Unit &&
		u.Multiplier == other.Multiplier &&
		u.PerUnit == other.PerUnit &&
		u.PerMultiplier == other.PerMultiplier &&
		u.PhysicalQuantity == other.PhysicalQuantity
}

// SamePhysicalQuantity reports whether u and other measure the same
// quantity in the same unit family, ignoring multipliers. This is the
// predicate that gates Convert.
func (u QuantityAndUnit) SamePhysicalQuantity(other QuantityAndUnit) bool {
	return u.PhysicalQuantity == other.PhysicalQuantity &&
		u.Unit == other.Unit &&
		u.PerUnit == other.PerUnit
}

// String renders the unit as e.g. "POWER in GW" or "COST in EUR/MWh".
func (u QuantityAndUnit) String() string {
	var b strings.Builder
	if u.PhysicalQuantity != QuantityUndefined {
		b.WriteString(string(u.PhysicalQuantity))
		b.WriteString(" in ")
	}
	b.WriteString(u.Multiplier.Prefix())
	b.WriteString(symbol(u.Unit))
	if u.PerUnit != UnitNone {
		b.WriteString("/")
		b.WriteString(u.PerMultiplier.Prefix())
		b.WriteString(symbol(u.PerUnit))
	}
	if u.PerTimeUnit != TimeNone {
		b.WriteString("/")
		b.WriteString(strings.ToLower(string(u.PerTimeUnit)))
	}
	return b.String()
}

func symbol(u Unit) string {
	switch u {
	case UnitWatt:
		return "W"
	case UnitJoule:
		return "J"
	case UnitWattHour:
		return "Wh"
	case UnitEuro:
		return "EUR"
	case UnitKelvin:
		return "K"
	case UnitDegreesCelsius:
		return "°C"
	case UnitGram:
		return "g"
	case UnitCubicMetre:
		return "m3"
	}
	return string(u)
}

// Convert scales value, expressed in from, to the multiplier of to.
// A nil from is a missing unit and fails with ErrUnitMismatch, as does a
// pair of units that are not SamePhysicalQuantity.
//
// Temperatures are scaled like any other quantity: there is no additive
// offset, so Celsius and Kelvin are different unit families and never
// convert into each other.
func Convert(value float64, from *QuantityAndUnit, to QuantityAndUnit) (float64, error) {
	if from == nil {
		return 0, fmt.Errorf("%w: missing source unit for conversion to %s", ErrUnitMismatch, to)
	}
	if !to.SamePhysicalQuantity(*from) {
		return 0, fmt.Errorf("%w: cannot convert %s to %s", ErrUnitMismatch, from, to)
	}
	fromFactor, err := MultiplierFactor(*from)
	if err != nil {
		return 0, err
	}
	toFactor, err := MultiplierFactor(to)
	if err != nil {
		return 0, err
	}
	return value * (fromFactor / toFactor), nil
}

// MultiplierFactor returns the power-of-ten scale factor of u's multiplier.
func MultiplierFactor(u QuantityAndUnit) (float64, error) {
	return u.Multiplier.Factor()
}
