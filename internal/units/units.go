// Package units provides shared constants and validation for current units
package units

import "strings"

// Unit constants
const (
	MilliAmp = "mA"
	MicroAmp = "uA"
	Amp      = "A"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MilliAmp, MicroAmp, Amp}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertCurrent converts a current from milliamps to the target units.
// Captures and fits are always in mA (volts across a kilohm resistor).
func ConvertCurrent(currentMA float64, targetUnits string) float64 {
	switch targetUnits {
	case MicroAmp:
		return currentMA * 1000
	case Amp:
		return currentMA / 1000
	case MilliAmp:
		return currentMA
	default:
		return currentMA // default to mA if unknown unit
	}
}

// ConvertCurrents converts every value of currentsMA, returning a new slice.
func ConvertCurrents(currentsMA []float64, targetUnits string) []float64 {
	out := make([]float64, len(currentsMA))
	for k, c := range currentsMA {
		out[k] = ConvertCurrent(c, targetUnits)
	}
	return out
}

// Label returns an axis label such as "device current [uA]".
func Label(quantity, unit string) string {
	if !IsValid(unit) {
		unit = MilliAmp
	}
	return quantity + " [" + unit + "]"
}
