// Package calibration converts raw analog-to-digital codes into volts and
// derives device current from the drop across the series resistor.
package calibration

import (
	"errors"
	"fmt"
	"sort"
)

// SeriesResistanceKOhm is the measured value of the resistor in series with
// the device under test, in kilohms.
const SeriesResistanceKOhm = 0.3272

// Named calibrations. Data files captured under one calibration are not
// comparable with files captured under the other.
const (
	Regression = "regression"
	SlopeOnly  = "slope-only"
)

// ErrUnknownCalibration is returned by Lookup for an unregistered name.
var ErrUnknownCalibration = errors.New("unknown calibration")

// Calibration is a fixed affine map from analog input codes (0..1023) to
// volts, plus the series resistance used to derive current.
type Calibration struct {
	Name                 string  `json:"name"`
	Slope                float64 `json:"slope"`     // volts per count
	Intercept            float64 `json:"intercept"` // volts at code 0
	SeriesResistanceKOhm float64 `json:"series_resistance_kohm"`
}

var registry = map[string]Calibration{
	// Linear regression of analog input values against multimeter readings.
	Regression: {
		Name:                 Regression,
		Slope:                0.004983,
		Intercept:            0.010523,
		SeriesResistanceKOhm: SeriesResistanceKOhm,
	},
	// Ideal 10-bit converter against a 5 V reference, no offset term.
	SlopeOnly: {
		Name:                 SlopeOnly,
		Slope:                5.0 / 1023.0,
		SeriesResistanceKOhm: SeriesResistanceKOhm,
	},
}

// Default returns the regression calibration.
func Default() Calibration {
	return registry[Regression]
}

// Lookup returns the named calibration.
func Lookup(name string) (Calibration, error) {
	c, ok := registry[name]
	if !ok {
		return Calibration{}, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownCalibration, name, Names())
	}
	return c, nil
}

// Names returns the registered calibration names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithResistance returns a copy of c using the given series resistance.
func (c Calibration) WithResistance(kohm float64) Calibration {
	c.SeriesResistanceKOhm = kohm
	return c
}

// ToVoltage converts an analog reading to volts. The reading may be
// fractional when it comes from a histogram mean.
func (c Calibration) ToVoltage(code float64) float64 {
	return c.Slope*code + c.Intercept
}

// Current returns the device current in mA for the two channel voltages.
func (c Calibration) Current(v1, v2 float64) float64 {
	return ToCurrent(v1, v2, c.SeriesResistanceKOhm)
}

// ToCurrent returns (v1-v2)/r. With volts and kilohms the result is in mA.
func ToCurrent(v1, v2, seriesResistanceKOhm float64) float64 {
	return (v1 - v2) / seriesResistanceKOhm
}
