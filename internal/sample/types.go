// Package sample parses diode capture files into calibrated voltage and
// current samples.
//
// Two raw text grammars are supported. The extended grammar understands
// comments with an optional "#[title]", FORWARD/REVERSE bias markers, plain
// "code a1 a2" triplets and multisampling histogram rows such as
//
//	26 104 [0 0 33 961 6 0 0] 77 [0 0 13 782 205 0 0]
//
// The triplet grammar accepts comments and triplets only. A tabular CSV
// format carrying device voltage and current columns is read and written by
// ReadCurve and WriteCurve.
package sample

import (
	"errors"
	"fmt"

	"github.com/banshee-data/diodeplot/internal/calibration"
)

var (
	// ErrInvalidFileFormat is returned when a file does not start with the
	// expected header.
	ErrInvalidFileFormat = errors.New("invalid file format")
	// ErrInvalidLineFormat is returned for a line that matches no
	// recognised grammar. It is always wrapped in a *LineError.
	ErrInvalidLineFormat = errors.New("invalid line format")
	// ErrUnknownVariable is returned by ParseVariable.
	ErrUnknownVariable = errors.New("unknown variable")
)

// LineError reports the position of a line that could not be parsed.
type LineError struct {
	File string
	Line int // 1-based
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s line %d: %v: %q", e.File, e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// RawSample is one data line before calibration.
type RawSample struct {
	Code     int // DPORT value driving the resistor network, 0..255
	Channel1 int // analog reading of the op-amp output
	Channel2 int // analog reading between the resistor and the device
}

// Sample is one calibrated measurement. Index and both voltages carry the
// sign of the bias direction active when the line was read, so reverse-bias
// samples continue the forward curve through the origin.
type Sample struct {
	Index int
	V1    float64 // op-amp output voltage
	V2    float64 // device voltage
}

// DataSet is the result of one parse pass over a capture file. It is not
// modified after Parse returns.
type DataSet struct {
	Source      string
	Title       string
	Samples     []Sample
	Calibration calibration.Calibration
}

// Current returns the device current of s in mA.
func (d *DataSet) Current(s Sample) float64 {
	return d.Calibration.Current(s.V1, s.V2)
}

// Column extracts one variable across all samples.
func (d *DataSet) Column(v Variable) []float64 {
	out := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = d.value(s, v)
	}
	return out
}

func (d *DataSet) value(s Sample, v Variable) float64 {
	switch v {
	case VarIndex:
		return float64(s.Index)
	case VarV1:
		return s.V1
	case VarV2:
		return s.V2
	case VarCurrent:
		return d.Current(s)
	}
	return 0
}

// Curve returns the device voltage and current arrays used for fitting.
func (d *DataSet) Curve() *Curve {
	return &Curve{
		Source:  d.Source,
		Title:   d.Title,
		Voltage: d.Column(VarV2),
		Current: d.Column(VarCurrent),
	}
}

// Curve holds paired device voltage (V) and current (mA) observations.
type Curve struct {
	Source  string
	Title   string
	Voltage []float64
	Current []float64
}

// Len returns the number of observations.
func (c *Curve) Len() int { return len(c.Voltage) }
