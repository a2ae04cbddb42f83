package sample

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/banshee-data/diodeplot/internal/monitoring"
)

// CurveHeader is the required first record of a tabular curve file.
var CurveHeader = []string{"device voltage", "device current [mA]"}

// ReadCurve reads a tabular voltage/current file. The header must match
// CurveHeader exactly; every following record must hold two floats.
func ReadCurve(r io.Reader, name string) (*Curve, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w: missing header", name, ErrInvalidFileFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrInvalidFileFormat, err)
	}
	if !slices.Equal(header, CurveHeader) {
		monitoring.Logf("invalid columns in %s: %q", name, header)
		return nil, fmt.Errorf("%s: %w: columns %q, want %q", name, ErrInvalidFileFormat, header, CurveHeader)
	}

	c := &Curve{Source: name}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &LineError{File: name, Line: line, Err: fmt.Errorf("%w: %v", ErrInvalidLineFormat, err)}
		}
		line, _ := cr.FieldPos(0)
		v, i, err := parseRecord(rec)
		if err != nil {
			return nil, &LineError{File: name, Line: line, Text: strings.Join(rec, ","), Err: err}
		}
		c.Voltage = append(c.Voltage, v)
		c.Current = append(c.Current, i)
	}

	monitoring.Logf("read %d points from %s", c.Len(), name)
	return c, nil
}

func parseRecord(rec []string) (float64, float64, error) {
	if len(rec) != 2 {
		return 0, 0, fmt.Errorf("%w: %d fields, want 2", ErrInvalidLineFormat, len(rec))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: voltage: %v", ErrInvalidLineFormat, err)
	}
	i, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: current: %v", ErrInvalidLineFormat, err)
	}
	return v, i, nil
}

// ReadCurveFile opens path and reads it with ReadCurve.
func ReadCurveFile(path string) (*Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open curve file: %w", err)
	}
	defer f.Close()
	return ReadCurve(f, path)
}

// WriteCurve writes c in the format accepted by ReadCurve.
func WriteCurve(w io.Writer, c *Curve) error {
	if len(c.Voltage) != len(c.Current) {
		return fmt.Errorf("curve has %d voltages but %d currents", len(c.Voltage), len(c.Current))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CurveHeader); err != nil {
		return err
	}
	for k := range c.Voltage {
		rec := []string{
			strconv.FormatFloat(c.Voltage[k], 'g', -1, 64),
			strconv.FormatFloat(c.Current[k], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurveFile creates path and writes c to it.
func WriteCurveFile(path string, c *Curve) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create curve file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCurve(f, c)
}
