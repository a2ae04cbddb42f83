package sample

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/diodeplot/internal/calibration"
	"github.com/banshee-data/diodeplot/internal/testutil"
)

const curveFixture = "device voltage,device current [mA]\n0.0,0.0\n0.5,0.1\n0.6,0.3\n0.7,1.0\n"

func TestReadCurve(t *testing.T) {
	c, err := ReadCurve(strings.NewReader(curveFixture), "diode.csv")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 0.6, 0.7}, c.Voltage)
	assert.Equal(t, []float64{0, 0.1, 0.3, 1.0}, c.Current)
	assert.Equal(t, "diode.csv", c.Source)
	assert.Equal(t, 4, c.Len())
}

func TestReadCurveHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"missing current column", "device voltage\n0.1\n"},
		{"space after comma", "device voltage, device current [mA]\n0.1,0.2\n"},
		{"wrong units", "device voltage,device current [A]\n0.1,0.2\n"},
		{"extra column", "device voltage,device current [mA],note\n0.1,0.2,x\n"},
		{"data without header", "0.0,0.0\n0.5,0.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReadCurve(strings.NewReader(tt.input), "diode.csv")
			assert.ErrorIs(t, err, ErrInvalidFileFormat)
			assert.Nil(t, c)
		})
	}
}

func TestReadCurveRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"bad float", "device voltage,device current [mA]\n0.0,0.0\n0.5,abc\n", 3},
		{"bad voltage", "device voltage,device current [mA]\nx,0.0\n", 2},
		{"three fields", "device voltage,device current [mA]\n0.0,0.0\n0.1,0.2\n0.2,0.3,0.4\n", 4},
		{"one field", "device voltage,device current [mA]\n0.5\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReadCurve(strings.NewReader(tt.input), "diode.csv")
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrInvalidLineFormat)

			var le *LineError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.line, le.Line)
		})
	}
}

func TestWriteCurveReadBack(t *testing.T) {
	ds, err := Parse(strings.NewReader(testutil.HistogramCapture), "capture.txt", GrammarExtended, calibration.Default())
	require.NoError(t, err)
	want := ds.Curve()

	var buf bytes.Buffer
	require.NoError(t, WriteCurve(&buf, want))
	assert.True(t, strings.HasPrefix(buf.String(), "device voltage,device current [mA]\n"))

	got, err := ReadCurve(&buf, "converted.csv")
	require.NoError(t, err)
	assert.Equal(t, want.Voltage, got.Voltage)
	assert.Equal(t, want.Current, got.Current)
}

func TestWriteCurveLengthMismatch(t *testing.T) {
	err := WriteCurve(&bytes.Buffer{}, &Curve{Voltage: []float64{1}, Current: nil})
	assert.Error(t, err)
}

func TestLoadCurve(t *testing.T) {
	cal := calibration.Default()

	t.Run("csv by extension", func(t *testing.T) {
		path := testutil.WriteFixture(t, "diode.CSV", curveFixture)
		c, err := LoadCurve(path, GrammarExtended, cal)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
	})

	t.Run("raw capture otherwise", func(t *testing.T) {
		path := testutil.WriteFixture(t, "capture.txt", testutil.HistogramCapture)
		c, err := LoadCurve(path, GrammarExtended, cal)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
		assert.Equal(t, "1N4148 sweep", c.Title)
	})

	t.Run("csv file through raw path fails", func(t *testing.T) {
		path := testutil.WriteFixture(t, "diode.txt", curveFixture)
		_, err := LoadCurve(path, GrammarExtended, cal)
		assert.ErrorIs(t, err, ErrInvalidLineFormat)
	})

	t.Run("write file then load", func(t *testing.T) {
		path := testutil.WriteFixture(t, "out.csv", "")
		src := &Curve{Voltage: []float64{0.1, 0.2}, Current: []float64{0.01, 0.02}}
		require.NoError(t, WriteCurveFile(path, src))
		c, err := LoadCurve(path, GrammarExtended, cal)
		require.NoError(t, err)
		assert.Equal(t, src.Voltage, c.Voltage)
	})
}
