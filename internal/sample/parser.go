package sample

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/diodeplot/internal/calibration"
	"github.com/banshee-data/diodeplot/internal/monitoring"
)

// Grammar selects the raw capture format.
type Grammar int

const (
	// GrammarExtended accepts titles, bias markers, triplets and histograms.
	GrammarExtended Grammar = iota
	// GrammarTriplet accepts comments and "code a1 a2" triplets only.
	GrammarTriplet
)

func (g Grammar) String() string {
	switch g {
	case GrammarExtended:
		return "extended"
	case GrammarTriplet:
		return "triplet"
	}
	return fmt.Sprintf("Grammar(%d)", int(g))
}

// ParseGrammar maps a --grammar flag value to a Grammar.
func ParseGrammar(s string) (Grammar, error) {
	switch s {
	case "extended", "":
		return GrammarExtended, nil
	case "triplet":
		return GrammarTriplet, nil
	}
	return 0, fmt.Errorf("unknown capture format %q (valid: extended, triplet)", s)
}

const (
	markerForward = "FORWARD"
	markerReverse = "REVERSE"
)

// parseState carries the bias direction and title across lines.
type parseState struct {
	grammar   Grammar
	cal       calibration.Calibration
	direction int
	title     string
}

// step consumes one trimmed line. It reports whether the line produced a
// sample.
func (st *parseState) step(line string) (Sample, bool, error) {
	if line == "" {
		return Sample{}, false, nil
	}
	if strings.HasPrefix(line, "#") {
		if st.grammar == GrammarExtended {
			st.comment(strings.TrimSpace(line[1:]))
		}
		return Sample{}, false, nil
	}
	if st.grammar == GrammarExtended {
		switch line {
		case markerForward:
			st.direction = +1
			return Sample{}, false, nil
		case markerReverse:
			st.direction = -1
			return Sample{}, false, nil
		}
	}

	r, err := parseDataLine(line, st.grammar == GrammarExtended)
	if err != nil {
		return Sample{}, false, err
	}
	d := float64(st.direction)
	return Sample{
		Index: st.direction * r.code,
		V1:    d * st.cal.ToVoltage(r.channel1),
		V2:    d * st.cal.ToVoltage(r.channel2),
	}, true, nil
}

func (st *parseState) comment(text string) {
	if len(text) >= 2 && strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		st.title = text[1 : len(text)-1]
	}
}

// Parse reads a raw capture. name is used in error messages only. The first
// line that cannot be parsed aborts the whole parse.
func Parse(r io.Reader, name string, g Grammar, cal calibration.Calibration) (*DataSet, error) {
	st := &parseState{grammar: g, cal: cal, direction: +1}
	ds := &DataSet{Source: name, Calibration: cal}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lnum := 0
	for scanner.Scan() {
		lnum++
		text := scanner.Text()
		s, ok, err := st.step(strings.TrimSpace(text))
		if err != nil {
			return nil, &LineError{File: name, Line: lnum, Text: text, Err: err}
		}
		if ok {
			ds.Samples = append(ds.Samples, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	ds.Title = st.title
	monitoring.Logf("parsed %d samples from %s (%s grammar, %s calibration, title %q)",
		len(ds.Samples), name, g, cal.Name, ds.Title)
	return ds, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, g Grammar, cal calibration.Calibration) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()
	return Parse(f, path, g, cal)
}

// LoadCurve returns the voltage/current curve stored in path. Files with a .csv
// extension are read as tabular data, everything else as a raw capture.
func LoadCurve(path string, g Grammar, cal calibration.Calibration) (*Curve, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCurveFile(path)
	}
	ds, err := ParseFile(path, g, cal)
	if err != nil {
		return nil, err
	}
	return ds.Curve(), nil
}
