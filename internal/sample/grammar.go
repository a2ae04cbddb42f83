package sample

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/banshee-data/diodeplot/internal/histogram"
)

// dataLexer tokenises the numeric part of a capture line. Anything that is
// not a digit run, a bracket or blank space is a lexing error.
var dataLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// dataLine matches both "code a1 a2" and
// "code a1 [h1...] a2 [h2...]". Numbers are captured as text and converted
// with strconv so that leading zeros stay decimal.
type dataLine struct {
	Code     string   `@Int`
	Channel1 string   `@Int`
	Hist1    *binList `@@?`
	Channel2 string   `@Int`
	Hist2    *binList `@@?`
}

type binList struct {
	Open   bool     `@LBracket`
	Counts []string `@Int* RBracket`
}

var dataParser = participle.MustBuild[dataLine](
	participle.Lexer(dataLexer),
	participle.Elide("Whitespace"),
)

// reading is a parsed data line with both channel readings resolved to
// (possibly fractional) analog codes.
type reading struct {
	code     int
	channel1 float64
	channel2 float64
}

// parseDataLine parses a trimmed data line. allowHistogram selects between
// the extended and the triplet grammar.
func parseDataLine(line string, allowHistogram bool) (reading, error) {
	dl, err := dataParser.ParseString("", line)
	if err != nil {
		return reading{}, fmt.Errorf("%w: %v", ErrInvalidLineFormat, err)
	}

	raw, err := dl.raw()
	if err != nil {
		return reading{}, err
	}

	switch {
	case dl.Hist1 == nil && dl.Hist2 == nil:
		return reading{
			code:     raw.Code,
			channel1: float64(raw.Channel1),
			channel2: float64(raw.Channel2),
		}, nil
	case dl.Hist1 != nil && dl.Hist2 != nil && allowHistogram:
		r1, err := dl.Hist1.record(raw.Channel1)
		if err != nil {
			return reading{}, err
		}
		r2, err := dl.Hist2.record(raw.Channel2)
		if err != nil {
			return reading{}, err
		}
		m1, err := r1.Mean()
		if err != nil {
			return reading{}, fmt.Errorf("channel 1: %w", err)
		}
		m2, err := r2.Mean()
		if err != nil {
			return reading{}, fmt.Errorf("channel 2: %w", err)
		}
		return reading{code: raw.Code, channel1: m1, channel2: m2}, nil
	case !allowHistogram:
		return reading{}, fmt.Errorf("%w: histogram rows are not allowed in triplet files", ErrInvalidLineFormat)
	default:
		return reading{}, fmt.Errorf("%w: both channels need a histogram", ErrInvalidLineFormat)
	}
}

func (dl *dataLine) raw() (RawSample, error) {
	var rs RawSample
	var err error
	if rs.Code, err = atoi(dl.Code); err != nil {
		return rs, err
	}
	if rs.Channel1, err = atoi(dl.Channel1); err != nil {
		return rs, err
	}
	if rs.Channel2, err = atoi(dl.Channel2); err != nil {
		return rs, err
	}
	return rs, nil
}

func (b *binList) record(center int) (histogram.Record, error) {
	rec := histogram.Record{Center: center, Counts: make([]int, len(b.Counts))}
	for i, s := range b.Counts {
		n, err := atoi(s)
		if err != nil {
			return rec, err
		}
		rec.Counts[i] = n
	}
	return rec, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLineFormat, err)
	}
	return n, nil
}
