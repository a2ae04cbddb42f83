package sample

import "fmt"

// Variable names one plottable quantity of a Sample.
type Variable string

const (
	VarIndex   Variable = "n"
	VarV1      Variable = "v1"
	VarV2      Variable = "v2"
	VarCurrent Variable = "i"
)

// Variables lists every valid variable.
var Variables = []Variable{VarIndex, VarV1, VarV2, VarCurrent}

// ParseVariable validates a variable name given on the command line.
func ParseVariable(s string) (Variable, error) {
	for _, v := range Variables {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: n, v1, v2, i)", ErrUnknownVariable, s)
}

// Description returns the axis label for v.
func (v Variable) Description() string {
	switch v {
	case VarIndex:
		return "digital output"
	case VarV1:
		return "op-amp output voltage"
	case VarV2:
		return "device voltage"
	case VarCurrent:
		return "device current [mA]"
	}
	return string(v)
}
