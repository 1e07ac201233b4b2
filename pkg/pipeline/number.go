package pipeline

import (
	"math"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// ErrInvalidNumber is returned by ParseNumber for cells that are not a
// finite decimal number.
var ErrInvalidNumber = errors.New("invalid number")

// numberRegex is the accepted grammar: an optional sign, digits with an
// optional fraction (or a fraction alone), and an optional exponent,
// surrounded by optional spaces and tabs. Hex floats, "inf", "nan",
// underscores and thousands separators are not numbers here.
var numberRegex = regexp.MustCompile(`^[ \t]*([+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)[ \t]*$`)

// ParseNumber strictly parses a cell as a finite float64. Values that
// overflow the float64 range are rejected; values that underflow round to
// zero or a subnormal and are accepted.
func ParseNumber(cell []byte) (float64, error) {
	m := numberRegex.FindSubmatch(cell)
	if m == nil {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidNumber, err.Error())
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}
