// Package stats provides single-pass streaming statistics.
package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidValue is returned by Push for values that would corrupt the
	// running statistics.
	ErrInvalidValue = errors.New("stats: invalid value")
	// ErrInsufficientData is returned by queries that need more samples.
	ErrInsufficientData = errors.New("stats: insufficient data")
)

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Accumulator collects count, mean, sample variance, min and max of a stream
// of values in constant space, using Welford's update. The zero value is an
// empty accumulator.
type Accumulator struct {
	n    uint64
	mean float64
	m2   float64 // sum of squared deviations from the mean
	min  float64
	max  float64
}

// Reset returns the accumulator to the empty state.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Push adds x. NaN and infinite values are rejected, as is any value that
// would make the running state non-finite or overflow the count. A rejected
// value leaves the accumulator unchanged.
func (a *Accumulator) Push(x float64) error {
	if !finite(x) {
		return errors.Wrapf(ErrInvalidValue, "%v is not finite", x)
	}
	if a.n == 0 {
		a.n = 1
		a.mean = x
		a.m2 = 0
		a.min = x
		a.max = x
		return nil
	}
	if a.n == math.MaxUint64 {
		return errors.Wrap(ErrInvalidValue, "sample count overflow")
	}

	n := a.n + 1
	delta := x - a.mean
	mean := a.mean + delta/float64(n)
	delta2 := x - mean
	m2 := a.m2 + delta*delta2
	if !finite(mean) || !finite(m2) {
		return errors.Wrapf(ErrInvalidValue, "running state not finite after %v", x)
	}

	a.n = n
	a.mean = mean
	a.m2 = m2
	if x < a.min {
		a.min = x
	}
	if x > a.max {
		a.max = x
	}
	return nil
}

// Count returns the number of accepted values.
func (a *Accumulator) Count() uint64 {
	return a.n
}

// HasData reports whether at least one value was accepted.
func (a *Accumulator) HasData() bool {
	return a.n > 0
}

// HasSampleVariance reports whether the sample variance is defined.
func (a *Accumulator) HasSampleVariance() bool {
	return a.n > 1
}

func (a *Accumulator) Mean() (float64, error) {
	if a.n == 0 {
		return 0, ErrInsufficientData
	}
	return a.mean, nil
}

func (a *Accumulator) Min() (float64, error) {
	if a.n == 0 {
		return 0, ErrInsufficientData
	}
	return a.min, nil
}

func (a *Accumulator) Max() (float64, error) {
	if a.n == 0 {
		return 0, ErrInsufficientData
	}
	return a.max, nil
}

// VarianceSample returns the sample variance, m2/(n-1). It needs at least
// two values.
func (a *Accumulator) VarianceSample() (float64, error) {
	if a.n < 2 {
		return 0, ErrInsufficientData
	}
	return a.m2 / float64(a.n-1), nil
}

// StddevSample returns the square root of the sample variance.
func (a *Accumulator) StddevSample() (float64, error) {
	v, err := a.VarianceSample()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// String makes a simple description of the accumulator.
func (a *Accumulator) String() string {
	if a.n == 0 {
		return "count: 0"
	}
	std, _ := a.StddevSample()
	return fmt.Sprintf("min: %g, mean: %g, max: %g, stddev: %g, count: %d", a.min, a.mean, a.max, std, a.n)
}

func (a *Accumulator) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", a.String())
	return err
}
