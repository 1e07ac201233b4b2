package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// distributionScale is the number of histogram units per unit of value;
	// values are tracked to three decimal places.
	distributionScale  = 1000.0
	significantFigures = 3
)

// Quantile is one point of a distribution.
type Quantile struct {
	Label   string
	Percent float64
	Value   float64
}

var quantilePoints = []struct {
	label   string
	percent float64
}{
	{"q0", 0.0},
	{"q50", 50.0},
	{"q95", 95.0},
	{"q99", 99.0},
	{"q999", 99.90},
	{"q100", 100.0},
}

// Distribution tracks an HDR histogram of non-negative values up to a
// configured maximum. Values outside [0, max] are counted but not tracked.
type Distribution struct {
	hist      *hdrhistogram.Histogram
	max       float64
	untracked uint64
}

// NewDistribution returns a Distribution tracking values in [0, maxValue].
func NewDistribution(maxValue float64) (*Distribution, error) {
	if !finite(maxValue) || maxValue <= 0 || maxValue*distributionScale >= math.MaxInt64 {
		return nil, fmt.Errorf("invalid distribution maximum %g", maxValue)
	}
	return &Distribution{
		hist: hdrhistogram.New(1, int64(math.Ceil(maxValue*distributionScale)), significantFigures),
		max:  maxValue,
	}, nil
}

// Record adds x and reports whether it was inside the tracked range.
func (d *Distribution) Record(x float64) bool {
	if !finite(x) || x < 0 || x > d.max {
		d.untracked++
		return false
	}
	if err := d.hist.RecordValue(int64(math.Round(x * distributionScale))); err != nil {
		d.untracked++
		return false
	}
	return true
}

// TotalCount returns the number of tracked values.
func (d *Distribution) TotalCount() int64 {
	return d.hist.TotalCount()
}

// Untracked returns the number of values that fell outside the range.
func (d *Distribution) Untracked() uint64 {
	return d.untracked
}

// ValueAtQuantile returns the value at percent (0 to 100), or 0 when nothing
// was tracked.
func (d *Distribution) ValueAtQuantile(percent float64) float64 {
	if d.hist.TotalCount() == 0 {
		return 0
	}
	if percent <= 0 {
		return float64(d.hist.Min()) / distributionScale
	}
	return float64(d.hist.ValueAtQuantile(percent)) / distributionScale
}

// Quantiles returns q0, q50, q95, q99, q999 and q100 in that order.
func (d *Distribution) Quantiles() []Quantile {
	out := make([]Quantile, 0, len(quantilePoints))
	for _, p := range quantilePoints {
		out = append(out, Quantile{Label: p.label, Percent: p.percent, Value: d.ValueAtQuantile(p.percent)})
	}
	return out
}

// QuantileMap returns Quantiles keyed by label.
func (d *Distribution) QuantileMap() map[string]float64 {
	mp := make(map[string]float64, len(quantilePoints))
	for _, q := range d.Quantiles() {
		mp[q.Label] = q.Value
	}
	return mp
}

// WritePercentiles writes the percentile distribution of the tracked values
// in the HdrHistogram text format.
func (d *Distribution) WritePercentiles(w io.Writer) error {
	_, err := d.hist.PercentilesPrint(w, 10, distributionScale)
	return err
}
