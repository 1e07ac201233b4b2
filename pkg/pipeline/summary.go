package pipeline

import (
	"bufio"
	"fmt"
	"io"
)

const notAvailable = "n/a"

func formatValue(x float64, err error) string {
	if err != nil {
		return notAvailable
	}
	return fmt.Sprintf("%.17g", x)
}

// WriteSummary writes the key/value summary of res to w, one "key: value"
// pair per line. Quantile lines follow when res carries a Distribution.
func WriteSummary(w io.Writer, file string, res *Result) error {
	bw := bufio.NewWriter(w)
	s := &res.Stats

	fmt.Fprintf(bw, "file: %s\n", file)
	fmt.Fprintf(bw, "column: %s\n", res.Column)
	fmt.Fprintf(bw, "rows_seen: %d\n", res.Tally.RowsSeen)
	fmt.Fprintf(bw, "missing_column: %d\n", res.Tally.MissingColumn)
	fmt.Fprintf(bw, "numeric_ok: %d\n", res.Tally.NumericOK)
	fmt.Fprintf(bw, "numeric_bad: %d\n", res.Tally.NumericBad)
	fmt.Fprintf(bw, "min: %s\n", formatValue(s.Min()))
	fmt.Fprintf(bw, "max: %s\n", formatValue(s.Max()))
	fmt.Fprintf(bw, "mean: %s\n", formatValue(s.Mean()))
	fmt.Fprintf(bw, "stddev_sample: %s\n", formatValue(s.StddevSample()))

	if d := res.Distribution; d != nil {
		for _, q := range d.Quantiles() {
			v := notAvailable
			if d.TotalCount() > 0 {
				v = formatValue(q.Value, nil)
			}
			fmt.Fprintf(bw, "%s: %s\n", q.Label, v)
		}
		fmt.Fprintf(bw, "quantile_untracked: %d\n", d.Untracked())
	}
	return bw.Flush()
}
