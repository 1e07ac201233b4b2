package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/timescale/csvstat/pkg/data/csvsplit"
	"github.com/timescale/csvstat/pkg/data/source"
)

const defaultQuantileMax = 1e6

func runFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.String("file", "", "CSV file to read, '-' for standard input")
	fs.String("col", "", "Name of the column to summarize")
	fs.Bool("quiet", false, "Do not print per-row warnings")
	fs.Bool("stdin", false, "Read the CSV data from standard input")
	fs.String(
		"compression",
		source.CompressionAuto,
		"Input compression, valid: "+strings.Join(source.ValidCompressions, ", ")+
			". 'auto' reads files ending in "+source.SnappyExtension+" as snappy streams",
	)
	fs.Int("max-line-bytes", 0, "Largest line buffer to allocate, 0 = no limit")
	fs.Int("splitter-capacity", csvsplit.DefaultCapacity, "Initial number of field slots per row")
	fs.Int("max-fields", 0, "Largest number of fields per row, 0 = no limit")
	fs.Duration("reporting-period", 0, "Period to report progress on stderr, 0 = no reports")
	fs.Float64("warnings-per-sec", 0, "Largest number of per-row warnings printed per second, 0 = no limit")
	fs.Bool("quantiles", false, "Also print the q0, q50, q95, q99, q999 and q100 quantiles")
	fs.Float64("quantile-max", defaultQuantileMax, "Largest value tracked for the quantiles")
	fs.String("hdr-file", "", "File to write the HDR percentile distribution to (requires --quantiles)")
	return fs
}
