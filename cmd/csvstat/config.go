package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/timescale/csvstat/internal/utils"
	"github.com/timescale/csvstat/pkg/data/csvsplit"
	"github.com/timescale/csvstat/pkg/data/source"
	"github.com/timescale/csvstat/pkg/pipeline"
)

// stdinLocation is the file argument that selects standard input.
const stdinLocation = "-"

// RunConfig holds the settings of a csvstat run, merged from the flags, the
// positional arguments and the configuration file.
type RunConfig struct {
	File             string        `yaml:"file"`
	Column           string        `yaml:"col" mapstructure:"col"`
	Quiet            bool          `yaml:"quiet"`
	Stdin            bool          `yaml:"stdin"`
	Compression      string        `yaml:"compression"`
	MaxLineBytes     int           `yaml:"max-line-bytes" mapstructure:"max-line-bytes"`
	SplitterCapacity int           `yaml:"splitter-capacity" mapstructure:"splitter-capacity"`
	MaxFields        int           `yaml:"max-fields" mapstructure:"max-fields"`
	ReportingPeriod  time.Duration `yaml:"reporting-period" mapstructure:"reporting-period"`
	WarningsPerSec   float64       `yaml:"warnings-per-sec" mapstructure:"warnings-per-sec"`
	Quantiles        bool          `yaml:"quantiles"`
	QuantileMax      float64       `yaml:"quantile-max" mapstructure:"quantile-max"`
	HDRFile          string        `yaml:"hdr-file" mapstructure:"hdr-file"`
}

func defaultRunConfig() *RunConfig {
	return &RunConfig{
		Compression:      source.CompressionAuto,
		SplitterCapacity: csvsplit.DefaultCapacity,
		QuantileMax:      defaultQuantileMax,
	}
}

func (c *RunConfig) readsStdin() bool {
	return c.Stdin || c.File == stdinLocation
}

// displayName is the file name printed in the summary.
func (c *RunConfig) displayName() string {
	if c.readsStdin() {
		return stdinLocation
	}
	return c.File
}

// Validate checks the settings that do not depend on the input.
func (c *RunConfig) Validate() error {
	if c.Column == "" {
		return errors.New("missing column name")
	}
	if !c.readsStdin() && c.File == "" {
		return errors.New("missing input file")
	}
	if err := utils.ValidateNonNegative("max-line-bytes", c.MaxLineBytes); err != nil {
		return err
	}
	if err := utils.ValidateNonNegative("splitter-capacity", c.SplitterCapacity); err != nil {
		return err
	}
	if err := utils.ValidateNonNegative("max-fields", c.MaxFields); err != nil {
		return err
	}
	if c.ReportingPeriod < 0 {
		return fmt.Errorf("invalid reporting-period: %v must not be negative", c.ReportingPeriod)
	}
	if err := utils.ValidateRate("warnings-per-sec", c.WarningsPerSec); err != nil {
		return err
	}
	if c.Quantiles && !(c.QuantileMax > 0) {
		return fmt.Errorf("invalid quantile-max: %g must be positive", c.QuantileMax)
	}
	return nil
}

func (c *RunConfig) dataSource() *source.DataSourceConfig {
	if c.readsStdin() {
		return &source.DataSourceConfig{Type: source.StdinDataSourceType}
	}
	return &source.DataSourceConfig{
		Type: source.FileDataSourceType,
		File: &source.FileDataSourceConfig{
			Location:    c.File,
			Compression: c.Compression,
		},
	}
}

func (c *RunConfig) pipelineConfig(stderr io.Writer) pipeline.Config {
	return pipeline.Config{
		Column:            c.Column,
		Quiet:             c.Quiet,
		Warnings:          stderr,
		Logger:            log.New(stderr, "", log.LstdFlags),
		MaxLineBytes:      c.MaxLineBytes,
		SplitterCapacity:  c.SplitterCapacity,
		MaxFields:         c.MaxFields,
		ReportingPeriod:   c.ReportingPeriod,
		WarningsPerSecond: c.WarningsPerSec,
	}
}
