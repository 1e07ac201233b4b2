package source

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/timescale/csvstat/internal/utils"
)

const (
	FileDataSourceType  = "FILE"
	StdinDataSourceType = "STDIN"

	// CompressionAuto picks snappy for locations ending in SnappyExtension.
	CompressionAuto   = "auto"
	CompressionNone   = "none"
	CompressionSnappy = "snappy"

	SnappyExtension = ".sz"
)

var (
	ValidDataSourceTypes = []string{FileDataSourceType, StdinDataSourceType}
	ValidCompressions    = []string{CompressionAuto, CompressionNone, CompressionSnappy}
)

// DataSourceConfig describes where the CSV input is read from.
type DataSourceConfig struct {
	Type string                `yaml:"type"`
	File *FileDataSourceConfig `yaml:"file,omitempty"`
}

// FileDataSourceConfig describes a file input.
type FileDataSourceConfig struct {
	Location    string `yaml:"location"`
	Compression string `yaml:"compression"`
}

func validateSourceType(t string) error {
	if utils.IsIn(t, ValidDataSourceTypes) {
		return nil
	}
	return fmt.Errorf("data source type '%s' unrecognized; allowed: %v", t, ValidDataSourceTypes)
}

// Validate checks the combination of type and file settings.
func (c *DataSourceConfig) Validate() error {
	if err := validateSourceType(c.Type); err != nil {
		return err
	}
	if c.Type == StdinDataSourceType {
		return nil
	}
	if c.File == nil {
		return fmt.Errorf("specified type %s, but no file data source config provided", FileDataSourceType)
	}
	return c.File.Validate()
}

// Validate checks that a location is given and the compression is known.
func (f *FileDataSourceConfig) Validate() error {
	if f.Location == "" {
		return errors.New("location of file data source config can't be empty or missing")
	}
	if f.Compression != "" && !utils.IsIn(f.Compression, ValidCompressions) {
		return fmt.Errorf("file data source compression %s not in supported %s",
			f.Compression,
			strings.Join(ValidCompressions, ","),
		)
	}
	return nil
}

// snappy reports whether the file should be read through a snappy decoder.
func (f *FileDataSourceConfig) snappy() bool {
	switch f.Compression {
	case CompressionSnappy:
		return true
	case CompressionNone:
		return false
	default:
		return strings.HasSuffix(f.Location, SnappyExtension)
	}
}
