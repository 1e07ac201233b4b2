// Package pipeline streams a CSV input through the line reader, the field
// splitter and the statistics accumulator, in bounded memory.
//
// The driver is a small state machine:
//
//	AwaitingHeader -> StreamingRows -> Done
//
// with a transition to Failed from any state. Per-row problems (a row that
// is too short, a cell that is not a number) are tallied and skipped; only
// structural failures (I/O, allocation, header resolution) stop the run.
package pipeline

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/timescale/csvstat/pkg/data/csvsplit"
	"github.com/timescale/csvstat/pkg/data/source"
	"github.com/timescale/csvstat/pkg/stats"
	"github.com/timescale/csvstat/pkg/status"
	"go.uber.org/atomic"
)

// ErrEmptyInput is the cause of the FormatError returned when the input has
// no header line.
var ErrEmptyInput = errors.New("no header row")

// State is a state of the driver.
type State int

const (
	AwaitingHeader State = iota
	StreamingRows
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingHeader:
		return "awaiting header"
	case StreamingRows:
		return "streaming rows"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config controls a run.
type Config struct {
	// Column is the header name of the column to summarize.
	Column string
	// Quiet suppresses the per-row warnings.
	Quiet bool
	// Warnings receives per-row warnings; os.Stderr if nil.
	Warnings io.Writer
	// Logger receives progress and informational messages; a logger on
	// os.Stderr if nil.
	Logger *log.Logger

	// MaxLineBytes bounds the line buffer (0 = unbounded).
	MaxLineBytes int
	// SplitterCapacity is the initial number of field slots (0 = default).
	SplitterCapacity int
	// MaxFields bounds the number of fields per row (0 = unbounded).
	MaxFields int

	// ReportingPeriod enables periodic progress lines when positive.
	ReportingPeriod time.Duration
	// WarningsPerSecond throttles per-row warnings when positive.
	WarningsPerSecond float64

	// Distribution, if set, also receives every accepted value.
	Distribution *stats.Distribution
}

// Tally counts per-row outcomes.
type Tally struct {
	RowsSeen      uint64 // non-blank rows after the header
	MissingColumn uint64
	NumericOK     uint64
	NumericBad    uint64

	// SuppressedWarnings counts warnings dropped by the warning rate limit.
	SuppressedWarnings uint64
}

// Result is the outcome of a run. Its statistics are only meaningful when
// State is Done.
type Result struct {
	Column      string
	ColumnIndex int
	State       State
	Tally       Tally
	Stats       stats.Accumulator
	// Distribution is Config.Distribution, if one was given.
	Distribution *stats.Distribution
}

type driver struct {
	conf     Config
	lines    *source.LineReader
	splitter *csvsplit.Splitter
	warn     *warner
	progress *atomic.Uint64
	res      *Result
}

// Run reads CSV data from r until end of stream and summarizes conf.Column.
// It does not close r. The returned Result is never nil; when err is not nil
// its State is Failed and err carries a status.Code.
func Run(r io.Reader, conf Config) (*Result, error) {
	if conf.Warnings == nil {
		conf.Warnings = os.Stderr
	}
	if conf.Logger == nil {
		conf.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	d := &driver{
		conf:     conf,
		lines:    source.NewLineReader(r, source.WithMaxLineBytes(conf.MaxLineBytes)),
		splitter: csvsplit.New(conf.SplitterCapacity, csvsplit.WithMaxFields(conf.MaxFields)),
		warn:     newWarner(conf.Warnings, conf.Quiet, conf.WarningsPerSecond),
		progress: atomic.NewUint64(0),
		res: &Result{
			Column:       conf.Column,
			ColumnIndex:  -1,
			State:        AwaitingHeader,
			Distribution: conf.Distribution,
		},
	}
	defer d.lines.Close()
	defer d.splitter.Close()

	if conf.ReportingPeriod > 0 {
		rep := startReporter(conf.ReportingPeriod, d.progress, conf.Logger)
		defer rep.stop()
	}

	err := d.run()
	d.res.Tally.SuppressedWarnings = d.warn.suppressed
	if d.warn.suppressed > 0 {
		conf.Logger.Printf("%d warnings suppressed by the warning rate limit", d.warn.suppressed)
	}
	if err != nil {
		d.res.State = Failed
		return d.res, err
	}
	d.res.State = Done
	return d.res, nil
}

func (d *driver) run() error {
	for {
		switch d.res.State {
		case AwaitingHeader:
			if err := d.readHeader(); err != nil {
				return err
			}
			d.res.State = StreamingRows
		case StreamingRows:
			return d.streamRows()
		default:
			return status.Errorf(status.InternalError, "unexpected driver state %v", d.res.State)
		}
	}
}

// nextLine returns the next non-blank line, or io.EOF.
func (d *driver) nextLine() ([]byte, error) {
	for {
		line, err := d.lines.Next()
		if err != nil {
			return nil, err
		}
		if !isBlankLine(line) {
			return line, nil
		}
	}
}

func (d *driver) readHeader() error {
	line, err := d.nextLine()
	if err == io.EOF {
		return status.New(status.FormatError, ErrEmptyInput)
	}
	if err != nil {
		return errors.Wrap(err, "reading header")
	}

	header, err := d.splitter.Split(line)
	if err != nil {
		return splitError(err, "splitting header")
	}
	idx, err := csvsplit.FindColumn(header, d.conf.Column)
	if err != nil {
		return status.Errorf(status.ColumnNotFound, "%q", d.conf.Column)
	}
	d.res.ColumnIndex = idx
	return nil
}

func (d *driver) streamRows() error {
	tally := &d.res.Tally
	idx := d.res.ColumnIndex
	for {
		line, err := d.nextLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "reading row %d", tally.RowsSeen+1)
		}

		row, err := d.splitter.Split(line)
		if err != nil {
			return splitError(err, "splitting row")
		}
		tally.RowsSeen++
		d.progress.Store(tally.RowsSeen)

		if idx >= row.Len() {
			tally.MissingColumn++
			d.warn.warnf("Row %d: missing column %s", tally.RowsSeen, d.conf.Column)
			continue
		}

		cell := row.Field(idx)
		x, err := ParseNumber(cell)
		if err != nil {
			tally.NumericBad++
			d.warn.warnf("Row %d: invalid number '%s'", tally.RowsSeen, cell)
			continue
		}

		if err := d.res.Stats.Push(x); err != nil {
			return status.New(status.InternalError, errors.Wrapf(err, "row %d", tally.RowsSeen))
		}
		if d.res.Distribution != nil {
			d.res.Distribution.Record(x)
		}
		tally.NumericOK++
	}
}

// splitError keeps the kind of a splitter failure and classifies anything
// else as malformed input.
func splitError(err error, msg string) error {
	var se *status.Error
	if errors.As(err, &se) {
		return errors.Wrap(err, msg)
	}
	return status.New(status.FormatError, errors.Wrap(err, msg))
}

// isBlankLine reports whether line is empty or only spaces and tabs.
func isBlankLine(line []byte) bool {
	for _, c := range line {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}
