// Package csvsplit splits a single CSV line into fields without copying.
//
// Only the comma separates fields. There is no quoting or escaping: a comma
// is always a separator. Each field is trimmed of leading and trailing spaces
// and tabs, and empty fields are kept.
package csvsplit

import (
	"github.com/pkg/errors"
	"github.com/timescale/csvstat/pkg/status"
)

const (
	// DefaultCapacity is the number of field slots allocated when New is
	// given zero.
	DefaultCapacity = 16

	maxInt = int(^uint(0) >> 1)
)

// ErrNotFound is returned by FindColumn when no field matches.
var ErrNotFound = errors.New("csvsplit: column not found")

// Row is a view of the fields of one line. It aliases both the line passed
// to Split and the scratch storage of the Splitter that produced it, so it is
// only valid until the line buffer is reused or Split is called again.
type Row struct {
	fields [][]byte
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.fields)
}

// Field returns field i as a borrowed slice of the line.
func (r Row) Field(i int) []byte {
	return r.fields[i]
}

// String returns a copy of field i that remains valid after the row is
// overwritten.
func (r Row) String(i int) string {
	return string(r.fields[i])
}

// Strings returns copies of all fields.
func (r Row) Strings() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = string(f)
	}
	return out
}

// Splitter owns the reusable field scratch array.
type Splitter struct {
	scratch [][]byte
	limit   int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxFields bounds the number of field slots the scratch array may grow
// to. Rows with more fields make Split fail with an AllocationError.
func WithMaxFields(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.limit = n
		}
	}
}

// New returns a Splitter with room for initialCapacity fields
// (DefaultCapacity if zero).
func New(initialCapacity int, opts ...Option) *Splitter {
	if initialCapacity <= 0 {
		initialCapacity = DefaultCapacity
	}
	s := &Splitter{
		scratch: make([][]byte, 0, initialCapacity),
		limit:   maxInt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cap returns the current scratch capacity in fields.
func (s *Splitter) Cap() int {
	return cap(s.scratch)
}

// Close releases the scratch array. It is safe to call more than once.
func (s *Splitter) Close() {
	s.scratch = nil
}

// ensure grows the scratch array to hold needed fields, doubling from the
// current capacity. Slots already written are preserved.
func (s *Splitter) ensure(needed int) error {
	if needed > s.limit {
		return status.Errorf(status.AllocationError, "row has more than %d fields", s.limit)
	}
	if needed <= cap(s.scratch) {
		return nil
	}
	newCap := cap(s.scratch)
	if newCap == 0 {
		newCap = DefaultCapacity
	}
	for newCap < needed {
		if newCap > maxInt/2 {
			return status.Errorf(status.AllocationError, "field scratch cannot grow past %d slots", newCap)
		}
		newCap *= 2
	}
	if newCap > s.limit {
		newCap = s.limit
	}
	scratch := make([][]byte, len(s.scratch), newCap)
	copy(scratch, s.scratch)
	s.scratch = scratch
	return nil
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func trim(f []byte) []byte {
	start, end := 0, len(f)
	for start < end && isBlank(f[start]) {
		start++
	}
	for end > start && isBlank(f[end-1]) {
		end--
	}
	return f[start:end]
}

// Split splits line into trimmed fields. The returned Row aliases line and
// the splitter's scratch array; the next call to Split overwrites it.
func (s *Splitter) Split(line []byte) (Row, error) {
	s.scratch = s.scratch[:0]
	start := 0
	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != ',' {
			continue
		}
		if err := s.ensure(len(s.scratch) + 1); err != nil {
			return Row{}, err
		}
		s.scratch = append(s.scratch, trim(line[start:i:i]))
		start = i + 1
	}
	return Row{fields: s.scratch}, nil
}

// FindColumn returns the index of the first field of row equal to name.
// The comparison is exact and case sensitive.
func FindColumn(row Row, name string) (int, error) {
	for i, f := range row.fields {
		if string(f) == name {
			return i, nil
		}
	}
	return -1, ErrNotFound
}
