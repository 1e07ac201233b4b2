package source

import (
	"bufio"
	"io"

	"github.com/timescale/csvstat/pkg/status"
)

const (
	// initialLineCapacity is the size of the buffer allocated by NewLineReader.
	initialLineCapacity = 128

	maxInt = int(^uint(0) >> 1)
)

// LineReader reads newline-terminated lines of arbitrary length from a stream
// into a single reusable buffer.
//
// The slice returned by Next is borrowed: it aliases the reader's buffer and
// is only valid until the next call to Next or Close. Callers that need a line
// (or any part of it) afterwards must copy it.
type LineReader struct {
	br     io.ByteReader
	buf    []byte
	limit  int
	sawEOF bool
	lines  uint64
}

// LineReaderOption configures a LineReader.
type LineReaderOption func(*LineReader)

// WithMaxLineBytes bounds the capacity the line buffer may grow to. A line
// that does not fit makes Next fail with an AllocationError. Zero means no
// bound other than the integer range.
func WithMaxLineBytes(n int) LineReaderOption {
	return func(lr *LineReader) {
		if n > 0 {
			lr.limit = n
		}
	}
}

// NewLineReader returns a LineReader bound to r. The reader does not take
// ownership of r and never closes it.
func NewLineReader(r io.Reader, opts ...LineReaderOption) *LineReader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	lr := &LineReader{
		br:    br,
		buf:   make([]byte, 0, initialLineCapacity),
		limit: maxInt,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// grow makes sure the buffer can hold needed bytes, doubling its capacity as
// many times as required.
func (lr *LineReader) grow(needed int) error {
	if needed <= cap(lr.buf) {
		return nil
	}
	newCap := cap(lr.buf)
	if newCap == 0 {
		newCap = initialLineCapacity
	}
	for newCap < needed {
		if newCap > lr.limit/2 {
			return status.Errorf(status.AllocationError, "line buffer cannot grow past %d bytes", newCap)
		}
		newCap *= 2
	}
	buf := make([]byte, len(lr.buf), newCap)
	copy(buf, lr.buf)
	lr.buf = buf
	return nil
}

// Next reads the next line, without its terminating "\n" and without a "\r"
// immediately preceding that "\n". A final line that is not terminated by a
// newline is still returned.
//
// Next returns io.EOF when there are no more lines. Once end of stream has
// been seen, every later call returns io.EOF without reading from the stream.
// Read failures are reported as a status.IOError.
func (lr *LineReader) Next() ([]byte, error) {
	if lr.sawEOF {
		return nil, io.EOF
	}
	lr.buf = lr.buf[:0]

	for {
		b, err := lr.br.ReadByte()
		if err == io.EOF {
			lr.sawEOF = true
			if len(lr.buf) == 0 {
				return nil, io.EOF
			}
			break
		}
		if err != nil {
			return nil, status.New(status.IOError, err)
		}

		// room for this byte and the terminator slot
		if err := lr.grow(len(lr.buf) + 2); err != nil {
			return nil, err
		}

		if b == '\n' {
			if n := len(lr.buf); n > 0 && lr.buf[n-1] == '\r' {
				lr.buf = lr.buf[:n-1]
			}
			break
		}
		lr.buf = append(lr.buf, b)
	}

	lr.lines++
	return lr.buf, nil
}

// LineNumber returns the number of lines returned by Next so far.
func (lr *LineReader) LineNumber() uint64 {
	return lr.lines
}

// Close releases the line buffer. It is safe to call more than once; after
// Close, Next always returns io.EOF.
func (lr *LineReader) Close() {
	lr.buf = nil
	lr.br = nil
	lr.sawEOF = true
}
