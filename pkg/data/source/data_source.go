package source

import (
	"bufio"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/timescale/csvstat/pkg/status"
)

const defaultReadSize = 4 << 20 // 4 MB

// stdin is swapped by tests.
var stdin io.Reader = os.Stdin

// stream keeps the bufio.Reader visible so a LineReader can read bytes from
// it directly without adding a second buffer.
type stream struct {
	*bufio.Reader
	file *os.File
}

func (s *stream) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Open returns the buffered stream described by conf. Closing the returned
// stream closes the underlying file; standard input is never closed.
// Failures to open the file are reported as a status.IOError.
func Open(conf *DataSourceConfig) (io.ReadCloser, error) {
	if err := conf.Validate(); err != nil {
		return nil, status.New(status.ArgumentError, err)
	}
	if conf.Type == StdinDataSourceType {
		return &stream{Reader: bufio.NewReaderSize(stdin, defaultReadSize)}, nil
	}

	file, err := os.Open(conf.File.Location)
	if err != nil {
		return nil, status.New(status.IOError, err)
	}
	var r io.Reader = file
	if conf.File.snappy() {
		r = snappy.NewReader(r)
	}
	return &stream{Reader: bufio.NewReaderSize(r, defaultReadSize), file: file}, nil
}
