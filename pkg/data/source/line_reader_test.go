package source

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/timescale/csvstat/pkg/status"
)

func readAllLines(t *testing.T, lr *LineReader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := lr.Next()
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines = append(lines, string(line))
	}
}

func TestLineReaderNext(t *testing.T) {
	cases := []struct {
		desc  string
		input string
		want  []string
	}{
		{desc: "empty stream", input: "", want: nil},
		{desc: "single terminated line", input: "a,b\n", want: []string{"a,b"}},
		{desc: "unterminated final line", input: "a,b\nc,d", want: []string{"a,b", "c,d"}},
		{desc: "empty lines kept", input: "\n\nx\n", want: []string{"", "", "x"}},
		{desc: "crlf normalized", input: "a,b\r\nc,d\r\n", want: []string{"a,b", "c,d"}},
		{desc: "only one cr stripped", input: "a\r\r\n", want: []string{"a\r"}},
		{desc: "lone cr kept", input: "a\rb\n", want: []string{"a\rb"}},
		{desc: "cr at unterminated end kept", input: "a\r", want: []string{"a\r"}},
		{desc: "bare crlf", input: "\r\n", want: []string{""}},
		{desc: "long line", input: strings.Repeat("x", 1000) + "\n", want: []string{strings.Repeat("x", 1000)}},
	}
	for _, c := range cases {
		got := readAllLines(t, NewLineReader(strings.NewReader(c.input)))
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%s: lines mismatch (-want +got):\n%s", c.desc, diff)
		}
	}
}

func TestLineReaderChunkingIndependent(t *testing.T) {
	inputs := []string{
		"",
		"h1,h2\n1,2\n3,4",
		"a\r\nb\r\n\r\n",
		strings.Repeat("0123456789", 300) + "\n" + strings.Repeat("y", 129),
	}
	for _, input := range inputs {
		whole := readAllLines(t, NewLineReader(strings.NewReader(input)))
		oneByte := readAllLines(t, NewLineReader(iotest.OneByteReader(strings.NewReader(input))))
		half := readAllLines(t, NewLineReader(iotest.HalfReader(strings.NewReader(input))))
		dataErr := readAllLines(t, NewLineReader(iotest.DataErrReader(strings.NewReader(input))))
		if diff := cmp.Diff(whole, oneByte); diff != "" {
			t.Errorf("one byte reads differ (-whole +oneByte):\n%s", diff)
		}
		if diff := cmp.Diff(whole, half); diff != "" {
			t.Errorf("half reads differ (-whole +half):\n%s", diff)
		}
		if diff := cmp.Diff(whole, dataErr); diff != "" {
			t.Errorf("data with EOF reads differ (-whole +dataErr):\n%s", diff)
		}
	}
}

// countingReader counts the calls made to it after it has reported io.EOF.
type countingReader struct {
	r          io.Reader
	eofSeen    bool
	readsAfter int
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.eofSeen {
		c.readsAfter++
		return 0, io.EOF
	}
	n, err := c.r.Read(p)
	if err == io.EOF {
		c.eofSeen = true
	}
	return n, err
}

func TestLineReaderStickyEOF(t *testing.T) {
	cr := &countingReader{r: strings.NewReader("last")}
	lr := NewLineReader(iotest.OneByteReader(cr))

	line, err := lr.Next()
	if err != nil || string(line) != "last" {
		t.Fatalf("got %q, %v want %q, nil", line, err, "last")
	}
	for i := 0; i < 3; i++ {
		if _, err := lr.Next(); err != io.EOF {
			t.Errorf("call %d after EOF: got %v want io.EOF", i, err)
		}
	}
	if cr.readsAfter != 0 {
		t.Errorf("stream read %d times after EOF was recorded", cr.readsAfter)
	}
	if got := lr.LineNumber(); got != 1 {
		t.Errorf("line number: got %d want 1", got)
	}
}

func TestLineReaderIOError(t *testing.T) {
	boom := errors.New("device gone")
	r := io.MultiReader(strings.NewReader("ok\npartial"), &failingReader{err: boom})
	lr := NewLineReader(r)

	line, err := lr.Next()
	if err != nil || string(line) != "ok" {
		t.Fatalf("got %q, %v want %q, nil", line, err, "ok")
	}
	_, err = lr.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("got %v want an I/O error", err)
	}
	if !status.Is(err, status.IOError) {
		t.Errorf("got kind %v want %v", status.CodeOf(err), status.IOError)
	}
	if !errors.Is(err, boom) {
		t.Errorf("underlying error lost: %v", err)
	}
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

func TestLineReaderGrowthLimit(t *testing.T) {
	lr := NewLineReader(strings.NewReader(strings.Repeat("a", 200)+"\n"), WithMaxLineBytes(256))
	line, err := lr.Next()
	if err != nil {
		t.Fatalf("unexpected error under the limit: %v", err)
	}
	if len(line) != 200 {
		t.Errorf("got length %d want 200", len(line))
	}

	lr = NewLineReader(strings.NewReader(strings.Repeat("a", 300)+"\n"), WithMaxLineBytes(256))
	_, err = lr.Next()
	if !status.Is(err, status.AllocationError) {
		t.Errorf("got %v want an allocation error", err)
	}
}

func TestLineReaderGrowthDoubles(t *testing.T) {
	lr := NewLineReader(strings.NewReader(strings.Repeat("b", 300)))
	if got := cap(lr.buf); got != initialLineCapacity {
		t.Fatalf("initial capacity: got %d want %d", got, initialLineCapacity)
	}
	if _, err := lr.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cap(lr.buf); got != 4*initialLineCapacity {
		t.Errorf("capacity after growth: got %d want %d", got, 4*initialLineCapacity)
	}
}

func TestLineReaderBorrowedLine(t *testing.T) {
	lr := NewLineReader(strings.NewReader("first\nsecond\n"))
	first, _ := lr.Next()
	kept := string(first)
	borrowed := first

	second, _ := lr.Next()
	if kept != "first" {
		t.Errorf("copied line changed: got %q", kept)
	}
	if !bytes.Equal(borrowed[:len("secon")], second[:len("secon")]) {
		t.Errorf("borrowed line does not alias the reader buffer")
	}
}

func TestLineReaderClose(t *testing.T) {
	lr := NewLineReader(strings.NewReader("a\nb\n"))
	if _, err := lr.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lr.Close()
	lr.Close()
	for i := 0; i < 2; i++ {
		if _, err := lr.Next(); err != io.EOF {
			t.Errorf("Next after Close: got %v want io.EOF", err)
		}
	}
}
