package status

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestCodeValues(t *testing.T) {
	cases := []struct {
		code    Code
		value   int
		msg     string
		context string
	}{
		{OK, 0, "ok", ""},
		{ArgumentError, 2, "invalid arguments", "cli"},
		{IOError, 3, "I/O error", "io"},
		{FormatError, 4, "invalid CSV format", "format"},
		{ColumnNotFound, 5, "column not found", "header"},
		{AllocationError, 6, "out of memory", "memory"},
		{InternalError, 10, "internal error", "internal"},
		{Code(99), 99, "unknown error", "internal"},
	}
	for _, c := range cases {
		if int(c.code) != c.value {
			t.Errorf("code %v: got value %d want %d", c.code, int(c.code), c.value)
		}
		if got := c.code.String(); got != c.msg {
			t.Errorf("code %d: got message %q want %q", c.value, got, c.msg)
		}
		if got := c.code.Context(); got != c.context {
			t.Errorf("code %d: got context %q want %q", c.value, got, c.context)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != OK {
		t.Errorf("nil error: got %v want %v", got, OK)
	}
	if got := CodeOf(io.ErrUnexpectedEOF); got != InternalError {
		t.Errorf("foreign error: got %v want %v", got, InternalError)
	}

	err := New(IOError, io.ErrUnexpectedEOF)
	wrapped := errors.Wrap(err, "reading header")
	if got := CodeOf(wrapped); got != IOError {
		t.Errorf("wrapped error: got %v want %v", got, IOError)
	}
	if !Is(wrapped, IOError) {
		t.Errorf("Is did not match wrapped IOError")
	}
	if Is(nil, OK) {
		t.Errorf("Is matched a nil error")
	}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Errorf("underlying cause not reachable through Unwrap")
	}
}

func TestErrorMessage(t *testing.T) {
	if got, want := New(FormatError, nil).Error(), "invalid CSV format"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if got, want := Errorf(AllocationError, "limit %d", 8).Error(), "out of memory (limit 8)"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		want string
	}{
		{
			desc: "io with detail",
			err:  New(IOError, errors.New("no such file or directory")),
			want: "io: I/O error (no such file or directory)",
		},
		{
			desc: "column without detail",
			err:  New(ColumnNotFound, nil),
			want: "header: column not found",
		},
		{
			desc: "wrapped keeps the kind",
			err:  errors.Wrap(New(FormatError, nil), "header"),
			want: "format: invalid CSV format",
		},
		{
			desc: "foreign error is internal",
			err:  errors.New("boom"),
			want: "internal: internal error (boom)",
		},
	}
	for _, c := range cases {
		if got := Report(c.err); got != c.want {
			t.Errorf("%s: got %q want %q", c.desc, got, c.want)
		}
	}
}
