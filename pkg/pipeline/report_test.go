package pipeline

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"go.uber.org/atomic"
)

func TestReport(t *testing.T) {
	var out bytes.Buffer
	rows := atomic.NewUint64(0)
	start := time.Unix(1600000000, 0)
	r := newReporter(rows, log.New(&out, "", 0), start)

	rows.Store(100)
	r.report(start.Add(time.Second))
	rows.Store(400)
	r.report(start.Add(2 * time.Second))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("incorrect number of lines: got %d want 2\n%s", len(lines), out.String())
	}
	want := []string{
		"1600000001,100,100.00,100.00,",
		"1600000002,400,300.00,200.00,",
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, want[i]) {
			t.Errorf("incorrect line %d: got %q want prefix %q", i, line, want[i])
		}
		if fields := strings.Split(line, ","); len(fields) != 5 || fields[4] == "" {
			t.Errorf("incorrect fields in line %d: %q", i, line)
		}
	}
}

func TestStartReporterStops(t *testing.T) {
	var out bytes.Buffer
	rows := atomic.NewUint64(0)
	r := startReporter(time.Millisecond, rows, log.New(&out, "", 0))
	rows.Store(5)
	time.Sleep(5 * time.Millisecond)
	r.stop()

	got := out.String()
	if !strings.HasPrefix(got, reportHeader+"\n") {
		t.Errorf("expected report header, got %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.0KiB"},
		{1536, "1.5KiB"},
		{1 << 20, "1.0MiB"},
		{5 << 30, "5.0GiB"},
	}
	for _, c := range cases {
		if got := formatBytes(c.in); got != c.want {
			t.Errorf("incorrect format for %d: got %q want %q", c.in, got, c.want)
		}
	}
}
