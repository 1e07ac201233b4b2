package pipeline

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
	"go.uber.org/atomic"
)

const reportHeader = "time,rows total,per. row/s,overall row/s,rss"

// reporter periodically logs how many rows have been processed and the
// resident memory of the process.
type reporter struct {
	rows   *atomic.Uint64
	logger *log.Logger
	proc   *process.Process

	start    time.Time
	prevTime time.Time
	prevRows uint64

	done chan struct{}
	wg   sync.WaitGroup
}

func newReporter(rows *atomic.Uint64, logger *log.Logger, start time.Time) *reporter {
	r := &reporter{
		rows:     rows,
		logger:   logger,
		start:    start,
		prevTime: start,
		done:     make(chan struct{}),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		r.proc = p
	}
	return r
}

func startReporter(period time.Duration, rows *atomic.Uint64, logger *log.Logger) *reporter {
	r := newReporter(rows, logger, time.Now())
	r.logger.Println(reportHeader)
	r.wg.Add(1)
	go r.loop(period)
	return r
}

func (r *reporter) loop(period time.Duration) {
	defer r.wg.Done()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			r.report(now)
		case <-r.done:
			return
		}
	}
}

// stop ends the reporting goroutine and waits for it to exit.
func (r *reporter) stop() {
	close(r.done)
	r.wg.Wait()
}

func (r *reporter) rss() string {
	if r.proc == nil {
		return "-"
	}
	mem, err := r.proc.MemoryInfo()
	if err != nil {
		return "-"
	}
	return formatBytes(mem.RSS)
}

func (r *reporter) report(now time.Time) {
	rows := r.rows.Load()
	sinceStart := now.Sub(r.start)
	took := now.Sub(r.prevTime)

	rate := float64(rows-r.prevRows) / took.Seconds()
	overall := float64(rows) / sinceStart.Seconds()
	r.logger.Printf("%d,%d,%0.2f,%0.2f,%s", now.Unix(), rows, rate, overall, r.rss())

	r.prevRows = rows
	r.prevTime = now
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatUint(n, 10) + "B"
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
