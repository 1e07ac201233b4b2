package pipeline

import (
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// warner prints per-row warnings, optionally throttled.
type warner struct {
	w          io.Writer
	quiet      bool
	limiter    *rate.Limiter
	suppressed uint64
}

func newWarner(w io.Writer, quiet bool, perSecond float64) *warner {
	wr := &warner{w: w, quiet: quiet}
	if perSecond > 0 {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		wr.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return wr
}

func (wr *warner) warnf(format string, args ...interface{}) {
	if wr.quiet {
		return
	}
	if wr.limiter != nil && !wr.limiter.Allow() {
		wr.suppressed++
		return
	}
	fmt.Fprintf(wr.w, format+"\n", args...)
}
