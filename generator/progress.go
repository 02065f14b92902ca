package generator

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// progressInterval is the spec-mandated refresh rate for the progress line.
const progressInterval = 250 * time.Millisecond

// RunProgressReporter writes "\rTried %d keys (%.1f keys/s)" to w every
// 250ms until stop is set, then returns. It is meant to run in its own
// goroutine, started by the coordinator's caller alongside Run.
func RunProgressReporter(w io.Writer, co *Coordinator, stop *atomic.Bool) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for range ticker.C {
		if stop.Load() {
			return
		}
		attempts := co.Stats().Attempts
		elapsed := co.Elapsed().Seconds()
		var rate float64
		if elapsed > 0 {
			rate = float64(attempts) / elapsed
		}
		fmt.Fprintf(w, "\rTried %d keys (%.1f keys/s)", attempts, rate)
	}
}
