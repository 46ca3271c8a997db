package debug

// Goroutine and stack metrics, logged only in debug mode to rule out
// goroutine or stack driven RSS growth.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartGoroutineLogger logs the goroutine count and stack memory every
// interval until ctx is done.
func StartGoroutineLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		defer recoverLog(logger, "goroutine logger panic")
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logger.Info("goroutine-stacks",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("stack_sys", ms.StackSys),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
			)
		}
	}()
}
