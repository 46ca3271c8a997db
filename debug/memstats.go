package debug

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// StartMemLogger logs Go heap stats next to the process resident set size
// every interval until ctx is done, to tell native growth (Tk photos, sqlite
// pages) from heap growth. An RSS query failure is logged once.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		defer recoverLog(logger, "memlog panic")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := residentBytes()
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("memstats",
				slog.Int("goroutines", runtime.NumGoroutine()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("heap_idle", ms.HeapIdle),
				slog.Uint64("heap_sys", ms.HeapSys),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("rss", rss),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil && logger != nil {
		logger.Error(msg, "error", r)
	}
}
