package util

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogProgressFunc adds to the progress of a long-running operation.
// It can be called concurrently.
type LogProgressFunc func(addProgress int)

// LogProgress returns a function which logs the progress towards total in
// steps of roughly 10%, prefixed with msg.
func LogProgress(log zerolog.Logger, msg string, total int) LogProgressFunc {
	start := time.Now()
	step := total / 10
	if step == 0 {
		step = 1
	}

	var mu sync.Mutex
	current := 0
	nextLog := 0

	logAt := func(progress int) {
		percentage := float64(100)
		if total > 0 {
			percentage = float64(progress) / float64(total) * 100
		}
		log.Info().
			Int("progress", progress).
			Int("total", total).
			Dur("elapsed", time.Since(start).Round(time.Millisecond)).
			Msgf("%s progress %.1f%%", msg, percentage)
	}

	return func(add int) {
		if add <= 0 {
			return
		}
		mu.Lock()
		defer mu.Unlock()

		current += add
		if current >= nextLog || current >= total {
			logAt(current)
			for nextLog <= current {
				nextLog += step
			}
		}
	}
}
