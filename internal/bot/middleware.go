package bot

import (
	"lacasita/internal/metrics"
)

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncPanic()
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// goSafe runs fn in the background, tracked by Wait.
func (b *Bot) goSafe(fn func()) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		b.withRecovery(fn)
	}()
}
