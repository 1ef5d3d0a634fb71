package telegram

import (
	"context"
	"time"
)

const pollRetryDelay = 3 * time.Second

// Poll long-polls getUpdates and queues every message for Run. Transient
// errors are logged and retried after a short pause.
func (h *handler) Poll(ctx context.Context) error {
	var offset int64
	h.l.Infof(ctx, "telegram poller: started (timeout %s)", h.cfg.PollTimeout)

	for {
		if err := ctx.Err(); err != nil {
			h.l.Infof(ctx, "telegram poller: stopped")
			return nil
		}

		pollCtx, cancel := context.WithTimeout(ctx, h.cfg.PollTimeout+10*time.Second)
		updates, err := h.bot.GetUpdates(pollCtx, offset, h.cfg.PollTimeout)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			h.l.Warnf(ctx, "telegram poller: getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil {
				continue
			}
			// Block rather than drop: Telegram redelivers only what we have not acked.
			select {
			case h.queue <- update:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
