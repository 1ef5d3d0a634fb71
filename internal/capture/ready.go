package capture

import (
	"context"
	"time"
)

// FixedDelay waits a fixed settle delay. The portal exposes no reliable
// "dashboard rendered" signal, so this is the default.
type FixedDelay struct {
	Delay time.Duration
}

func (f FixedDelay) Wait(ctx context.Context, _ Browser) error {
	if f.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(f.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SelectorReady waits until selector becomes visible on the page.
type SelectorReady struct {
	Selector string
}

func (s SelectorReady) Wait(ctx context.Context, b Browser) error {
	return b.WaitVisible(ctx, s.Selector)
}

// NewReadyStrategy picks SelectorReady when selector is set, FixedDelay otherwise.
func NewReadyStrategy(selector string, delay time.Duration) ReadyStrategy {
	if selector != "" {
		return SelectorReady{Selector: selector}
	}
	return FixedDelay{Delay: delay}
}
