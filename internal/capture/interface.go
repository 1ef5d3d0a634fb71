package capture

import (
	"context"

	"emaktab-snapshot/internal/account"
)

// Capturer logs into the portal as acc and returns the dashboard screenshot.
// Failures are reported in Outcome.Err, never as panics.
type Capturer interface {
	Capture(ctx context.Context, acc account.Account) Outcome
}

// Driver launches isolated, non-persistent headless browsers.
type Driver interface {
	Name() string
	Launch(ctx context.Context) (Browser, error)
}

// Browser is one launched browser with a single page open.
// Close must release every process and temp dir the launch created.
type Browser interface {
	Goto(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Submit(ctx context.Context, selector, label string) error
	WaitVisible(ctx context.Context, selector string) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// ReadyStrategy decides when the post-login page is ready to be captured.
type ReadyStrategy interface {
	Wait(ctx context.Context, b Browser) error
}
