package capture

import (
	"time"

	"emaktab-snapshot/internal/account"
)

// Options describe the target login form. Values are opaque to the pipeline.
type Options struct {
	LoginURL         string
	LoginSelector    string
	PasswordSelector string
	SubmitSelector   string
	SubmitLabel      string
}

// Outcome is the result of one capture. Exactly one of Image or Err is set.
type Outcome struct {
	Account  account.Account
	Image    []byte
	Err      error
	Duration time.Duration
}

// Failed reports whether the capture produced no image.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
