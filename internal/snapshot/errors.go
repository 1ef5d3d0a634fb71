package snapshot

import "errors"

var (
	// ErrRunInProgress is returned when a batch is requested while another is running.
	ErrRunInProgress = errors.New("snapshot run already in progress")
	ErrListAccounts  = errors.New("failed to list accounts")
)
