package conversation

import "errors"

// ErrNotAuthorized is returned when a sender outside the operator allow-list
// tries to start a flow.
var ErrNotAuthorized = errors.New("sender is not an operator")
