package account

import "errors"

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateLogin = errors.New("account with this login already exists")
	ErrInvalidPayload = errors.New("name, login and password are required")
)
