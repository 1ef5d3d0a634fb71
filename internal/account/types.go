package account

import "time"

// Account is a stored portal credential.
type Account struct {
	ID        string
	Name      string
	Login     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// --- UseCase Inputs ---

type CreateInput struct {
	Name     string
	Login    string
	Password string
}

// --- UseCase Outputs ---

type CreateOutput struct {
	Account Account
}

type ListOutput struct {
	Accounts []Account
}

type DeleteOutput struct {
	Account Account
	Removed bool
}
