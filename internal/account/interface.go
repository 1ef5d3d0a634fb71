package account

import "context"

//go:generate mockery --name UseCase
type UseCase interface {
	// Create stores a new account. Returns ErrDuplicateLogin if the login is taken.
	Create(ctx context.Context, input CreateInput) (CreateOutput, error)
	// List returns every account ordered by name ascending.
	List(ctx context.Context) (ListOutput, error)
	// FindByNameOrLogin returns the first account whose name or login equals query.
	FindByNameOrLogin(ctx context.Context, query string) (Account, error)
	DeleteByLogin(ctx context.Context, login string) (DeleteOutput, error)
	DeleteByID(ctx context.Context, id string) (DeleteOutput, error)
}
