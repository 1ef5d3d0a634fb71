package usecase

import (
	"context"
	"errors"

	"emaktab-snapshot/internal/account"
	repo "emaktab-snapshot/internal/account/repository"
)

// Create stores a new Account. Uniqueness of the login is enforced by the
// store itself so two concurrent creates cannot both succeed.
func (uc *implUseCase) Create(ctx context.Context, input account.CreateInput) (account.CreateOutput, error) {
	if input.Name == "" || input.Login == "" || input.Password == "" {
		return account.CreateOutput{}, account.ErrInvalidPayload
	}

	acc, err := uc.repo.CreateAccount(ctx, repo.CreateAccountOptions{
		Name:     input.Name,
		Login:    input.Login,
		Password: input.Password,
	})
	if errors.Is(err, repo.ErrDuplicateKey) {
		return account.CreateOutput{}, account.ErrDuplicateLogin
	}
	if err != nil {
		uc.l.Errorf(ctx, "uc.Create CreateAccount: %v", err)
		return account.CreateOutput{}, err
	}

	uc.l.Infof(ctx, "account created: %s (%s)", acc.Name, acc.Login)
	return account.CreateOutput{Account: acc}, nil
}
