package usecase

import (
	"context"

	"emaktab-snapshot/internal/account"
	repo "emaktab-snapshot/internal/account/repository"
)

// List returns every Account ordered by name.
func (uc *implUseCase) List(ctx context.Context) (account.ListOutput, error) {
	accounts, err := uc.repo.ListAccounts(ctx, repo.ListAccountsOptions{OrderBy: repo.OrderByNameAsc})
	if err != nil {
		uc.l.Errorf(ctx, "uc.List ListAccounts: %v", err)
		return account.ListOutput{}, err
	}
	return account.ListOutput{Accounts: accounts}, nil
}
