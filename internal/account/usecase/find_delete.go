package usecase

import (
	"context"

	"emaktab-snapshot/internal/account"
	repo "emaktab-snapshot/internal/account/repository"
)

// FindByNameOrLogin returns ErrNotFound when no account matches query.
func (uc *implUseCase) FindByNameOrLogin(ctx context.Context, query string) (account.Account, error) {
	if query == "" {
		return account.Account{}, account.ErrNotFound
	}

	acc, err := uc.repo.GetOneAccount(ctx, repo.GetOneAccountOptions{NameOrLogin: query})
	if err != nil {
		uc.l.Errorf(ctx, "uc.FindByNameOrLogin GetOneAccount: %v", err)
		return account.Account{}, err
	}
	if acc.ID == "" {
		return account.Account{}, account.ErrNotFound
	}
	return acc, nil
}

// DeleteByLogin removes the account with login. Removed is false when nothing matched.
func (uc *implUseCase) DeleteByLogin(ctx context.Context, login string) (account.DeleteOutput, error) {
	if login == "" {
		return account.DeleteOutput{}, account.ErrNotFound
	}

	existing, err := uc.repo.GetOneAccount(ctx, repo.GetOneAccountOptions{Login: login})
	if err != nil {
		uc.l.Errorf(ctx, "uc.DeleteByLogin GetOneAccount: %v", err)
		return account.DeleteOutput{}, err
	}

	removed, err := uc.repo.DeleteAccount(ctx, repo.DeleteAccountOptions{Login: login})
	if err != nil {
		uc.l.Errorf(ctx, "uc.DeleteByLogin DeleteAccount: %v", err)
		return account.DeleteOutput{}, err
	}
	return uc.deleted(ctx, existing, removed), nil
}

// DeleteByID removes the account with id. Removed is false when nothing matched.
func (uc *implUseCase) DeleteByID(ctx context.Context, id string) (account.DeleteOutput, error) {
	if id == "" {
		return account.DeleteOutput{}, account.ErrNotFound
	}

	existing, err := uc.repo.GetOneAccount(ctx, repo.GetOneAccountOptions{ID: id})
	if err != nil {
		uc.l.Errorf(ctx, "uc.DeleteByID GetOneAccount: %v", err)
		return account.DeleteOutput{}, err
	}

	removed, err := uc.repo.DeleteAccount(ctx, repo.DeleteAccountOptions{ID: id})
	if err != nil {
		uc.l.Errorf(ctx, "uc.DeleteByID DeleteAccount: %v", err)
		return account.DeleteOutput{}, err
	}
	return uc.deleted(ctx, existing, removed), nil
}

func (uc *implUseCase) deleted(ctx context.Context, acc account.Account, removed bool) account.DeleteOutput {
	if removed {
		uc.l.Infof(ctx, "account deleted: %s (%s)", acc.Name, acc.Login)
	}
	return account.DeleteOutput{Account: acc, Removed: removed}
}
