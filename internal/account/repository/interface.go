package repository

import (
	"context"

	"emaktab-snapshot/internal/account"
)

// Repository is the composed interface for the account data store.
type Repository interface {
	AccountRepository
}

// AccountRepository defines all data access methods for the Account entity.
// There is deliberately no update: accounts are replaced by delete + create.
type AccountRepository interface {
	CreateAccount(ctx context.Context, opt CreateAccountOptions) (account.Account, error)
	GetOneAccount(ctx context.Context, opt GetOneAccountOptions) (account.Account, error)
	ListAccounts(ctx context.Context, opt ListAccountsOptions) ([]account.Account, error)
	DeleteAccount(ctx context.Context, opt DeleteAccountOptions) (bool, error)
}
