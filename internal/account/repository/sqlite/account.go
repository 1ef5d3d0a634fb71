package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"emaktab-snapshot/internal/account"
	repo "emaktab-snapshot/internal/account/repository"
)

const selectColumns = `SELECT id, name, login, password, created_at, updated_at FROM accounts`

// CreateAccount inserts a new Account row. A taken login yields repo.ErrDuplicateKey.
func (r *implRepository) CreateAccount(ctx context.Context, opt repo.CreateAccountOptions) (account.Account, error) {
	const query = `
		INSERT INTO accounts (id, name, login, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	now := r.now()
	acc := account.Account{
		ID:        r.id(),
		Name:      opt.Name,
		Login:     opt.Login,
		Password:  opt.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stamp := now.Format(time.RFC3339Nano)

	_, err := r.db.Writer.ExecContext(ctx, query, acc.ID, acc.Name, acc.Login, acc.Password, stamp, stamp)
	if err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, repo.ErrDuplicateKey
		}
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateAccount"), err)
		return account.Account{}, repo.ErrFailedToInsert
	}
	return acc, nil
}

// GetOneAccount returns the zero Account (ID == "") when nothing matches.
func (r *implRepository) GetOneAccount(ctx context.Context, opt repo.GetOneAccountOptions) (account.Account, error) {
	where, args := r.buildGetOneQuery(opt)
	if where == "" {
		return account.Account{}, repo.ErrEmptyFilter
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at ASC LIMIT 1", selectColumns, where)

	acc, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return account.Account{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneAccount"), err)
		return account.Account{}, repo.ErrFailedToGet
	}
	return acc, nil
}

// ListAccounts returns all accounts in the requested order.
func (r *implRepository) ListAccounts(ctx context.Context, opt repo.ListAccountsOptions) ([]account.Account, error) {
	query := fmt.Sprintf("%s ORDER BY %s", selectColumns, orderClause(opt.OrderBy))

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListAccounts"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	accounts := make([]account.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListAccounts"), err)
			return nil, repo.ErrFailedToList
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s iterate: %v", r.dsn("ListAccounts"), err)
		return nil, repo.ErrFailedToList
	}
	return accounts, nil
}

// DeleteAccount removes at most one Account and reports whether a row was removed.
func (r *implRepository) DeleteAccount(ctx context.Context, opt repo.DeleteAccountOptions) (bool, error) {
	var (
		query string
		arg   string
	)
	switch {
	case opt.ID != "":
		query, arg = `DELETE FROM accounts WHERE id = ?`, opt.ID
	case opt.Login != "":
		query, arg = `DELETE FROM accounts WHERE login = ?`, opt.Login
	default:
		return false, repo.ErrEmptyFilter
	}

	res, err := r.db.Writer.ExecContext(ctx, query, arg)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteAccount"), err)
		return false, repo.ErrFailedToDelete
	}
	n, err := res.RowsAffected()
	if err != nil {
		r.l.Errorf(ctx, "%s rows affected: %v", r.dsn("DeleteAccount"), err)
		return false, repo.ErrFailedToDelete
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (account.Account, error) {
	var (
		acc                  account.Account
		createdAt, updatedAt string
	)
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Login, &acc.Password, &createdAt, &updatedAt); err != nil {
		return account.Account{}, err
	}

	var err error
	if acc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return account.Account{}, fmt.Errorf("parse created_at: %w", err)
	}
	if acc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return account.Account{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return acc, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
