package sqlite

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emaktab-snapshot/internal/account"
	repo "emaktab-snapshot/internal/account/repository"
)

func create(t *testing.T, r repo.Repository, name, login string) account.Account {
	t.Helper()
	acc, err := r.CreateAccount(context.Background(), repo.CreateAccountOptions{Name: name, Login: login, Password: "pw-" + login})
	require.NoError(t, err)
	return acc
}

func TestCreateAccount(t *testing.T) {
	r, _ := setupTestRepo(t)

	acc := create(t, r, "Alice", "alice1")
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "Alice", acc.Name)
	assert.Equal(t, "alice1", acc.Login)
	assert.Equal(t, "pw-alice1", acc.Password)
	assert.False(t, acc.CreatedAt.IsZero())
	assert.Equal(t, acc.CreatedAt, acc.UpdatedAt)
}

func TestCreateAccount_DuplicateLogin(t *testing.T) {
	r, _ := setupTestRepo(t)
	ctx := context.Background()

	create(t, r, "Alice", "alice1")
	create(t, r, "Bob", "bob1")

	_, err := r.CreateAccount(ctx, repo.CreateAccountOptions{Name: "Another Alice", Login: "alice1", Password: "x"})
	require.ErrorIs(t, err, repo.ErrDuplicateKey)

	all, err := r.ListAccounts(ctx, repo.ListAccountsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateAccount_SameNameDifferentLogin(t *testing.T) {
	r, _ := setupTestRepo(t)

	create(t, r, "Alice", "alice1")
	create(t, r, "Alice", "alice2")

	all, err := r.ListAccounts(context.Background(), repo.ListAccountsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListAccounts_OrderedByName(t *testing.T) {
	r, _ := setupTestRepo(t)

	for _, name := range []string{"Charlie", "alice", "Bob", "Alice", "Dave"} {
		create(t, r, name, "login-"+name)
	}

	all, err := r.ListAccounts(context.Background(), repo.ListAccountsOptions{OrderBy: repo.OrderByNameAsc})
	require.NoError(t, err)
	require.Len(t, all, 5)

	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name
	}
	assert.True(t, sort.StringsAreSorted(names), "names not sorted: %v", names)
}

func TestListAccounts_Empty(t *testing.T) {
	r, _ := setupTestRepo(t)

	all, err := r.ListAccounts(context.Background(), repo.ListAccountsOptions{})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGetOneAccount(t *testing.T) {
	r, _ := setupTestRepo(t)
	ctx := context.Background()

	alice := create(t, r, "Alice", "alice1")
	create(t, r, "Bob", "bob1")

	t.Run("by name", func(t *testing.T) {
		got, err := r.GetOneAccount(ctx, repo.GetOneAccountOptions{NameOrLogin: "Alice"})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("by login", func(t *testing.T) {
		got, err := r.GetOneAccount(ctx, repo.GetOneAccountOptions{NameOrLogin: "alice1"})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := r.GetOneAccount(ctx, repo.GetOneAccountOptions{ID: alice.ID})
		require.NoError(t, err)
		assert.Equal(t, "alice1", got.Login)
	})

	t.Run("not found", func(t *testing.T) {
		got, err := r.GetOneAccount(ctx, repo.GetOneAccountOptions{NameOrLogin: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})

	t.Run("empty filter", func(t *testing.T) {
		_, err := r.GetOneAccount(ctx, repo.GetOneAccountOptions{})
		assert.ErrorIs(t, err, repo.ErrEmptyFilter)
	})
}

func TestDeleteAccount(t *testing.T) {
	r, _ := setupTestRepo(t)
	ctx := context.Background()

	alice := create(t, r, "Alice", "alice1")
	create(t, r, "Bob", "bob1")

	removed, err := r.DeleteAccount(ctx, repo.DeleteAccountOptions{ID: alice.ID})
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.DeleteAccount(ctx, repo.DeleteAccountOptions{ID: alice.ID})
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = r.DeleteAccount(ctx, repo.DeleteAccountOptions{Login: "bob1"})
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.DeleteAccount(ctx, repo.DeleteAccountOptions{Login: "ghost"})
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = r.DeleteAccount(ctx, repo.DeleteAccountOptions{})
	assert.ErrorIs(t, err, repo.ErrEmptyFilter)

	all, err := r.ListAccounts(ctx, repo.ListAccountsOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteThenRecreate(t *testing.T) {
	r, _ := setupTestRepo(t)
	ctx := context.Background()

	create(t, r, "Alice", "alice1")
	_, err := r.DeleteAccount(ctx, repo.DeleteAccountOptions{Login: "alice1"})
	require.NoError(t, err)

	acc, err := r.CreateAccount(ctx, repo.CreateAccountOptions{Name: "Alice", Login: "alice1", Password: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", acc.Password)
}
