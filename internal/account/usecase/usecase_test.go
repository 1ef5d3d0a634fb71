package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emaktab-snapshot/internal/account"
	"emaktab-snapshot/internal/account/repository"
	"emaktab-snapshot/internal/account/usecase"
)

// mock dependencies

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// mockRepo is an in-memory repository.Repository that enforces login uniqueness.
type mockRepo struct {
	accounts []account.Account
	seq      int
	failList bool
}

func (m *mockRepo) CreateAccount(ctx context.Context, opt repository.CreateAccountOptions) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Login == opt.Login {
			return account.Account{}, repository.ErrDuplicateKey
		}
	}
	m.seq++
	acc := account.Account{ID: fmt.Sprintf("id-%d", m.seq), Name: opt.Name, Login: opt.Login, Password: opt.Password}
	m.accounts = append(m.accounts, acc)
	return acc, nil
}

func (m *mockRepo) GetOneAccount(ctx context.Context, opt repository.GetOneAccountOptions) (account.Account, error) {
	for _, a := range m.accounts {
		if opt.ID != "" && a.ID != opt.ID {
			continue
		}
		if opt.Login != "" && a.Login != opt.Login {
			continue
		}
		if opt.NameOrLogin != "" && a.Name != opt.NameOrLogin && a.Login != opt.NameOrLogin {
			continue
		}
		return a, nil
	}
	return account.Account{}, nil
}

func (m *mockRepo) ListAccounts(ctx context.Context, opt repository.ListAccountsOptions) ([]account.Account, error) {
	if m.failList {
		return nil, repository.ErrFailedToList
	}
	out := append([]account.Account{}, m.accounts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRepo) DeleteAccount(ctx context.Context, opt repository.DeleteAccountOptions) (bool, error) {
	for i, a := range m.accounts {
		if (opt.ID != "" && a.ID == opt.ID) || (opt.ID == "" && a.Login == opt.Login) {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newUC() (account.UseCase, *mockRepo) {
	r := &mockRepo{}
	return usecase.New(r, &mockLogger{}), r
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		uc, r := newUC()
		out, err := uc.Create(ctx, account.CreateInput{Name: "Alice", Login: "alice1", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", out.Account.Name)
		assert.Len(t, r.accounts, 1)
	})

	t.Run("duplicate login keeps count unchanged", func(t *testing.T) {
		uc, r := newUC()
		_, err := uc.Create(ctx, account.CreateInput{Name: "Alice", Login: "alice1", Password: "secret"})
		require.NoError(t, err)
		_, err = uc.Create(ctx, account.CreateInput{Name: "Bob", Login: "bob1", Password: "secret"})
		require.NoError(t, err)

		_, err = uc.Create(ctx, account.CreateInput{Name: "Alice 2", Login: "alice1", Password: "other"})
		assert.ErrorIs(t, err, account.ErrDuplicateLogin)
		assert.Len(t, r.accounts, 2)
	})

	t.Run("empty fields", func(t *testing.T) {
		uc, r := newUC()
		for _, in := range []account.CreateInput{
			{Login: "a", Password: "b"},
			{Name: "a", Password: "b"},
			{Name: "a", Login: "b"},
		} {
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, account.ErrInvalidPayload)
		}
		assert.Empty(t, r.accounts)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC()

	for _, n := range []string{"Charlie", "Alice", "Bob"} {
		_, err := uc.Create(ctx, account.CreateInput{Name: n, Login: n + "-login", Password: "x"})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, out.Accounts, 3)
	assert.Equal(t, "Alice", out.Accounts[0].Name)
	assert.Equal(t, "Bob", out.Accounts[1].Name)
	assert.Equal(t, "Charlie", out.Accounts[2].Name)
}

func TestList_Error(t *testing.T) {
	uc, r := newUC()
	r.failList = true

	_, err := uc.List(context.Background())
	assert.True(t, errors.Is(err, repository.ErrFailedToList))
}

func TestFindByNameOrLogin(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC()
	_, err := uc.Create(ctx, account.CreateInput{Name: "Alice", Login: "alice1", Password: "x"})
	require.NoError(t, err)

	got, err := uc.FindByNameOrLogin(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice1", got.Login)

	got, err = uc.FindByNameOrLogin(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = uc.FindByNameOrLogin(ctx, "nobody")
	assert.ErrorIs(t, err, account.ErrNotFound)

	_, err = uc.FindByNameOrLogin(ctx, "")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	uc, r := newUC()
	a, err := uc.Create(ctx, account.CreateInput{Name: "Alice", Login: "alice1", Password: "x"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, account.CreateInput{Name: "Bob", Login: "bob1", Password: "x"})
	require.NoError(t, err)

	out, err := uc.DeleteByID(ctx, a.Account.ID)
	require.NoError(t, err)
	assert.True(t, out.Removed)
	assert.Equal(t, "Alice", out.Account.Name)

	out, err = uc.DeleteByLogin(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, out.Removed)
	assert.Len(t, r.accounts, 1)

	out, err = uc.DeleteByLogin(ctx, "bob1")
	require.NoError(t, err)
	assert.True(t, out.Removed)
	assert.Empty(t, r.accounts)
}
