package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emaktab-snapshot/internal/account"
	"emaktab-snapshot/internal/capture"
	"emaktab-snapshot/internal/snapshot"
	"emaktab-snapshot/internal/snapshot/usecase"
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

type mockAccounts struct {
	account.UseCase
	accounts []account.Account
	listErr  error
}

func (m *mockAccounts) List(ctx context.Context) (account.ListOutput, error) {
	if m.listErr != nil {
		return account.ListOutput{}, m.listErr
	}
	return account.ListOutput{Accounts: m.accounts}, nil
}

// mockCapturer fails for logins in fail and optionally blocks until release is closed.
type mockCapturer struct {
	mu      sync.Mutex
	fail    map[string]bool
	order   []string
	started chan struct{}
	release chan struct{}
}

func (m *mockCapturer) Capture(ctx context.Context, acc account.Account) capture.Outcome {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	m.order = append(m.order, acc.Login)
	m.mu.Unlock()
	if m.fail[acc.Login] {
		return capture.Outcome{Account: acc, Err: capture.ErrAutomationFailure}
	}
	return capture.Outcome{Account: acc, Image: []byte("png-" + acc.Login)}
}

type sent struct {
	chatID  int64
	text    string
	photo   []byte
	caption string
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (m *mockNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{chatID: chatID, text: text})
	return m.err
}

func (m *mockNotifier) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{chatID: chatID, photo: png, caption: caption})
	return m.err
}

var twoAccounts = []account.Account{
	{ID: "1", Name: "A", Login: "a1", Password: "p"},
	{ID: "2", Name: "B", Login: "b1", Password: "q"},
}

func TestRunAll(t *testing.T) {
	ctx := context.Background()

	t.Run("one failure does not abort the batch", func(t *testing.T) {
		capt := &mockCapturer{fail: map[string]bool{"a1": true}}
		notif := &mockNotifier{}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts}, capt, notif, []int64{100}, &mockLogger{})

		report, err := uc.RunAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, report.Total)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		assert.NotEmpty(t, report.RunID)
		assert.False(t, report.FinishedAt.Before(report.StartedAt))
		assert.Equal(t, []string{"a1", "b1"}, capt.order)

		require.Len(t, notif.sent, 2)
		assert.Equal(t, int64(100), notif.sent[0].chatID)
		assert.Equal(t, "⚠️ A (a1) uchun skrinshot olishda xatolik yuz berdi.", notif.sent[0].text)
		assert.Nil(t, notif.sent[0].photo)
		assert.Equal(t, []byte("png-b1"), notif.sent[1].photo)
		assert.Equal(t, "📸 eMaktab skrinshoti\n👤 B\n🔐 Login: b1", notif.sent[1].caption)
	})

	t.Run("empty store sends nothing", func(t *testing.T) {
		notif := &mockNotifier{}
		uc := usecase.New(&mockAccounts{}, &mockCapturer{}, notif, []int64{100}, &mockLogger{})

		report, err := uc.RunAll(ctx)

		require.NoError(t, err)
		assert.Zero(t, report.Total)
		assert.Empty(t, notif.sent)
	})

	t.Run("list failure", func(t *testing.T) {
		uc := usecase.New(&mockAccounts{listErr: errors.New("db down")}, &mockCapturer{}, &mockNotifier{}, []int64{100}, &mockLogger{})

		_, err := uc.RunAll(ctx)

		assert.ErrorIs(t, err, snapshot.ErrListAccounts)
	})

	t.Run("delivery errors are ignored", func(t *testing.T) {
		notif := &mockNotifier{err: errors.New("telegram down")}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts}, &mockCapturer{}, notif, []int64{100}, &mockLogger{})

		report, err := uc.RunAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, report.Succeeded)
		assert.Len(t, notif.sent, 2)
	})

	t.Run("every recipient gets every result", func(t *testing.T) {
		notif := &mockNotifier{}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts}, &mockCapturer{}, notif, []int64{100, 200}, &mockLogger{})

		_, err := uc.RunAll(ctx)

		require.NoError(t, err)
		require.Len(t, notif.sent, 4)
		assert.Equal(t, int64(100), notif.sent[0].chatID)
		assert.Equal(t, int64(200), notif.sent[1].chatID)
	})

	t.Run("first succeeds second fails", func(t *testing.T) {
		capt := &mockCapturer{fail: map[string]bool{"b1": true}}
		notif := &mockNotifier{}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts}, capt, notif, []int64{100}, &mockLogger{})

		report, err := uc.RunAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, []sent{
			{chatID: 100, photo: []byte("png-a1"), caption: usecase.PhotoCaption("A", "a1")},
			{chatID: 100, text: usecase.FailureText("B", "b1")},
		}, notif.sent)
	})

	t.Run("repeated runs deliver the same sequence", func(t *testing.T) {
		capt := &mockCapturer{fail: map[string]bool{"b1": true}}
		notif := &mockNotifier{}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts}, capt, notif, []int64{100, 200}, &mockLogger{})

		_, err := uc.RunAll(ctx)
		require.NoError(t, err)
		first := append([]sent(nil), notif.sent...)

		_, err = uc.RunAll(ctx)
		require.NoError(t, err)

		require.Len(t, first, 4)
		require.Len(t, notif.sent, 8)
		assert.Equal(t, first, notif.sent[4:])
	})

	t.Run("concurrent run is rejected", func(t *testing.T) {
		capt := &mockCapturer{started: make(chan struct{}, 2), release: make(chan struct{})}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts[:1]}, capt, &mockNotifier{}, []int64{100}, &mockLogger{})

		done := make(chan error, 1)
		go func() {
			_, err := uc.RunAll(ctx)
			done <- err
		}()

		select {
		case <-capt.started:
		case <-time.After(time.Second):
			t.Fatal("first run did not start")
		}

		_, err := uc.RunAll(ctx)
		assert.ErrorIs(t, err, snapshot.ErrRunInProgress)

		close(capt.release)
		require.NoError(t, <-done)
	})

	t.Run("cancelled context stops between accounts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		capt := &mockCapturer{}
		uc := usecase.New(&mockAccounts{accounts: twoAccounts}, capt, &mockNotifier{}, []int64{100}, &mockLogger{})

		report, err := uc.RunAll(cctx)

		require.NoError(t, err)
		assert.Empty(t, capt.order)
		assert.Equal(t, 2, report.Total)
	})
}
