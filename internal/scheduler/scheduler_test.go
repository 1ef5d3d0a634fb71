package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgLog "emaktab-snapshot/pkg/log"
)

func TestNew(t *testing.T) {
	noop := func(ctx context.Context) error { return nil }

	t.Run("valid", func(t *testing.T) {
		s, err := New(Config{Spec: "45 7 * * *", Timezone: "Asia/Tashkent"}, noop, pkgLog.NewNop())
		require.NoError(t, err)

		next := s.Next()
		assert.Equal(t, 7, next.Hour())
		assert.Equal(t, 45, next.Minute())
		assert.Equal(t, "Asia/Tashkent", next.Location().String())
		assert.True(t, next.After(time.Now()))
	})

	t.Run("invalid cron expression", func(t *testing.T) {
		_, err := New(Config{Spec: "not a cron", Timezone: "Asia/Tashkent"}, noop, pkgLog.NewNop())
		assert.Error(t, err)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		_, err := New(Config{Spec: "45 7 * * *", Timezone: "Mars/Olympus"}, noop, pkgLog.NewNop())
		assert.Error(t, err)
	})
}

func TestWrap(t *testing.T) {
	t.Run("job error is swallowed", func(t *testing.T) {
		var calls atomic.Int32
		s, err := New(Config{Spec: "45 7 * * *", Timezone: "UTC"}, func(ctx context.Context) error { return nil }, pkgLog.NewNop())
		require.NoError(t, err)

		fn := s.wrap(func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("boom")
		})
		assert.NotPanics(t, fn)
		assert.NotPanics(t, fn)
		assert.Equal(t, int32(2), calls.Load())
	})
}

// levelLogger records which levels were used.
type levelLogger struct {
	pkgLog.Logger
	warns atomic.Int32
	errs  atomic.Int32
}

func (l *levelLogger) Warnf(ctx context.Context, format string, args ...any)  { l.warns.Add(1) }
func (l *levelLogger) Errorf(ctx context.Context, format string, args ...any) { l.errs.Add(1) }

func TestWrap_LogLevel(t *testing.T) {
	tcs := map[string]struct {
		err        error
		wantWarns  int32
		wantErrors int32
	}{
		"success": {err: nil},
		"skipped": {err: fmt.Errorf("%w: batch already running", ErrSkipped), wantWarns: 1},
		"failure": {err: errors.New("db down"), wantErrors: 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			l := &levelLogger{Logger: pkgLog.NewNop()}
			s, err := New(Config{Spec: "45 7 * * *", Timezone: "UTC"}, func(ctx context.Context) error { return nil }, l)
			require.NoError(t, err)

			s.wrap(func(ctx context.Context) error { return tc.err })()

			assert.Equal(t, tc.wantWarns, l.warns.Load())
			assert.Equal(t, tc.wantErrors, l.errs.Load())
		})
	}
}

func TestScheduler_Fires(t *testing.T) {
	fired := make(chan struct{}, 4)
	s, err := New(Config{Spec: "@every 1s", Timezone: "UTC"}, func(ctx context.Context) error {
		fired <- struct{}{}
		panic("job panics")
	}, pkgLog.NewNop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	// A panicking job stays scheduled and fires again.
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(3 * time.Second):
			t.Fatalf("job did not fire (tick %d)", i+1)
		}
	}
}

func TestScheduler_Stop(t *testing.T) {
	s, err := New(Config{Spec: "45 7 * * *", Timezone: "UTC"}, func(ctx context.Context) error { return nil }, pkgLog.NewNop())
	require.NoError(t, err)

	s.Start()
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not complete")
	}
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	s, err := New(Config{Spec: "@every 1s", Timezone: "UTC"}, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, pkgLog.NewNop())
	require.NoError(t, err)

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire")
	}

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("running job was not cancelled")
	}
}
