package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"emaktab-snapshot/internal/scheduler"
	"emaktab-snapshot/internal/snapshot"
)

type stubRunner struct {
	err error
}

func (s stubRunner) RunAll(ctx context.Context) (snapshot.Report, error) {
	return snapshot.Report{}, s.err
}

func TestDailyJob(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, dailyJob(stubRunner{})(context.Background()))
	})

	t.Run("run in progress is a skip", func(t *testing.T) {
		err := dailyJob(stubRunner{err: snapshot.ErrRunInProgress})(context.Background())
		assert.ErrorIs(t, err, scheduler.ErrSkipped)
		assert.ErrorIs(t, err, snapshot.ErrRunInProgress)
	})

	t.Run("other errors stay failures", func(t *testing.T) {
		err := dailyJob(stubRunner{err: snapshot.ErrListAccounts})(context.Background())
		assert.ErrorIs(t, err, snapshot.ErrListAccounts)
		assert.False(t, errors.Is(err, scheduler.ErrSkipped))
	})
}
