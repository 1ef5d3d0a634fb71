package roddriver

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
)

func TestSessionStepContext(t *testing.T) {
	t.Run("release cancels the step timeout", func(t *testing.T) {
		s := &session{page: &rod.Page{}, timeout: time.Minute}

		page, release := s.p(context.Background())
		_, hasDeadline := page.GetContext().Deadline()
		assert.True(t, hasDeadline)
		assert.NoError(t, page.GetContext().Err())

		release()
		assert.ErrorIs(t, page.GetContext().Err(), context.Canceled)
	})

	t.Run("no timeout keeps caller context", func(t *testing.T) {
		s := &session{page: &rod.Page{}}
		ctx, cancel := context.WithCancel(context.Background())

		page, release := s.p(ctx)
		release()
		assert.NoError(t, page.GetContext().Err())

		cancel()
		assert.ErrorIs(t, page.GetContext().Err(), context.Canceled)
	})
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "rod", New(Config{}, nil).Name())
}
