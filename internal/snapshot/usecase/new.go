package usecase

import (
	"sync"

	"emaktab-snapshot/internal/account"
	"emaktab-snapshot/internal/capture"
	"emaktab-snapshot/internal/snapshot"
	pkgLog "emaktab-snapshot/pkg/log"
)

type implUseCase struct {
	accounts   account.UseCase
	capturer   capture.Capturer
	notifier   snapshot.Notifier
	recipients []int64
	l          pkgLog.Logger

	running sync.Mutex
}

// New creates the batch runner. Results go to every chat in recipients.
func New(
	accounts account.UseCase,
	capturer capture.Capturer,
	notifier snapshot.Notifier,
	recipients []int64,
	l pkgLog.Logger,
) snapshot.UseCase {
	return &implUseCase{
		accounts:   accounts,
		capturer:   capturer,
		notifier:   notifier,
		recipients: append([]int64(nil), recipients...),
		l:          l,
	}
}
