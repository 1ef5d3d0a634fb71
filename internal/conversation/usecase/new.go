package usecase

import (
	"time"

	"emaktab-snapshot/internal/account"
	"emaktab-snapshot/internal/conversation"
	pkgLog "emaktab-snapshot/pkg/log"
)

type implUseCase struct {
	accounts  account.UseCase
	sessions  conversation.SessionStore
	operators map[int64]struct{}
	l         pkgLog.Logger
	now       func() time.Time
}

// New creates the conversation state machine. Only senders in operators may
// start or advance a flow.
func New(accounts account.UseCase, sessions conversation.SessionStore, operators []int64, l pkgLog.Logger) conversation.UseCase {
	allowed := make(map[int64]struct{}, len(operators))
	for _, id := range operators {
		allowed[id] = struct{}{}
	}
	return &implUseCase{
		accounts:  accounts,
		sessions:  sessions,
		operators: allowed,
		l:         l,
		now:       time.Now,
	}
}

func (uc *implUseCase) IsOperator(senderID int64) bool {
	_, ok := uc.operators[senderID]
	return ok
}
