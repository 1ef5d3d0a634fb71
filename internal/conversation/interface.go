package conversation

import "context"

//go:generate mockery --name UseCase
type UseCase interface {
	// IsOperator reports whether senderID is on the allow-list.
	IsOperator(senderID int64) bool
	// StartAdd begins the add flow, discarding any flow in progress.
	StartAdd(ctx context.Context, senderID int64) (Reply, error)
	// StartDelete lists accounts and waits for a name or login. With an empty
	// store no session is started.
	StartDelete(ctx context.Context, senderID int64) (Reply, error)
	// List renders every account. It does not touch the session.
	List(ctx context.Context, senderID int64) (Reply, error)
	// Advance feeds free text into the sender's flow. handled is false when the
	// sender has no flow in progress or is not an operator.
	Advance(ctx context.Context, senderID int64, text string) (reply Reply, handled bool, err error)
	// Cancel drops the sender's flow. cancelled is false when none existed.
	Cancel(ctx context.Context, senderID int64) (reply Reply, cancelled bool)
}

// SessionStore holds at most one Session per operator.
type SessionStore interface {
	Get(operatorID int64) (Session, bool)
	Put(operatorID int64, s Session)
	Delete(operatorID int64)
}
