package conversation

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// lruSessionStore keeps sessions in memory. Abandoned flows expire after ttl.
type lruSessionStore struct {
	sessions *expirable.LRU[int64, Session]
}

// NewSessionStore returns an in-memory SessionStore bounded by capacity
// entries. Sessions are lost on restart.
func NewSessionStore(capacity int, ttl time.Duration) SessionStore {
	if capacity <= 0 {
		capacity = 64
	}
	return &lruSessionStore{
		sessions: expirable.NewLRU[int64, Session](capacity, nil, ttl),
	}
}

func (s *lruSessionStore) Get(operatorID int64) (Session, bool) {
	return s.sessions.Get(operatorID)
}

func (s *lruSessionStore) Put(operatorID int64, sess Session) {
	s.sessions.Add(operatorID, sess)
}

func (s *lruSessionStore) Delete(operatorID int64) {
	s.sessions.Remove(operatorID)
}
