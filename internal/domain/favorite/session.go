package favorite

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// SessionStorage keeps favorites in the browser session. The session cookie is
// separate from the account cookie, so favorites survive logout and are not
// shared across devices.
type SessionStorage struct {
	sm  *scs.SessionManager
	ctx context.Context
}

func NewSessionStorage(sm *scs.SessionManager, ctx context.Context) *SessionStorage {
	return &SessionStorage{sm: sm, ctx: ctx}
}

func (s *SessionStorage) Get(key string) ([]byte, bool) {
	if !s.sm.Exists(s.ctx, key) {
		return nil, false
	}
	return s.sm.GetBytes(s.ctx, key), true
}

func (s *SessionStorage) Set(key string, data []byte) error {
	s.sm.Put(s.ctx, key, data)
	return nil
}
