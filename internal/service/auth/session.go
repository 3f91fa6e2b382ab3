package auth

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Session is the logged-in identity carried through a request.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"-"`
	Name   string `json:"name"`
}

// SessionStore holds live sessions in an in-process TTL cache. It is an
// injected dependency, not a package global, so tests get isolated stores.
type SessionStore struct {
	mem *gocache.Cache
}

const DefaultSessionTTL = 12 * time.Hour

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{mem: gocache.New(ttl, time.Hour)}
}

func (s *SessionStore) Put(sess Session) {
	s.mem.Set(sess.Token, sess, gocache.DefaultExpiration)
}

func (s *SessionStore) Get(token string) (Session, bool) {
	x, found := s.mem.Get(token)
	if !found {
		return Session{}, false
	}
	sess, ok := x.(Session)
	return sess, ok
}

func (s *SessionStore) Delete(token string) {
	s.mem.Delete(token)
}
