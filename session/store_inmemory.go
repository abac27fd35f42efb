package session

import (
	"context"
	"sync"
	"time"

	errs "restaurante-portal/internal/errors"
)

// InMemoryStore keeps session key maps in process memory. Sessions do not
// survive a restart; it backs tests and single-node development.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string // sid -> storage keys
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]map[string]string),
		now:      time.Now,
	}
}

func (s *InMemoryStore) Get(_ context.Context, sid string) (Session, error) {
	if sid == "" {
		return Session{}, errs.ErrSessionNotFound
	}

	// Copy while holding the lock: SetAccessToken mutates the stored map
	// in place, so decoding must never touch it unlocked.
	s.mu.RLock()
	stored, ok := s.sessions[sid]
	var keys map[string]string
	if ok {
		keys = make(map[string]string, len(stored))
		for k, v := range stored {
			keys[k] = v
		}
	}
	s.mu.RUnlock()
	if !ok {
		return Session{}, errs.ErrSessionNotFound
	}

	sess, err := decodeKeys(keys)
	if err != nil {
		return Session{}, errs.Wrapf(err, "in-memory store get %q", sid)
	}

	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
		return Session{}, errs.ErrSessionNotFound
	}

	return sess, nil
}

func (s *InMemoryStore) Set(_ context.Context, sid string, sess Session) error {
	if sid == "" {
		return errs.Wrapf(errs.ErrInternal, "in-memory store set: empty session id")
	}

	keys, err := encodeKeys(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[sid] = keys
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) SetAccessToken(_ context.Context, sid string, role Role, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, ok := s.sessions[sid]
	if !ok {
		return errs.ErrSessionNotFound
	}
	keys[AccessTokenKey(role)] = access
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	return nil
}
