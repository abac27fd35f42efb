package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	errs "restaurante-portal/internal/errors"
)

// FileStore persists each session's key map as a JSON file under the
// configured data folder, so sessions survive a portal restart the way the
// browser app's sessions survived a page reload. Suitable for a single
// node; use the Redis store when running more than one instance.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: create %q: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) Get(_ context.Context, sid string) (Session, error) {
	path, err := s.path(sid)
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.read(path)
	if err != nil {
		return Session{}, err
	}

	sess, err := decodeKeys(keys)
	if err != nil {
		return Session{}, errs.Wrapf(err, "file store get %q", sid)
	}

	if sess.Expired(s.now()) {
		_ = os.Remove(path)
		return Session{}, errs.ErrSessionNotFound
	}

	return sess, nil
}

func (s *FileStore) Set(_ context.Context, sid string, sess Session) error {
	path, err := s.path(sid)
	if err != nil {
		return err
	}

	keys, err := encodeKeys(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(path, keys)
}

func (s *FileStore) SetAccessToken(_ context.Context, sid string, role Role, access string) error {
	path, err := s.path(sid)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.read(path)
	if err != nil {
		return err
	}
	keys[AccessTokenKey(role)] = access
	return s.write(path, keys)
}

func (s *FileStore) Clear(_ context.Context, sid string) error {
	path, err := s.path(sid)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file store clear %q: %w", sid, err)
	}
	return nil
}

func (s *FileStore) path(sid string) (string, error) {
	if sid == "" || strings.ContainsAny(sid, "/\\.") {
		return "", errs.ErrSessionNotFound
	}
	return filepath.Join(s.dir, "session-"+sid+".json"), nil
}

func (s *FileStore) read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file store read: %w", err)
	}

	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("file store decode: %w", err)
	}
	return keys, nil
}

// write lands the record via a temp file and rename so a crash mid-write
// never leaves a half-serialized session behind.
func (s *FileStore) write(path string, keys map[string]string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("file store encode: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("file store write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("file store rename: %w", err)
	}
	return nil
}
