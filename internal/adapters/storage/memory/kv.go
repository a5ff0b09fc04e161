package memory

import (
	"context"
	"strings"
	"sync"

	"petcast-web/internal/ports/storage"
)

// KV guarda en memoria; el estado se pierde al cerrar el proceso.
type KV struct {
	mu     sync.RWMutex
	byKey  map[string]string
	closed bool
}

func NewKV() *KV {
	return &KV{
		byKey: make(map[string]string),
	}
}

var _ storage.KV = (*KV)(nil)

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, storage.ErrClosed
	}
	v, ok := s.byKey[key]
	return v, ok, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	if strings.TrimSpace(key) == "" {
		return storage.ErrEmptyKey
	}
	s.byKey[key] = value
	return nil
}

func (s *KV) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	for _, k := range keys {
		delete(s.byKey, k)
	}
	return nil
}

func (s *KV) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
