package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore keeps pending codes in a process-wide map. Suitable for
// single-process deployments only; codes do not survive a restart, which
// is acceptable because they are short-lived and re-issuable.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = entry{
		code:      code,
		expiresAt: s.now().Add(CodeTTL),
	}
	return nil
}

func (s *MemoryStore) CheckAndConsume(_ context.Context, email, code string) (bool, error) {
	// The lock covers the whole read-check-delete sequence so two
	// concurrent verifications cannot both consume the same code.
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}
	if e.code != code {
		return false, nil
	}

	delete(s.entries, email)
	return true, nil
}
