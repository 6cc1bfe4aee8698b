package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	list      [][]byte
	isList    bool
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process Store with lazy expiry. It backs local runs
// (store.driver=memory) and unit tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock lets tests drive expiry deterministically.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

// live returns the entry at key, dropping it if expired. Caller holds mu.
func (s *MemoryStore) live(key string) (*memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: s.deadline(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || e.isList {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (s *MemoryStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if e, ok := s.live(key); ok {
		if e.isList {
			return 0, fmt.Errorf("cache: key %q holds a list", key)
		}
		n, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cache: key %q is not an integer: %w", key, err)
		}
		current = n
	}

	current++
	s.entries[key] = &memoryEntry{
		value:     []byte(strconv.FormatInt(current, 10)),
		expiresAt: s.deadline(ttl),
	}
	return current, nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keysLocked(prefix), nil
}

func (s *MemoryStore) keysLocked(prefix string) []string {
	keys := make([]string, 0)
	for key := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if _, ok := s.live(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) ScanPrefix(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([][]byte, 0)
	for _, key := range s.keysLocked(prefix) {
		e := s.entries[key]
		if e.isList {
			continue
		}
		values = append(values, append([]byte(nil), e.value...))
	}
	return values, nil
}

func (s *MemoryStore) ListRange(_ context.Context, key string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || !e.isList {
		return [][]byte{}, nil
	}
	values := make([][]byte, len(e.list))
	for i, item := range e.list {
		values[i] = append([]byte(nil), item...)
	}
	return values, nil
}

func (s *MemoryStore) ListAppend(_ context.Context, key string, value []byte, maxLen int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || !e.isList {
		e = &memoryEntry{isList: true}
		s.entries[key] = e
	}
	e.list = append(e.list, append([]byte(nil), value...))
	e.list = trimNewest(e.list, maxLen)
	if ttl > 0 {
		e.expiresAt = s.deadline(ttl)
	}
	return nil
}

func (s *MemoryStore) ListTrim(_ context.Context, key string, maxLen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.live(key); ok && e.isList {
		e.list = trimNewest(e.list, maxLen)
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func trimNewest(list [][]byte, maxLen int) [][]byte {
	if maxLen <= 0 || len(list) <= maxLen {
		return list
	}
	return append([][]byte(nil), list[len(list)-maxLen:]...)
}
