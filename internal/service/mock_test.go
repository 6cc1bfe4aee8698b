package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
)

// testClock is shared by the services and the memory store so TTLs and
// timestamps move together.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload any
}

// MockPublisher records every publish; Err makes it fail.
type MockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	Err    error
}

func (p *MockPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (p *MockPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MockPublisher) Last() publishedEvent {
	events := p.Events()
	if len(events) == 0 {
		return publishedEvent{}
	}
	return events[len(events)-1]
}

// unavailableStore fails every call the way RedisStore does when redis is down.
type unavailableStore struct{}

func errUnavailable(op string) error {
	return fmt.Errorf("%w: redis %s: connection refused", cache.ErrUnavailable, op)
}

func (unavailableStore) Put(context.Context, string, []byte, time.Duration) error {
	return errUnavailable("set")
}
func (unavailableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errUnavailable("get")
}
func (unavailableStore) Forget(context.Context, string) error { return errUnavailable("del") }
func (unavailableStore) Increment(context.Context, string, time.Duration) (int64, error) {
	return 0, errUnavailable("incr")
}
func (unavailableStore) Keys(context.Context, string) ([]string, error) {
	return nil, errUnavailable("scan")
}
func (unavailableStore) ScanPrefix(context.Context, string) ([][]byte, error) {
	return nil, errUnavailable("scan")
}
func (unavailableStore) ListRange(context.Context, string) ([][]byte, error) {
	return nil, errUnavailable("lrange")
}
func (unavailableStore) ListAppend(context.Context, string, []byte, int, time.Duration) error {
	return errUnavailable("rpush")
}
func (unavailableStore) ListTrim(context.Context, string, int) error {
	return errUnavailable("ltrim")
}
func (unavailableStore) Ping(context.Context) error { return errUnavailable("ping") }

type testEnv struct {
	clock     *testClock
	store     *cache.MemoryStore
	publisher *MockPublisher
	cfg       config.PresenceConfig
}

func newTestEnv() *testEnv {
	clock := newTestClock()
	return &testEnv{
		clock:     clock,
		store:     cache.NewMemoryStoreWithClock(clock.Now),
		publisher: &MockPublisher{},
		cfg:       config.Default().Presence,
	}
}

func (e *testEnv) presence() *presenceServiceImpl {
	svc := NewPresenceService(e.store, e.publisher, e.cfg, nil, zap.NewNop()).(*presenceServiceImpl)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) documents() *documentServiceImpl {
	svc := NewDocumentService(e.store, e.publisher, e.presence(), e.cfg, nil, zap.NewNop()).(*documentServiceImpl)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) sessions() *sessionServiceImpl {
	svc := NewSessionService(e.store, e.publisher, e.cfg, nil, zap.NewNop()).(*sessionServiceImpl)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) activity() *activityServiceImpl {
	svc := NewActivityService(e.store, e.publisher, e.cfg, nil, zap.NewNop()).(*activityServiceImpl)
	svc.now = e.clock.Now
	return svc
}

var (
	alice = domain.Caller{ID: "user-a", Name: "Alice", Email: "alice@example.com", AvatarURL: "https://cdn/a.png"}
	bob   = domain.Caller{ID: "user-b", Name: "Bob", Email: "bob@example.com"}
)
