package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/findmyfood/internal/metrics"
)

// State is the lifecycle of a memo entry.
type State string

// Memo entry states.
const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateEmpty   State = "empty"
)

type entry[T any] struct {
	state   State
	value   T
	expires time.Time
}

// Memo caches fetched values per key with at most one fetch in flight per key.
// Concurrent callers of a pending key share its result. A failed fetch leaves
// no entry behind, so the next call retries.
type Memo[T any] struct {
	name    string
	ttl     time.Duration
	isEmpty func(T) bool
	now     func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*entry[T]
}

// NewMemo creates a memo. isEmpty decides which values are stored as empty;
// nil treats every value as ready. A non-positive ttl keeps entries until invalidated.
func NewMemo[T any](name string, ttl time.Duration, isEmpty func(T) bool) *Memo[T] {
	return &Memo[T]{
		name:    name,
		ttl:     ttl,
		isEmpty: isEmpty,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the cached value for key or runs fetch once for all concurrent callers.
// The fetch is detached from the caller's cancellation so that one caller
// giving up does not fail the others; the caller itself still returns on ctx.Done.
func (m *Memo[T]) Get(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, State, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && e.state != StatePending && !m.expired(e) {
		v, st := e.value, e.state
		m.mu.Unlock()
		metrics.MemoTotal.WithLabelValues(m.name, "hit").Inc()
		return v, st, nil
	}
	m.mu.Unlock()

	// The pending entry belongs to the running call, never to a caller joining it.
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		pending := m.begin(key)
		v, err := fetch(detached)
		m.settle(key, pending, v, err)
		if err != nil {
			return nil, err
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, StatePending, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.MemoTotal.WithLabelValues(m.name, "shared").Inc()
		} else {
			metrics.MemoTotal.WithLabelValues(m.name, "miss").Inc()
		}
		if res.Err != nil {
			return zero, "", res.Err
		}
		v, _ := res.Val.(T)
		return v, m.stateOf(v), nil
	}
}

// Peek reports the state of key without fetching. Expired entries report absent.
func (m *Memo[T]) Peek(key string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || (e.state != StatePending && m.expired(e)) {
		return "", false
	}
	return e.state, true
}

// Invalidate drops key. An in-flight fetch for it completes but is not stored.
func (m *Memo[T]) Invalidate(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	m.group.Forget(key)
}

// begin publishes a fresh pending entry for key.
func (m *Memo[T]) begin(key string) *entry[T] {
	e := &entry[T]{state: StatePending}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return e
}

// settle records a finished fetch unless the entry was replaced or invalidated meanwhile.
func (m *Memo[T]) settle(key string, e *entry[T], v T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[key] != e {
		return
	}
	if err != nil {
		delete(m.entries, key)
		return
	}
	e.value = v
	e.state = m.stateOf(v)
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
}

func (m *Memo[T]) stateOf(v T) State {
	if m.isEmpty != nil && m.isEmpty(v) {
		return StateEmpty
	}
	return StateReady
}

func (m *Memo[T]) expired(e *entry[T]) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}
