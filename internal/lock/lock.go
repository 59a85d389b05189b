package lock

import (
	"context"
	"sort"
	"sync"
)

// Locker serializes catalog mutations. Lock acquires every key (duplicates
// allowed) and returns a func that releases them all.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// normalize sorts and dedupes keys so concurrent callers acquire in the same order.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type keyedMutex struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process Locker. Entries are dropped once nobody holds or waits on them.
type Local struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*keyedMutex)}
}

func (l *Local) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	held := make([]string, 0, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.unlockKey(held[i])
		}
	}

	for _, k := range keys {
		if err := l.lockKey(ctx, k); err != nil {
			release()
			return nil, err
		}
		held = append(held, k)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *Local) lockKey(ctx context.Context, key string) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &keyedMutex{ch: make(chan struct{}, 1)}
		l.locks[key] = m
	}
	m.refs++
	l.mu.Unlock()

	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		l.dropRef(key, m)
		l.mu.Unlock()
		return ctx.Err()
	}
}

func (l *Local) unlockKey(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		return
	}
	<-m.ch
	l.dropRef(key, m)
}

func (l *Local) dropRef(key string, m *keyedMutex) {
	m.refs--
	if m.refs == 0 {
		delete(l.locks, key)
	}
}
