// Package lock serializes writers that touch the same property calendar.
//
// Locks are advisory: PostgreSQL's calendar primary key remains the source of
// truth for exclusivity. Holding the property lock narrows the window in which
// two writers run the read-then-decide overlap check at the same time, so the
// loser gets a descriptive conflict instead of a constraint violation.
package lock

import (
	"context"
	"sort"
)

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

// Locker acquires exclusive, key-scoped locks.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// LockAll acquires every key in sorted order and returns a single Unlock.
// Duplicate keys are acquired once.
func LockAll(ctx context.Context, l Locker, keys ...string) (Unlock, error) {
	uniq := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	held := make([]Unlock, 0, len(ordered))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
	for _, k := range ordered {
		unlock, err := l.Lock(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		held = append(held, unlock)
	}
	return releaseAll, nil
}

// PropertyKey is the lock key guarding one property's calendar.
func PropertyKey(propertyID string) string {
	return "lock:property:" + propertyID
}
