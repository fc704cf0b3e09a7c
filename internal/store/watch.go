package store

import "sync"

// tracker maps table names to the live queries currently reading them.
//
// Each subscription owns a size-1 buffered signal channel: a burst of
// commits against a watched table collapses into at most one pending
// signal, so a subscriber re-runs its query once per burst instead of once
// per write. Subscriptions are removed when their observer stops, keeping
// the registration set bounded by the number of active observers.
type tracker struct {
	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

type subscription struct {
	tables []string
	signal chan struct{}
}

func newTracker() *tracker {
	return &tracker{subs: make(map[string]map[*subscription]struct{})}
}

// register creates a subscription listening on the given tables.
func (t *tracker) register(tables ...string) *subscription {
	sub := &subscription{
		tables: tables,
		signal: make(chan struct{}, 1),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, table := range tables {
		set, ok := t.subs[table]
		if !ok {
			set = make(map[*subscription]struct{})
			t.subs[table] = set
		}
		set[sub] = struct{}{}
	}
	return sub
}

// unregister removes the subscription from every table it listens on.
func (t *tracker) unregister(sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, table := range sub.tables {
		delete(t.subs[table], sub)
		if len(t.subs[table]) == 0 {
			delete(t.subs, table)
		}
	}
}

// notify signals every subscription registered against the given tables.
// Called after a successful commit, never during a transaction. The
// non-blocking send coalesces with any signal already pending.
func (t *tracker) notify(tables ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[*subscription]struct{})
	for _, table := range tables {
		for sub := range t.subs[table] {
			if _, dup := seen[sub]; dup {
				continue
			}
			seen[sub] = struct{}{}
			select {
			case sub.signal <- struct{}{}:
			default:
			}
		}
	}
}
