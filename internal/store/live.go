package store

import "context"

// Snapshot is one element of a live query sequence: either a freshly
// computed result or a terminal error. After a Snapshot with Err set, the
// channel closes - an observer never goes quiet without saying why.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// Observe produces a live query over the given tables: one snapshot
// immediately, then one more after every committed write that touches a
// watched table, each computed by re-running query against a fresh read.
//
// The subscription is registered before the first read, so a commit
// landing between the initial query and the first signal wait is never
// missed. Snapshots are delivered in commit order by the single observer
// goroutine; bursts of writes may coalesce into one re-run, but a stale
// snapshot is never delivered after a newer one.
//
// Cancelling ctx deregisters the observer and closes the channel. Each
// call builds an independent sequence; concurrent observers of the same
// query do not share state.
func Observe[T any](ctx context.Context, s *Store, tables []string, query func(context.Context) (T, error)) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	sub := s.watch.register(tables...)

	go func() {
		defer close(out)
		defer s.watch.unregister(sub)

		for {
			v, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Terminal failure: surface it, then stop.
				select {
				case out <- Snapshot[T]{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case out <- Snapshot[T]{Value: v}:
			case <-ctx.Done():
				return
			}

			select {
			case <-sub.signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
