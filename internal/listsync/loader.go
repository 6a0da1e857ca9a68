// Package listsync owns pagination offset, request sequencing and list state
// for incremental, filterable list views. A Loader drives an injected paged
// search collaborator and stays correct under rapid filter changes, forced
// refreshes and scroll-triggered continuation fetches: every initiated fetch
// captures a generation number, and a response is applied only if its
// generation is still current when it resolves. Superseded responses are
// discarded silently; the underlying request is never cancelled at the
// transport level.
package listsync

import (
	"context"
	"sync"
)

// DefaultLimit is the page size used when none is configured
const DefaultLimit = 30

// Page is one window of results from the search collaborator
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total"`
}

// SearchFunc is the injected search collaborator. It must be idempotent for
// identical arguments and must not mutate the filter set. Implementations
// typically wrap a remote API call; errors should carry a human-readable
// message.
type SearchFunc[F, T any] func(ctx context.Context, filters F, limit, offset int) (Page[T], error)

// Snapshot is a read-only copy of the loader state for the rendering layer
type Snapshot[T any] struct {
	Items          []T
	TotalCount     int
	HasMore        bool
	LoadingInitial bool
	LoadingMore    bool
	Err            error
}

// Status is the counters-and-flags part of a Snapshot, without the items.
// Callers that only arm spinners or sentinels use this to avoid copying
// the item slice.
type Status struct {
	Count          int
	TotalCount     int
	HasMore        bool
	LoadingInitial bool
	LoadingMore    bool
	Err            error
}

// Loader is an incremental list-loading controller. F is the opaque filter
// set passed through to the collaborator, T the item type. One Loader serves
// one list view; all state dies with it.
type Loader[F, T any] struct {
	search  SearchFunc[F, T]
	filters func() F // current filter set, read at fetch initiation
	limit   int
	notify  func() // change notification, invoked after every state transition

	mu             sync.Mutex
	gen            uint64 // generation counter; identifies the current session
	offset         int
	inFlight       bool
	items          []T
	totalCount     int
	hasMore        bool
	loadingInitial bool
	loadingMore    bool
	err            error
}

// Option configures a Loader
type Option func(*options)

type options struct {
	limit  int
	notify func()
}

// WithLimit sets the page size. The limit is fixed for the lifetime of the
// Loader.
func WithLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithNotify sets a callback invoked whenever the loader state changes.
// It is called from the fetch goroutine (and from the caller's goroutine on
// initiation), so it must be safe to invoke concurrently.
func WithNotify(fn func()) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// New creates a Loader for the given collaborator and filter source
func New[F, T any](search SearchFunc[F, T], filters func() F, opts ...Option) *Loader[F, T] {
	o := &options{limit: DefaultLimit}
	for _, opt := range opts {
		opt(o)
	}
	return &Loader[F, T]{
		search:  search,
		filters: filters,
		limit:   o.limit,
		notify:  o.notify,
	}
}

// Reset begins a new session: the filters changed, or the data must be
// considered invalid. With force false the call is dropped if a fetch is
// already in flight (the guard against duplicate resets from rapid typing);
// with force true the new session always starts and any in-flight fetch is
// superseded, its eventual response discarded by the generation check.
// Returns whether a fetch was initiated.
func (l *Loader[F, T]) Reset(ctx context.Context, force bool) bool {
	l.mu.Lock()
	if l.inFlight && !force {
		l.mu.Unlock()
		return false
	}
	l.gen++
	myGen := l.gen
	l.offset = 0
	l.inFlight = true
	l.loadingInitial = true
	l.loadingMore = false
	l.err = nil
	filters := l.filters()
	limit := l.limit
	l.mu.Unlock()

	l.changed()
	go l.fetch(ctx, myGen, filters, limit, 0, false)
	return true
}

// LoadMore fetches the next page of the current session and appends it.
// It is a no-op when a fetch is in flight, when the session is exhausted
// (hasMore false) or when no session has been started yet. Continuations
// never preempt each other, so there is no force option. Returns whether a
// fetch was initiated.
func (l *Loader[F, T]) LoadMore(ctx context.Context) bool {
	l.mu.Lock()
	if l.inFlight || !l.hasMore || l.gen == 0 {
		l.mu.Unlock()
		return false
	}
	// Continuation belongs to the session of the last reset: capture the
	// generation without incrementing it.
	myGen := l.gen
	offset := l.offset
	l.inFlight = true
	l.loadingMore = true
	l.err = nil
	filters := l.filters()
	limit := l.limit
	l.mu.Unlock()

	l.changed()
	go l.fetch(ctx, myGen, filters, limit, offset, true)
	return true
}

// fetch runs the collaborator call and applies the result. Staleness is
// decided by comparing the captured generation against the counter at
// resolution time, not at initiation time.
func (l *Loader[F, T]) fetch(ctx context.Context, myGen uint64, filters F, limit, offset int, appendPage bool) {
	page, err := l.search(ctx, filters, limit, offset)

	l.mu.Lock()
	if myGen != l.gen {
		// Stale: a newer session started while this fetch was in flight.
		// No state mutation of any kind, including busy flags: those now
		// describe the newer session's fetch.
		l.mu.Unlock()
		return
	}
	l.inFlight = false
	l.loadingInitial = false
	l.loadingMore = false

	if err != nil {
		// Keep prior items and total so a failed refresh does not blank
		// the view. A failed reset disarms continuation: its offset no
		// longer matches the visible items, so appending would corrupt
		// the list. A failed continuation stays retryable.
		l.err = err
		if !appendPage {
			l.hasMore = false
		}
		l.mu.Unlock()
		l.changed()
		return
	}

	if appendPage {
		l.items = append(l.items, page.Items...)
	} else {
		l.items = append([]T(nil), page.Items...)
	}
	l.totalCount = page.TotalCount
	l.offset = offset + len(page.Items)
	l.hasMore = len(page.Items) == limit && l.offset < page.TotalCount
	l.err = nil
	l.mu.Unlock()
	l.changed()
}

// Snapshot returns a copy of the current list state
func (l *Loader[F, T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return Snapshot[T]{
		Items:          items,
		TotalCount:     l.totalCount,
		HasMore:        l.hasMore,
		LoadingInitial: l.loadingInitial,
		LoadingMore:    l.loadingMore,
		Err:            l.err,
	}
}

// Status returns the counters and flags without copying items
func (l *Loader[F, T]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		Count:          len(l.items),
		TotalCount:     l.totalCount,
		HasMore:        l.hasMore,
		LoadingInitial: l.loadingInitial,
		LoadingMore:    l.loadingMore,
		Err:            l.err,
	}
}

// Item returns the item at index i and whether it exists
func (l *Loader[F, T]) Item(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	if i < 0 || i >= len(l.items) {
		return zero, false
	}
	return l.items[i], true
}

// Len returns the number of loaded items
func (l *Loader[F, T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// ClearError dismisses a surfaced fetch error without touching list state
func (l *Loader[F, T]) ClearError() {
	l.mu.Lock()
	cleared := l.err != nil
	l.err = nil
	l.mu.Unlock()
	if cleared {
		l.changed()
	}
}

func (l *Loader[F, T]) changed() {
	if l.notify != nil {
		l.notify()
	}
}
