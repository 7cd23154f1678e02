package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/logger"
	"github.com/etnz/stocksboard/session"
)

// ErrCanceled is returned by Delete when the confirmation was declined.
var ErrCanceled = errors.New("canceled")

// Item is a listed record.
type Item interface {
	Key() int64
}

// Fetcher returns the full collection.
type Fetcher[T Item] func(ctx context.Context, s stocksboard.Session) ([]T, error)

// Remover deletes one item server side.
type Remover func(ctx context.Context, s stocksboard.Session, id int64) error

// List is the list-mutate-refresh controller: it holds the last fetched
// collection, removes single items locally after a successful delete and
// re-fetches on demand.
type List[T Item] struct {
	Lifetime

	// Confirm, when set, is asked before every delete; false cancels it.
	Confirm func(item T) bool

	name   string
	store  *session.Store
	fetch  Fetcher[T]
	remove Remover

	mu    sync.Mutex
	items []T
}

// NewList returns an unmounted list of name (used in logs).
func NewList[T Item](name string, store *session.Store, fetch Fetcher[T], remove Remover) *List[T] {
	return &List[T]{name: name, store: store, fetch: fetch, remove: remove}
}

// Items returns a copy of the current collection.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Find returns the listed item with id.
func (l *List[T]) Find(id int64) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Load fetches the full collection and replaces the local one. Without a
// session nothing is fetched and the list stays empty. On failure the list
// is emptied and the error is returned; nothing is retried.
func (l *List[T]) Load(ctx context.Context) error {
	log := logger.Get()
	s, err := l.store.Get(ctx)
	if err != nil {
		return err
	}
	if s.IsZero() {
		log.Debug().Str("view", l.name).Msg("no session, nothing fetched")
		l.set(nil)
		return nil
	}

	var items []T
	err = l.do(ctx, func(ctx context.Context) (err error) {
		items, err = l.fetch(ctx, s)
		return err
	})
	if errors.Is(err, stocksboard.ErrUnmounted) {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Str("view", l.name).Msg("failed to fetch")
		l.set(nil)
		return err
	}
	l.set(items)
	return nil
}

// Reload re-fetches the full collection.
func (l *List[T]) Reload(ctx context.Context) error { return l.Load(ctx) }

// Delete issues exactly one delete for id and, on success, removes that item
// from the local collection without re-fetching. On failure the collection is
// unchanged.
//
// With a Confirm hook the item must be listed, so that it can be named, and a
// declined confirmation returns ErrCanceled without any request.
func (l *List[T]) Delete(ctx context.Context, id int64) error {
	if l.remove == nil {
		return fmt.Errorf("%ss cannot be deleted", l.name)
	}
	if l.Confirm != nil {
		item, ok := l.Find(id)
		if !ok {
			return fmt.Errorf("%w: no %s with id %d", stocksboard.ErrNotFound, l.name, id)
		}
		if !l.Confirm(item) {
			return ErrCanceled
		}
	}
	s, err := l.store.Get(ctx)
	if err != nil {
		return err
	}
	err = l.do(ctx, func(ctx context.Context) error {
		return l.remove(ctx, s, id)
	})
	if err != nil {
		log := logger.Get()
		log.Debug().Err(err).Str("view", l.name).Int64("id", id).Msg("delete failed")
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.DeleteFunc(l.items, func(it T) bool { return it.Key() == id })
	return nil
}

func (l *List[T]) set(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
}
