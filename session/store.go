// Package session is the client side session store.
//
// The session is the {token, role, userId, username} quadruple persisted under
// fixed keys in a Storage. Store is the only type that reads or writes those
// keys; views receive a *Store and never touch the storage directly.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/stocksboard"
)

// Fixed storage keys.
const (
	KeyToken    = "token"
	KeyRole     = "role"
	KeyUserID   = "userId"
	KeyUsername = "username"
)

// Keys lists every key owned by the session.
var Keys = []string{KeyToken, KeyRole, KeyUserID, KeyUsername}

// ErrNotFound is returned by Storage.Get for an absent key.
var ErrNotFound = errors.New("session key not found")

// Storage is a persistent string key/value space.
type Storage interface {
	Get(ctx context.Context, key string) (string, error) // ErrNotFound when absent
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store reads and writes the session.
type Store struct {
	storage Storage
}

// NewStore returns a Store persisting into storage.
func NewStore(storage Storage) *Store { return &Store{storage: storage} }

// Set persists the four fields of s in a single storage call.
func (st *Store) Set(ctx context.Context, s stocksboard.Session) error {
	err := st.storage.Set(ctx, map[string]string{
		KeyToken:    s.Token,
		KeyRole:     s.Role,
		KeyUserID:   s.UserID,
		KeyUsername: s.Username,
	})
	if err != nil {
		return fmt.Errorf("cannot store session: %w", err)
	}
	return nil
}

// Get returns the stored session. A session exists only when the four keys
// are stored: if any of them is absent Get returns the zero Session.
//
// Get is a pure read: it is called on every use and never cached.
func (st *Store) Get(ctx context.Context) (stocksboard.Session, error) {
	values := make(map[string]string, len(Keys))
	for _, k := range Keys {
		v, err := st.storage.Get(ctx, k)
		if errors.Is(err, ErrNotFound) {
			return stocksboard.Session{}, nil
		}
		if err != nil {
			return stocksboard.Session{}, fmt.Errorf("cannot read session %q: %w", k, err)
		}
		values[k] = v
	}
	return stocksboard.Session{
		Token:    values[KeyToken],
		Role:     values[KeyRole],
		UserID:   values[KeyUserID],
		Username: values[KeyUsername],
	}, nil
}

// Clear removes the four session keys.
func (st *Store) Clear(ctx context.Context) error {
	if err := st.storage.Delete(ctx, Keys...); err != nil {
		return fmt.Errorf("cannot clear session: %w", err)
	}
	return nil
}
