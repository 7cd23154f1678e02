// Package view holds the client side state of each screen and the operations
// that mutate it.
//
// A view is mounted before use and unmounted when the screen goes away. Every
// request is bound to the mount: unmounting cancels the requests in flight and
// any response that still arrives afterwards is dropped, never applied.
//
// Views read the session from the store on every operation and send it to the
// backend as is. Role checks here only decide what to show; the backend
// enforces access.
package view

import (
	"context"
	"sync"

	"github.com/etnz/stocksboard"
)

// Lifetime binds requests to a view mount.
type Lifetime struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// Mount starts the lifetime. Mounting an already mounted view restarts it.
func (l *Lifetime) Mount(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
}

// Unmount ends the lifetime and cancels the requests in flight.
func (l *Lifetime) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// Mounted reports whether the view is mounted.
func (l *Lifetime) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx != nil && l.ctx.Err() == nil
}

// bind returns a request context canceled by either ctx or Unmount, and the
// mount the request belongs to.
func (l *Lifetime) bind(ctx context.Context) (rctx, mount context.Context, done context.CancelFunc, err error) {
	l.mu.Lock()
	mount = l.ctx
	l.mu.Unlock()
	if mount == nil || mount.Err() != nil {
		return nil, nil, nil, stocksboard.ErrUnmounted
	}
	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(mount, cancel)
	return rctx, mount, func() { stop(); cancel() }, nil
}

// do runs call bound to the lifetime. It returns ErrUnmounted when the mount
// call started under has ended before call returned, whatever call returned,
// even if the view was mounted again meanwhile.
func (l *Lifetime) do(ctx context.Context, call func(ctx context.Context) error) error {
	rctx, mount, done, err := l.bind(ctx)
	if err != nil {
		return err
	}
	defer done()
	err = call(rctx)
	if mount.Err() != nil {
		return stocksboard.ErrUnmounted
	}
	return err
}
