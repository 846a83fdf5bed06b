// Package provider holds external numeric providers behind lazily
// initialised, cached handles.
//
// Providers such as a computer algebra system or a statistics engine can be
// expensive to load. A Handle starts loading in the background on first
// demand and every caller afterwards shares the cached value. A failed load
// is cached too; it is only retried after an explicit Reset.
//
//	h := provider.New("stats", func(ctx context.Context) (stats.Provider, error) {
//		return stats.NewGonum(), nil
//	})
//	h.Start(ctx)      // optional warm-up, returns immediately
//	p, err := h.Get(ctx)
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/graphcalc/internal/logging"
)

// ErrNilLoader is returned by Get on a handle created without a loader.
var ErrNilLoader = errors.New("provider: nil loader")

// Loader initialises a provider.
type Loader[T any] func(ctx context.Context) (T, error)

// Closer is implemented by providers that hold resources.
type Closer interface {
	Close() error
}

// Handle is a lazily loaded provider of type T. It is safe for concurrent
// use.
type Handle[T any] struct {
	name string
	load Loader[T]

	mu      sync.Mutex
	started bool
	done    chan struct{}
	val     T
	err     error
}

// New returns a handle that loads its value with load on first use.
func New[T any](name string, load Loader[T]) *Handle[T] {
	return &Handle[T]{name: name, load: load, done: make(chan struct{})}
}

// Ready returns a handle that already holds v.
func Ready[T any](name string, v T) *Handle[T] {
	h := &Handle[T]{name: name, started: true, done: make(chan struct{}), val: v}
	close(h.done)
	return h
}

// Name returns the provider name used in logs and errors.
func (h *Handle[T]) Name() string { return h.name }

// Start begins loading in the background if it has not begun yet. It never
// blocks. The load runs detached from ctx cancellation but keeps its values.
func (h *Handle[T]) Start(ctx context.Context) {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return
	}
	h.started = true
	done := h.done
	h.mu.Unlock()

	go h.run(context.WithoutCancel(ctx), done)
}

func (h *Handle[T]) run(ctx context.Context, done chan struct{}) {
	start := time.Now()
	var (
		v   T
		err error
	)
	if h.load == nil {
		err = ErrNilLoader
	} else {
		v, err = h.safeLoad(ctx)
	}

	h.mu.Lock()
	h.val, h.err = v, err
	h.mu.Unlock()
	close(done)

	if err != nil {
		logging.Logger().Warn("provider: load failed", "provider", h.name, "err", err)
		return
	}
	logging.Logger().Info("provider: ready", "provider", h.name, "elapsed", time.Since(start))
}

func (h *Handle[T]) safeLoad(ctx context.Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider: %s: load panicked: %v", h.name, r)
		}
	}()
	return h.load(ctx)
}

// Get starts loading if needed and waits for the result or for ctx to end.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	h.Start(ctx)
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.val, h.err
}

// Loaded reports whether loading has finished, successfully or not,
// without blocking.
func (h *Handle[T]) Loaded() bool {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// Reset discards a finished load so the next Get loads again. A load in
// flight is left alone and Reset reports false.
func (h *Handle[T]) Reset() bool {
	if !h.Loaded() {
		h.mu.Lock()
		started := h.started
		h.mu.Unlock()
		return !started
	}

	h.mu.Lock()
	old := h.val
	var zero T
	h.val, h.err = zero, nil
	h.started = false
	h.done = make(chan struct{})
	h.mu.Unlock()

	closeValue(h.name, old)
	return true
}

// Close releases the loaded value if it implements Closer.
func (h *Handle[T]) Close() error {
	if !h.Loaded() {
		return nil
	}
	h.mu.Lock()
	v := h.val
	h.mu.Unlock()
	if c, ok := any(v).(Closer); ok {
		return c.Close()
	}
	return nil
}

func closeValue(name string, v any) {
	if c, ok := v.(Closer); ok {
		if err := c.Close(); err != nil {
			logging.Logger().Warn("provider: close failed", "provider", name, "err", err)
		}
	}
}
