package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/identity"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
)

var (
	ErrObserverStarted = errors.New("observer already started")
	ErrObserverClosed  = errors.New("observer closed")
)

// Observer owns the current user. It is the only writer of the value: it
// follows provider session events and accepts results committed by the shell.
type Observer struct {
	Provider   identity.Provider
	Reconciler *Reconciler
	Logger     *slog.Logger

	// writeMu orders writes together with their notifications so listeners
	// see changes in the order they were made.
	writeMu sync.Mutex

	mu        sync.Mutex
	current   *domain.User
	gen       uint64
	started   bool
	closed    bool
	sub       identity.Subscription
	listeners map[uint64]func(*domain.User)
	nextID    uint64
}

// Start follows provider events and then resolves the initial user. An event
// that lands while the initial user is being resolved wins over it.
func (o *Observer) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrObserverClosed
	}
	if o.started {
		o.mu.Unlock()
		return ErrObserverStarted
	}
	o.started = true
	o.mu.Unlock()

	sub := o.Provider.OnSessionChange(o.handle)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		sub.Unsubscribe()
		return ErrObserverClosed
	}
	o.sub = sub
	gen := o.gen
	o.mu.Unlock()

	initial := o.Reconciler.CurrentUser(ctx)
	if !o.setIfCurrent(gen, initial) {
		o.logger().Debug("discarded initial user, a session event arrived first")
	}

	o.logger().Info("session observer started", "authenticated", o.Current() != nil)
	return nil
}

// Current returns a copy of the current user, or nil when signed out.
func (o *Observer) Current() *domain.User {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current.Clone()
}

// Commit stores a user proposed by an auth operation; nil signs out.
// Listeners must not call Commit.
func (o *Observer) Commit(u *domain.User) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	o.mu.Lock()
	o.gen++
	changed := !sameUser(o.current, u)
	o.current = u.Clone()
	o.mu.Unlock()

	if changed {
		o.notify(u)
	}
}

// Subscribe registers fn for every change of the current user. The returned func removes it.
func (o *Observer) Subscribe(fn func(*domain.User)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.listeners == nil {
		o.listeners = make(map[uint64]func(*domain.User))
	}
	o.nextID++
	id := o.nextID
	o.listeners[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

// Close stops following provider events.
func (o *Observer) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	sub := o.sub
	o.sub = nil
	o.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (o *Observer) handle(ev identity.Event) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	switch ev.Type {
	case identity.EventSignedIn:
		o.mu.Lock()
		gen := o.gen
		o.mu.Unlock()

		ctx := slogx.WithOperation(slogx.WithContext(context.Background(), o.logger()), "session_event")
		u := o.Reconciler.CurrentUser(ctx)
		if !o.setIfCurrent(gen, u) {
			o.logger().Debug("discarded stale sign-in reconciliation", "user_id", ev.Identity.ID)
		}
	case identity.EventSignedOut:
		o.Commit(nil)
	default:
		o.logger().Debug("ignored session event", "event", ev.Type)
	}
}

// setIfCurrent writes u only if nothing else was written since gen was read.
func (o *Observer) setIfCurrent(gen uint64, u *domain.User) bool {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	o.mu.Lock()
	if o.gen != gen {
		o.mu.Unlock()
		return false
	}
	o.gen++
	changed := !sameUser(o.current, u)
	o.current = u.Clone()
	o.mu.Unlock()

	if changed {
		o.notify(u)
	}
	return true
}

func (o *Observer) notify(u *domain.User) {
	o.mu.Lock()
	fns := make([]func(*domain.User), 0, len(o.listeners))
	ids := make([]uint64, 0, len(o.listeners))
	for id := range o.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, o.listeners[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(u.Clone())
	}
}

func sameUser(a, b *domain.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (o *Observer) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
