package local

import (
	"sync"

	"github.com/aussiebroadwan/bizdesk/internal/identity"
)

// subscriptions fans events out synchronously, in subscription order, on the
// goroutine that caused the change.
type subscriptions struct {
	mu     sync.Mutex
	nextID uint64
	list   []*subscription
}

type subscription struct {
	id     uint64
	owner  *subscriptions
	handle identity.Handler

	mu       sync.Mutex
	idle     *sync.Cond
	active   bool
	inflight int
}

func (s *subscriptions) add(h identity.Handler) *subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sub := &subscription{id: s.nextID, owner: s, handle: h, active: true}
	sub.idle = sync.NewCond(&sub.mu)
	s.list = append(s.list, sub)
	return sub
}

func (s *subscriptions) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *subscriptions) emit(ev identity.Event) {
	s.mu.Lock()
	snapshot := make([]*subscription, len(s.list))
	copy(snapshot, s.list)
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.deliver(ev)
	}
}

func (sub *subscription) deliver(ev identity.Event) {
	sub.mu.Lock()
	if !sub.active {
		sub.mu.Unlock()
		return
	}
	sub.inflight++
	sub.mu.Unlock()

	defer func() {
		sub.mu.Lock()
		sub.inflight--
		if sub.inflight == 0 {
			sub.idle.Broadcast()
		}
		sub.mu.Unlock()
	}()

	sub.handle(ev)
}

// Unsubscribe stops delivery and waits for any in-flight callback on this
// subscription to return. It must not be called from inside its own handler.
func (sub *subscription) Unsubscribe() {
	sub.mu.Lock()
	if !sub.active {
		sub.mu.Unlock()
		return
	}
	sub.active = false
	for sub.inflight > 0 {
		sub.idle.Wait()
	}
	sub.mu.Unlock()

	sub.owner.remove(sub.id)
}
