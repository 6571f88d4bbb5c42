package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/pkg/accountsdk"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
)

// EventsHandler serves GET /v1/account/events as server-sent events.
type EventsHandler struct {
	Observer  *service.Observer
	KeepAlive time.Duration
	Closing   <-chan struct{}
}

// ServeHTTP godoc
//
//	@Summary		Current user stream
//	@Description	Server-sent events. Sends one "user" event with the current user on connect and one per change afterwards.
//	@Description	The data is the user as JSON, or null when signed out.
//	@Tags			Account
//	@Produce		text/event-stream
//	@Success		200	{object}	accountsdk.User	"event: user"
//	@Router			/v1/account/events [get].
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		accountsdk.ErrStreamingUnsupported.WriteError(w)
		return
	}

	// Only the latest value matters; a slow reader skips intermediate ones.
	latest := newLatestUser()
	unsubscribe := h.Observer.Subscribe(latest.set)
	defer unsubscribe()
	latest.setInitial(h.Observer.Current())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.Closing:
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-latest.ready:
			data, err := json.Marshal(toUser(latest.take()))
			if err != nil {
				log.Error("encode user event", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: user\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// latestUser is a single-slot mailbox that overwrites unread values.
type latestUser struct {
	mu    sync.Mutex
	user  *domain.User
	seen  bool
	ready chan struct{}
}

func newLatestUser() *latestUser {
	return &latestUser{ready: make(chan struct{}, 1)}
}

func (l *latestUser) set(u *domain.User) {
	l.mu.Lock()
	l.user = u
	l.seen = true
	l.mu.Unlock()
	l.signal()
}

// setInitial stores u unless a change notification already arrived.
func (l *latestUser) setInitial(u *domain.User) {
	l.mu.Lock()
	if l.seen {
		l.mu.Unlock()
		return
	}
	l.user = u
	l.seen = true
	l.mu.Unlock()
	l.signal()
}

func (l *latestUser) signal() {
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestUser) take() *domain.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.user
}
