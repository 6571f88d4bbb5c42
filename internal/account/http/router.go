package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/pkg/httpx"
	"github.com/aussiebroadwan/bizdesk/pkg/jwtx"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"

	_ "github.com/aussiebroadwan/bizdesk/api/account" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService
	Observer    *service.Observer

	// KeepAlive is the interval between comment lines on event streams.
	KeepAlive time.Duration

	closeOnce sync.Once
	closing   chan struct{}
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		KeepAlive:    15 * time.Second,
		closing:      make(chan struct{}),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccount()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// CloseStreams ends open event streams so the server can shut down.
func (r *Router) CloseStreams() {
	r.closeOnce.Do(func() { close(r.closing) })
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			bizdesk Account API
//	@version		0.1.0
//	@description	Session and profile layer for the bizdesk business dashboard.
//	@description
//	@description	The server holds a single current user. Auth operations return an AuthResult for both success and failure.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/bizdesk
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	signup := &SignupHandler{AuthService: r.AuthService, Observer: r.Observer}
	login := &LoginHandler{AuthService: r.AuthService, Observer: r.Observer}
	logout := &LogoutHandler{AuthService: r.AuthService, Observer: r.Observer}

	// Credential endpoints are limited by IP + email to slow brute force.
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(signup,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logout,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	account := &AccountHandler{AuthService: r.AuthService, Observer: r.Observer}
	events := &EventsHandler{Observer: r.Observer, KeepAlive: r.KeepAlive, Closing: r.closing}

	r.Mux.Handle("GET /v1/account",
		httpx.Chain(http.HandlerFunc(account.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/account",
		httpx.Chain(http.HandlerFunc(account.HandlePatch),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/account/events",
		httpx.Chain(events,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
}
