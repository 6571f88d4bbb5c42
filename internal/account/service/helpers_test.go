package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/bizdesk/internal/identity"
	"github.com/aussiebroadwan/bizdesk/internal/identity/local"
	"github.com/aussiebroadwan/bizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/bizdesk/pkg/jwtx"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// env wires the real sqlite store and local provider.
type env struct {
	store    *sqlite.Store
	provider *local.Provider
	profiles *flakyProfiles
	recon    *service.Reconciler
	auth     *service.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	provider := local.New(
		st.Accounts(),
		cryptox.PasswordHasher{Pepper: "test"},
		signer,
		jwtx.NewVerifierEdDSA(keys, "bizdesk"),
		local.Config{Issuer: "bizdesk", AutoConfirm: true},
		slogx.Discard(),
	)

	profiles := &flakyProfiles{Profiles: st.Profiles()}
	recon := &service.Reconciler{Provider: provider, Profiles: profiles, Logger: slogx.Discard()}

	return &env{
		store:    st,
		provider: provider,
		profiles: profiles,
		recon:    recon,
		auth: &service.AuthService{
			Provider:   provider,
			Profiles:   profiles,
			Reconciler: recon,
			Logger:     slogx.Discard(),
		},
	}
}

var errStoreDown = errors.New("profile store unavailable")

// flakyProfiles fails the selected operations.
type flakyProfiles struct {
	store.Profiles

	mu         sync.Mutex
	failInsert bool
	failGet    bool
	failUpdate bool
}

func (f *flakyProfiles) set(insert, get, update bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failInsert, f.failGet, f.failUpdate = insert, get, update
}

func (f *flakyProfiles) Insert(ctx context.Context, p domain.Profile) error {
	f.mu.Lock()
	fail := f.failInsert
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.Profiles.Insert(ctx, p)
}

func (f *flakyProfiles) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return domain.Profile{}, errStoreDown
	}
	return f.Profiles.GetByID(ctx, id)
}

func (f *flakyProfiles) Update(ctx context.Context, u domain.ProfileUpdate) error {
	f.mu.Lock()
	fail := f.failUpdate
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.Profiles.Update(ctx, u)
}

// stubProvider is a scripted provider. Events are delivered by emit.
type stubProvider struct {
	mu       sync.Mutex
	session  identity.Identity
	active   bool
	getUser  func() (identity.Identity, bool, error)
	signUp   func() (identity.Identity, error)
	signIn   func() (identity.Identity, error)
	signOut  error
	handlers map[int]identity.Handler
	nextID   int
}

func (p *stubProvider) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	if p.signUp != nil {
		return p.signUp()
	}
	return identity.Identity{}, nil
}

func (p *stubProvider) SignInWithPassword(ctx context.Context, email, password string) (identity.Identity, error) {
	if p.signIn != nil {
		return p.signIn()
	}
	return identity.Identity{}, nil
}

func (p *stubProvider) SignOut(ctx context.Context) error { return p.signOut }

func (p *stubProvider) GetUser(ctx context.Context) (identity.Identity, bool, error) {
	p.mu.Lock()
	fn := p.getUser
	id, active := p.session, p.active
	p.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return id, active, nil
}

func (p *stubProvider) setSession(id identity.Identity, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session, p.active = id, active
}

func (p *stubProvider) OnSessionChange(h identity.Handler) identity.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handlers == nil {
		p.handlers = make(map[int]identity.Handler)
	}
	p.nextID++
	id := p.nextID
	p.handlers[id] = h
	return stubSubscription(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	})
}

func (p *stubProvider) emit(ev identity.Event) {
	p.mu.Lock()
	hs := make([]identity.Handler, 0, len(p.handlers))
	for _, h := range p.handlers {
		hs = append(hs, h)
	}
	p.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

func (p *stubProvider) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

type stubSubscription func()

func (s stubSubscription) Unsubscribe() { s() }

// memProfiles is an in-memory Profiles for stub-provider tests.
type memProfiles struct {
	mu   sync.Mutex
	rows map[string]domain.Profile
}

func newMemProfiles(rows ...domain.Profile) *memProfiles {
	m := &memProfiles{rows: make(map[string]domain.Profile)}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memProfiles) Insert(ctx context.Context, p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; ok {
		return store.ErrAlreadyExists
	}
	m.rows[p.ID] = p
	return nil
}

func (m *memProfiles) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return domain.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) Update(ctx context.Context, u domain.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.BusinessName != nil {
		p.BusinessName = *u.BusinessName
	}
	m.rows[u.ID] = p
	return nil
}

func ptr(s string) *string { return &s }
