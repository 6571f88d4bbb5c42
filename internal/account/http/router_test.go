package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	accounthttp "github.com/aussiebroadwan/bizdesk/internal/account/http"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/bizdesk/internal/identity/local"
	"github.com/aussiebroadwan/bizdesk/pkg/accountsdk"
	"github.com/aussiebroadwan/bizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/bizdesk/pkg/httpx"
	"github.com/aussiebroadwan/bizdesk/pkg/jwtx"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv      *httptest.Server
	client   *accountsdk.Client
	store    *sqlite.Store
	observer *service.Observer
	router   *accounthttp.Router
}

func newTestServer(t *testing.T, autoConfirm bool) *testServer {
	t.Helper()
	logger := slogx.Discard()

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

	provider := local.New(st.Accounts(), cryptox.PasswordHasher{Pepper: "p"}, signer,
		jwtx.NewVerifierEdDSA(keys, "bizdesk"),
		local.Config{Issuer: "bizdesk", AutoConfirm: autoConfirm}, logger)

	recon := &service.Reconciler{Provider: provider, Profiles: st.Profiles(), Logger: logger}
	observer := &service.Observer{Provider: provider, Reconciler: recon, Logger: logger}
	require.NoError(t, observer.Start(context.Background()))
	t.Cleanup(observer.Close)

	router := accounthttp.NewRouter(keys, "test", st, logger)
	router.AuthService = &service.AuthService{Provider: provider, Profiles: st.Profiles(), Reconciler: recon, Logger: logger}
	router.Observer = observer
	router.KeepAlive = 20 * time.Millisecond
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		router.CloseStreams()
		srv.Close()
	})

	return &testServer{
		srv:      srv,
		client:   accountsdk.NewClient(srv.URL),
		store:    st,
		observer: observer,
		router:   router,
	}
}

var aliceSignup = accountsdk.SignupRequest{
	Email:        "a@x.com",
	Password:     "pw123456",
	Name:         "Alice",
	BusinessName: "Alice Co",
}

func TestSignupLoginUpdateOverHTTP(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, true)

	res, err := ts.client.Signup(ctx, aliceSignup)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.Equal(t, "free", res.User.SubscriptionPlan)

	u, err := ts.client.GetAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, res.User, u)

	res, err = ts.client.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, "Login successful", res.Message)

	bn := "Alice LLC"
	res, err = ts.client.UpdateAccount(ctx, accountsdk.UpdateAccountRequest{BusinessName: &bn})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.Equal(t, "Alice LLC", res.User.BusinessName)
	require.Equal(t, "Alice", res.User.Name)

	u, err = ts.client.GetAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice LLC", u.BusinessName)

	res, err = ts.client.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, &accountsdk.AuthResult{Success: true, Message: "Logout successful"}, res)

	_, err = ts.client.GetAccount(ctx)
	require.True(t, accountsdk.IsUnauthenticated(err))
}

func TestSignupWithPendingConfirmationIsNotSignedIn(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, false)

	res, err := ts.client.Signup(ctx, aliceSignup)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	_, err = ts.client.GetAccount(ctx)
	require.True(t, accountsdk.IsUnauthenticated(err))

	res, err = ts.client.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, &accountsdk.AuthResult{Message: "Email not confirmed"}, res)
}

func TestStatusCodes(t *testing.T) {
	ts := newTestServer(t, true)

	post := func(path, body string) *http.Response {
		resp, err := http.Post(ts.srv.URL+path, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	require.Equal(t, http.StatusBadRequest, post("/v1/auth/signup", `{"email":"bad","password":"pw123456"}`).StatusCode)
	require.Equal(t, http.StatusBadRequest, post("/v1/auth/signup", `{"email":"a@x.com","unknown":1}`).StatusCode)
	require.Equal(t, http.StatusBadRequest, post("/v1/auth/login", ``).StatusCode)
	require.Equal(t, http.StatusUnauthorized, post("/v1/auth/login", `{"email":"a@x.com","password":"pw123456"}`).StatusCode)
	require.Equal(t, http.StatusOK, post("/v1/auth/logout", ``).StatusCode)

	req, err := http.NewRequest(http.MethodPatch, ts.srv.URL+"/v1/account", strings.NewReader(`{"name":"X"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignupRateLimited(t *testing.T) {
	ts := newTestServer(t, true)
	body := `{"email":"spam@x.com","password":"x"}`

	var last int
	for range httpx.StrictLimit.Burst + 1 {
		resp, err := http.Post(ts.srv.URL+"/v1/auth/signup", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		_ = resp.Body.Close()
		last = resp.StatusCode
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, true)

	live, err := ts.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := ts.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, &accountsdk.HealthChecks{Database: "ok", Signer: "ok"}, ready.Checks)

	require.NoError(t, ts.store.Close())
	ready, err = ts.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "degraded", ready.Status)
}

func TestSwaggerServed(t *testing.T) {
	ts := newTestServer(t, true)

	resp, err := http.Get(ts.srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEventsStream(t *testing.T) {
	ts := newTestServer(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []*accountsdk.User
	)
	got := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- ts.client.Events(ctx, func(u *accountsdk.User) {
			mu.Lock()
			seen = append(seen, u)
			mu.Unlock()
			got <- struct{}{}
		})
	}()

	wait := func() {
		t.Helper()
		select {
		case <-got:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}

	wait() // initial value: signed out

	res, err := ts.client.Signup(context.Background(), aliceSignup)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	wait()

	_, err = ts.client.Logout(context.Background())
	require.NoError(t, err)
	wait()

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	require.Nil(t, seen[0])
	require.Equal(t, "Alice", seen[1].Name)
	require.Nil(t, seen[2])
}
