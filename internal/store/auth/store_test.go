package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swmra-client/internal/gateway"
	"swmra-client/internal/session"
	appErrors "swmra-client/pkg/errors"
)

type fixture struct {
	store    *Store
	sessions *session.Store
	gw       *gateway.Client
}

func newFixture(t *testing.T, persistedToken string, handler http.Handler) *fixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewStore(afero.NewMemMapFs(), ".swmra_token")
	if persistedToken != "" {
		require.NoError(t, sessions.Save(persistedToken))
	}

	gw := gateway.NewClient(server.URL, 5*time.Second)
	store := NewStore(gw, sessions)
	gw.SetTokenSource(store.Token)
	gw.SetUnauthorizedHandler(store.HandleUnauthorized)

	return &fixture{store: store, sessions: sessions, gw: gw}
}

func writeTokenResponse(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": "fresh-token",
		"token_type":   "bearer",
		"user": map[string]any{
			"id": 1, "name": "Asha", "email": "a@b.com", "role": "citizen",
		},
	})
}

func TestBootstrap(t *testing.T) {
	t.Run("without token initializes and never fetches the profile", func(t *testing.T) {
		profileCalls := 0
		f := newFixture(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/me" {
				profileCalls++
			}
			writeTokenResponse(w)
		}))

		f.store.Bootstrap(context.Background())

		state := f.store.Snapshot()
		assert.True(t, state.Initialized)
		assert.Nil(t, state.User)
		assert.Equal(t, 0, profileCalls)
	})

	t.Run("with valid token restores the profile", func(t *testing.T) {
		f := newFixture(t, "persisted-token", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer persisted-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": 1, "name": "Asha", "email": "a@b.com", "role": "citizen",
			})
		}))

		f.store.Bootstrap(context.Background())

		state := f.store.Snapshot()
		assert.True(t, state.Initialized)
		require.NotNil(t, state.User)
		assert.Equal(t, "a@b.com", state.User.Email)
		assert.False(t, state.Loading)
	})

	t.Run("with rejected token clears the session but still initializes", func(t *testing.T) {
		f := newFixture(t, "expired-token", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		f.store.Bootstrap(context.Background())

		state := f.store.Snapshot()
		assert.True(t, state.Initialized)
		assert.Nil(t, state.User)
		assert.Empty(t, state.Token)
		assert.Empty(t, f.sessions.Load())
		// Bootstrap failures stay silent.
		assert.Empty(t, state.Err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success persists the token and caches the user", func(t *testing.T) {
		f := newFixture(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/login", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@b.com", body["email"])
			assert.Equal(t, "secret1", body["password"])
			writeTokenResponse(w)
		}))

		resp, err := f.store.Login(context.Background(), "a@b.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", resp.AccessToken)

		state := f.store.Snapshot()
		require.NotNil(t, state.User)
		assert.Equal(t, "a@b.com", state.User.Email)
		assert.Equal(t, "fresh-token", state.Token)
		assert.Equal(t, "fresh-token", f.sessions.Load())
	})

	t.Run("failure records the message and returns the error", func(t *testing.T) {
		f := newFixture(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "invalid email or password"})
		}))

		_, err := f.store.Login(context.Background(), "a@b.com", "nope")
		require.Error(t, err)

		state := f.store.Snapshot()
		assert.Nil(t, state.User)
		assert.Contains(t, state.Err, "invalid email or password")
		assert.Empty(t, f.sessions.Load())
	})
}

func TestSignup(t *testing.T) {
	f := newFixture(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		writeTokenResponse(w)
	}))

	resp, err := f.store.Signup(context.Background(), gateway.SignupPayload{
		Name: "Asha", Email: "a@b.com", Phone: "555", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", resp.AccessToken)
	assert.Equal(t, "fresh-token", f.sessions.Load())
}

func TestLogout(t *testing.T) {
	f := newFixture(t, "persisted-token", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTokenResponse(w)
	}))

	f.store.Logout()

	state := f.store.Snapshot()
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.Empty(t, f.sessions.Load())
}

func TestForcedLogoutOnUnauthorized(t *testing.T) {
	// Login succeeds, then the next call is rejected with 401: the global
	// signal must clear the session without the caller doing anything.
	f := newFixture(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeTokenResponse(w)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))

	_, err := f.store.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "fresh-token", f.store.Token())

	_, err = f.gw.RewardSummary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	assert.Empty(t, f.store.Token())
	assert.Empty(t, f.sessions.Load())
	assert.Nil(t, f.store.Snapshot().User)
}

func TestOnChange(t *testing.T) {
	f := newFixture(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTokenResponse(w)
	}))

	changes := 0
	f.store.OnChange(func() { changes++ })

	f.store.Bootstrap(context.Background())
	assert.Positive(t, changes)
}
