// Package auth owns the session slice of client state: current user, token,
// and the initialized/loading flags the view layer gates on.
package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"swmra-client/internal/domain/user"
	"swmra-client/internal/gateway"
	"swmra-client/internal/logger"
	"swmra-client/internal/session"
)

// State is a copy-on-read snapshot handed to views.
type State struct {
	User        *user.User
	Token       string
	Loading     bool
	Initialized bool
	Err         string
}

type Store struct {
	gw       *gateway.Client
	sessions *session.Store

	mu        sync.Mutex
	state     State
	listeners []func()
}

// NewStore seeds the token from durable storage, mirroring app start.
func NewStore(gw *gateway.Client, sessions *session.Store) *Store {
	return &Store{
		gw:       gw,
		sessions: sessions,
		state:    State{Token: sessions.Load()},
	}
}

// Token is the read-only token source handed to the gateway and the
// notification store.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	return snap
}

// OnChange registers a re-render hook fired after every state mutation.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Bootstrap restores the session on load. Without a persisted token it only
// marks the store initialized; a token that fails the profile fetch is
// cleared silently so the app never blocks on a bad credential.
func (s *Store) Bootstrap(ctx context.Context) {
	token := s.Token()
	if token == "" {
		s.update(func(st *State) { st.Initialized = true })
		return
	}

	s.update(func(st *State) { st.Loading = true })

	profile, err := s.gw.Me(ctx)
	if err != nil {
		logger.Warn("session bootstrap failed, clearing token", zap.Error(err))
		if clearErr := s.sessions.Clear(); clearErr != nil {
			logger.Error("failed to clear persisted token", zap.Error(clearErr))
		}
		s.update(func(st *State) {
			st.User = nil
			st.Token = ""
			st.Initialized = true
			st.Loading = false
		})
		return
	}

	s.update(func(st *State) {
		st.User = profile
		st.Initialized = true
		st.Loading = false
	})
}

func (s *Store) Login(ctx context.Context, email, password string) (*user.TokenResponse, error) {
	s.update(func(st *State) {
		st.Loading = true
		st.Err = ""
	})

	resp, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.update(func(st *State) {
			st.Loading = false
			st.Err = err.Error()
		})
		return nil, err
	}

	s.adopt(resp)
	return resp, nil
}

func (s *Store) Signup(ctx context.Context, payload gateway.SignupPayload) (*user.TokenResponse, error) {
	s.update(func(st *State) {
		st.Loading = true
		st.Err = ""
	})

	resp, err := s.gw.Signup(ctx, payload)
	if err != nil {
		s.update(func(st *State) {
			st.Loading = false
			st.Err = err.Error()
		})
		return nil, err
	}

	s.adopt(resp)
	return resp, nil
}

// Logout clears the persisted token and in-memory session state.
func (s *Store) Logout() {
	if err := s.sessions.Clear(); err != nil {
		logger.Error("failed to clear persisted token", zap.Error(err))
	}

	s.update(func(st *State) {
		st.User = nil
		st.Token = ""
	})
}

// HandleUnauthorized is the forced-logout hook wired to the gateway's 401
// signal, decoupling transport auth failures from view code.
func (s *Store) HandleUnauthorized() {
	logger.Info("unauthorized response received, forcing logout")
	s.Logout()
}

func (s *Store) adopt(resp *user.TokenResponse) {
	if err := s.sessions.Save(resp.AccessToken); err != nil {
		logger.Error("failed to persist token", zap.Error(err))
	}

	s.update(func(st *State) {
		u := resp.User
		st.User = &u
		st.Token = resp.AccessToken
		st.Loading = false
	})
}

func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
