// Package notification owns the notification list, the unread counter, and
// the single live push connection tied to the session token.
package notification

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"swmra-client/internal/domain/notification"
	"swmra-client/internal/gateway"
	"swmra-client/internal/livefeed"
	"swmra-client/internal/logger"
)

// State is a copy-on-read snapshot. Items are newest first.
type State struct {
	Items  []notification.Notification
	Unread int
}

type Store struct {
	gw               *gateway.Client
	wsBase           string
	handshakeTimeout time.Duration
	tokenSource      gateway.TokenSource

	mu        sync.Mutex
	state     State
	conn      *livefeed.Conn
	listeners []func()

	// connectMu serializes Connect/Disconnect so the teardown-then-dial
	// sequence cannot interleave and leak a connection.
	connectMu sync.Mutex
}

func NewStore(gw *gateway.Client, wsBase string, handshakeTimeout time.Duration, tokenSource gateway.TokenSource) *Store {
	return &Store{
		gw:               gw,
		wsBase:           wsBase,
		handshakeTimeout: handshakeTimeout,
		tokenSource:      tokenSource,
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := State{Unread: s.state.Unread}
	snap.Items = make([]notification.Notification, len(s.state.Items))
	copy(snap.Items, s.state.Items)
	return snap
}

func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Connected reports whether a live connection is currently held.
func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Bootstrap fetches the backlog when a token exists; otherwise it resets the
// store to empty.
func (s *Store) Bootstrap(ctx context.Context) error {
	if s.tokenSource() == "" {
		s.update(func(st *State) {
			st.Items = nil
			st.Unread = 0
		})
		return nil
	}

	items, err := s.gw.ListNotifications(ctx)
	if err != nil {
		return err
	}

	s.update(func(st *State) {
		st.Items = items
		st.Unread = 0
	})
	return nil
}

// Connect tears down any held live connection, then dials a new one for the
// given token. An empty token tears down without reconnecting. There is no
// automatic reconnect; the next Connect happens on a token change upstream.
func (s *Store) Connect(ctx context.Context, token string) error {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.mu.Unlock()

	if token == "" {
		return nil
	}

	endpoint := s.wsBase + "/ws/notifications?token=" + url.QueryEscape(token)
	conn, err := livefeed.Dial(ctx, endpoint, s.handshakeTimeout)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	conn.Listen(s.handleMessage, func(closeErr error) {
		if closeErr != nil {
			logger.Warn("notification channel closed", zap.Error(closeErr))
		}
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
	})

	logger.Debug("notification channel connected")
	return nil
}

// Disconnect is the teardown path used on logout and shutdown.
func (s *Store) Disconnect() {
	_ = s.Connect(context.Background(), "")
}

// MarkRead zeroes the unread counter without touching the list.
func (s *Store) MarkRead() {
	s.update(func(st *State) { st.Unread = 0 })
}

// handleMessage prepends each inbound notification and bumps the unread
// counter. No dedup, no reordering.
func (s *Store) handleMessage(payload []byte) {
	var item notification.Notification
	if err := json.Unmarshal(payload, &item); err != nil {
		logger.Warn("dropping malformed notification payload", zap.Error(err))
		return
	}

	s.update(func(st *State) {
		st.Items = append([]notification.Notification{item}, st.Items...)
		st.Unread++
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
