// Package request owns the paginated request list and the single "current"
// detail record, keeping both consistent across create and cancel.
package request

import (
	"context"
	"sync"

	"swmra-client/internal/domain/request"
	"swmra-client/internal/gateway"
	appErrors "swmra-client/pkg/errors"
)

// State is a copy-on-read snapshot. Page and Current are nil until fetched.
type State struct {
	Page    *request.Page
	Current *request.PickupRequest
	Loading bool
}

type Store struct {
	gw *gateway.Client

	mu        sync.Mutex
	state     State
	listeners []func()
}

func NewStore(gw *gateway.Client) *Store {
	return &Store{gw: gw}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := State{Loading: s.state.Loading}
	if s.state.Page != nil {
		page := *s.state.Page
		page.Items = make([]request.PickupRequest, len(s.state.Page.Items))
		copy(page.Items, s.state.Page.Items)
		snap.Page = &page
	}
	if s.state.Current != nil {
		current := *s.state.Current
		snap.Current = &current
	}
	return snap
}

func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load fetches a page by optional filters and replaces the cached list.
// Concurrent calls are not coalesced: the last response to arrive wins.
func (s *Store) Load(ctx context.Context, filters request.Filters) error {
	s.update(func(st *State) { st.Loading = true })
	defer s.update(func(st *State) { st.Loading = false })

	page, err := s.gw.ListRequests(ctx, filters)
	if err != nil {
		return err
	}

	s.update(func(st *State) { st.Page = page })
	return nil
}

// LoadOne fetches and caches a single detail record.
func (s *Store) LoadOne(ctx context.Context, id int64) (*request.PickupRequest, error) {
	s.update(func(st *State) { st.Loading = true })
	defer s.update(func(st *State) { st.Loading = false })

	record, err := s.gw.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	s.update(func(st *State) { st.Current = record })
	return record, nil
}

// Create posts a new request. On success the confirmed record is prepended
// to the cached page and the total bumped; with no page cached yet there is
// nothing to merge into.
func (s *Store) Create(ctx context.Context, payload request.Payload) (*request.PickupRequest, error) {
	s.update(func(st *State) { st.Loading = true })
	defer s.update(func(st *State) { st.Loading = false })

	created, err := s.gw.CreateRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.update(func(st *State) {
		if st.Page == nil {
			return
		}
		st.Page.Items = append([]request.PickupRequest{*created}, st.Page.Items...)
		st.Page.Total++
	})
	return created, nil
}

// Cancel issues a cancellation for a request in the cancellable set and
// writes the server-confirmed record back into both the cached detail and
// the matching list entry. Other entries are untouched.
func (s *Store) Cancel(ctx context.Context, id int64, reason string) (*request.PickupRequest, error) {
	if cached := s.lookup(id); cached != nil && !cached.Status.Cancellable() {
		return nil, appErrors.ErrNotCancellable
	}

	cancelled, err := s.gw.CancelRequest(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	s.reconcile(cancelled)
	return cancelled, nil
}

// ConfirmSlot accepts an assigned window for a request, with the same
// reconciliation rule as Cancel.
func (s *Store) ConfirmSlot(ctx context.Context, id int64, slot request.SlotWindow) (*request.PickupRequest, error) {
	confirmed, err := s.gw.ConfirmSlot(ctx, id, slot)
	if err != nil {
		return nil, err
	}

	s.reconcile(confirmed)
	return confirmed, nil
}

// lookup finds a cached record for the id, preferring the detail view.
func (s *Store) lookup(id int64) *request.PickupRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Current != nil && s.state.Current.ID == id {
		record := *s.state.Current
		return &record
	}
	if s.state.Page != nil {
		for i := range s.state.Page.Items {
			if s.state.Page.Items[i].ID == id {
				record := s.state.Page.Items[i]
				return &record
			}
		}
	}
	return nil
}

// reconcile writes one server-confirmed record into every cached view that
// holds the same identity.
func (s *Store) reconcile(record *request.PickupRequest) {
	s.update(func(st *State) {
		if st.Current != nil && st.Current.ID == record.ID {
			st.Current = record
		}
		if st.Page != nil {
			for i := range st.Page.Items {
				if st.Page.Items[i].ID == record.ID {
					st.Page.Items[i] = *record
				}
			}
		}
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
