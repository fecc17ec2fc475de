package request

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swmra-client/internal/domain/request"
	"swmra-client/internal/gateway"
	appErrors "swmra-client/pkg/errors"
)

// fakeBackend keeps just enough server state to answer the request routes.
type fakeBackend struct {
	mu       sync.Mutex
	requests map[int64]map[string]any
	nextID   int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{requests: make(map[int64]map[string]any), nextID: 1}
}

func (b *fakeBackend) seed(status string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.requests[id] = record(id, status)
	return id
}

func record(id int64, status string) map[string]any {
	return map[string]any{
		"id":       id,
		"user_id":  7,
		"category": "recyclable",
		"status":   status,
		"address":  map[string]any{"line1": "12 Canal Rd", "city": "Pune", "pincode": "411001"},
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /requests", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		status := r.URL.Query().Get("status")
		items := []map[string]any{}
		for _, rec := range b.requests {
			if status == "" || rec["status"] == status {
				items = append(items, rec)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": items, "total": len(items), "skip": 0, "limit": 20,
		})
	})

	mux.HandleFunc("POST /requests", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		id := b.nextID
		b.nextID++
		b.requests[id] = record(id, "submitted")
		_ = json.NewEncoder(w).Encode(b.requests[id])
	})

	mux.HandleFunc("GET /requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		for id, rec := range b.requests {
			if r.PathValue("id") == jsonID(id) {
				_ = json.NewEncoder(w).Encode(rec)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "not found"})
	})

	mux.HandleFunc("POST /requests/{id}/confirm-slot", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		for id, rec := range b.requests {
			if r.PathValue("id") == jsonID(id) {
				rec["status"] = "scheduled"
				rec["assigned_slot"] = map[string]string{
					"start": body["slot_start"], "end": body["slot_end"],
				}
				_ = json.NewEncoder(w).Encode(rec)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	mux.HandleFunc("POST /requests/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		for id, rec := range b.requests {
			if r.PathValue("id") == jsonID(id) {
				rec["status"] = "cancelled"
				_ = json.NewEncoder(w).Encode(rec)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	return mux
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newStore(t *testing.T, backend *fakeBackend) *Store {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewStore(gateway.NewClient(server.URL, 5*time.Second))
}

func TestLoad(t *testing.T) {
	t.Run("replaces the cached page", func(t *testing.T) {
		backend := newFakeBackend()
		backend.seed("submitted")
		backend.seed("scheduled")
		store := newStore(t, backend)

		require.NoError(t, store.Load(context.Background(), request.Filters{}))

		state := store.Snapshot()
		require.NotNil(t, state.Page)
		assert.Equal(t, 2, state.Page.Total)
		assert.False(t, state.Loading)
	})

	t.Run("empty filtered result yields an empty page", func(t *testing.T) {
		backend := newFakeBackend()
		backend.seed("submitted")
		store := newStore(t, backend)

		require.NoError(t, store.Load(context.Background(), request.Filters{Status: "scheduled"}))

		state := store.Snapshot()
		require.NotNil(t, state.Page)
		assert.Empty(t, state.Page.Items)
		assert.Equal(t, 0, state.Page.Total)
	})
}

func TestLoadOne(t *testing.T) {
	backend := newFakeBackend()
	id := backend.seed("scheduled")
	store := newStore(t, backend)

	record, err := store.LoadOne(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, request.StatusScheduled, record.Status)

	state := store.Snapshot()
	require.NotNil(t, state.Current)
	assert.Equal(t, id, state.Current.ID)
}

func TestCreate(t *testing.T) {
	payload := request.Payload{
		Category:    request.CategoryRecyclable,
		Description: "old newspapers",
		Quantity:    2,
		Address:     request.Address{Line1: "12 Canal Rd", City: "Pune", Pincode: "411001"},
		PreferredSlots: []request.SlotWindow{
			{Start: "2026-09-02T09:00:00", End: "2026-09-02T10:00:00"},
		},
	}

	t.Run("prepends to the cached page and bumps the total", func(t *testing.T) {
		backend := newFakeBackend()
		backend.seed("submitted")
		store := newStore(t, backend)
		require.NoError(t, store.Load(context.Background(), request.Filters{}))
		before := store.Snapshot().Page.Total

		created, err := store.Create(context.Background(), payload)
		require.NoError(t, err)

		state := store.Snapshot()
		assert.Equal(t, before+1, state.Page.Total)
		require.NotEmpty(t, state.Page.Items)
		assert.Equal(t, created.ID, state.Page.Items[0].ID)
	})

	t.Run("without a cached page nothing is merged", func(t *testing.T) {
		backend := newFakeBackend()
		store := newStore(t, backend)

		_, err := store.Create(context.Background(), payload)
		require.NoError(t, err)
		assert.Nil(t, store.Snapshot().Page)
	})

	t.Run("total never decreases without a cancel or reload", func(t *testing.T) {
		backend := newFakeBackend()
		store := newStore(t, backend)
		require.NoError(t, store.Load(context.Background(), request.Filters{}))

		last := store.Snapshot().Page.Total
		for i := 0; i < 3; i++ {
			_, err := store.Create(context.Background(), payload)
			require.NoError(t, err)
			total := store.Snapshot().Page.Total
			assert.GreaterOrEqual(t, total, last)
			last = total
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("reconciles current and the list entry to the same status", func(t *testing.T) {
		backend := newFakeBackend()
		id := backend.seed("scheduled")
		backend.seed("submitted")
		store := newStore(t, backend)

		require.NoError(t, store.Load(context.Background(), request.Filters{}))
		_, err := store.LoadOne(context.Background(), id)
		require.NoError(t, err)

		cancelled, err := store.Cancel(context.Background(), id, "moved house")
		require.NoError(t, err)
		assert.Equal(t, request.StatusCancelled, cancelled.Status)

		state := store.Snapshot()
		require.NotNil(t, state.Current)
		assert.Equal(t, request.StatusCancelled, state.Current.Status)

		var listStatus request.Status
		for _, item := range state.Page.Items {
			if item.ID == id {
				listStatus = item.Status
			}
		}
		assert.Equal(t, state.Current.Status, listStatus)
	})

	t.Run("leaves other entries untouched", func(t *testing.T) {
		backend := newFakeBackend()
		id := backend.seed("submitted")
		otherID := backend.seed("scheduled")
		store := newStore(t, backend)
		require.NoError(t, store.Load(context.Background(), request.Filters{}))

		_, err := store.Cancel(context.Background(), id, "")
		require.NoError(t, err)

		for _, item := range store.Snapshot().Page.Items {
			if item.ID == otherID {
				assert.Equal(t, request.StatusScheduled, item.Status)
			}
		}
	})

	t.Run("confirm-slot reconciles the same way as cancel", func(t *testing.T) {
		backend := newFakeBackend()
		id := backend.seed("pending_review")
		store := newStore(t, backend)

		require.NoError(t, store.Load(context.Background(), request.Filters{}))
		_, err := store.LoadOne(context.Background(), id)
		require.NoError(t, err)

		slot := request.SlotWindow{Start: "2026-09-02T09:00:00", End: "2026-09-02T10:00:00"}
		confirmed, err := store.ConfirmSlot(context.Background(), id, slot)
		require.NoError(t, err)
		assert.Equal(t, request.StatusScheduled, confirmed.Status)
		require.NotNil(t, confirmed.AssignedSlot)
		assert.Equal(t, slot.Start, confirmed.AssignedSlot.Start)

		state := store.Snapshot()
		assert.Equal(t, request.StatusScheduled, state.Current.Status)
		assert.Equal(t, request.StatusScheduled, state.Page.Items[0].Status)
	})

	t.Run("rejects a cached non-cancellable request without a network call", func(t *testing.T) {
		backend := newFakeBackend()
		id := backend.seed("enroute")
		store := newStore(t, backend)
		_, err := store.LoadOne(context.Background(), id)
		require.NoError(t, err)

		_, err = store.Cancel(context.Background(), id, "")
		assert.ErrorIs(t, err, appErrors.ErrNotCancellable)

		// Server record untouched.
		record, err := store.LoadOne(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, request.StatusEnroute, record.Status)
	})
}
