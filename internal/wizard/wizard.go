// Package wizard drives the 3-step request-creation flow: details, address
// and slot selection, then photos and review. Navigation is gated by
// position only; the whole payload is validated once, on submit.
package wizard

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swmra-client/internal/domain/request"
	"swmra-client/internal/gateway"
	"swmra-client/internal/logger"
	requeststore "swmra-client/internal/store/request"
	appErrors "swmra-client/pkg/errors"
	"swmra-client/pkg/utils"
)

const (
	StepDetails  = 1
	StepSchedule = 2
	StepReview   = 3
)

// Photo is one file selected for upload.
type Photo struct {
	Name    string
	Content io.Reader
}

type Wizard struct {
	gw       *gateway.Client
	requests *requeststore.Store

	mu      sync.Mutex
	step    int
	payload request.Payload
	date    string
	slots   []request.SlotWindow
}

func New(gw *gateway.Client, requests *requeststore.Store) *Wizard {
	return &Wizard{
		gw:       gw,
		requests: requests,
		step:     StepDetails,
		payload: request.Payload{
			Category: request.CategoryRecyclable,
			Photos:   []string{},
		},
	}
}

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Next moves forward one step, clamped at review. No validation runs here.
func (w *Wizard) Next() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step < StepReview {
		w.step++
	}
}

// Back moves back one step, clamped at details.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepDetails {
		w.step--
	}
}

// SetCategory records the category. The slot query is keyed by
// (date, category), so a change invalidates cached slots and refetches.
func (w *Wizard) SetCategory(ctx context.Context, category request.Category) error {
	w.mu.Lock()
	changed := w.payload.Category != category
	w.payload.Category = category
	w.mu.Unlock()

	if !changed {
		return nil
	}
	return w.refreshSlots(ctx)
}

func (w *Wizard) SetSpecial(special bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payload.IsSpecial = special
}

func (w *Wizard) SetQuantity(quantity int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payload.Quantity = quantity
}

func (w *Wizard) SetDescription(description string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payload.Description = description
}

func (w *Wizard) SetAddress(address request.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payload.Address = address
}

// SetDate records the preferred date (YYYY-MM-DD) and refetches slots.
func (w *Wizard) SetDate(ctx context.Context, date string) error {
	w.mu.Lock()
	changed := w.date != date
	w.date = date
	w.mu.Unlock()

	if !changed {
		return nil
	}
	return w.refreshSlots(ctx)
}

// AvailableSlots returns the windows fetched for the current (date,
// category) pair.
func (w *Wizard) AvailableSlots() []request.SlotWindow {
	w.mu.Lock()
	defer w.mu.Unlock()

	slots := make([]request.SlotWindow, len(w.slots))
	copy(slots, w.slots)
	return slots
}

// PickSlot appends a window to the preferred set, deduplicated by start
// time. Picking an already-selected slot is a no-op.
func (w *Wizard) PickSlot(slot request.SlotWindow) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.payload.PreferredSlots {
		if existing.Start == slot.Start {
			return
		}
	}
	w.payload.PreferredSlots = append(w.payload.PreferredSlots, slot)
}

func (w *Wizard) PreferredSlots() []request.SlotWindow {
	w.mu.Lock()
	defer w.mu.Unlock()

	slots := make([]request.SlotWindow, len(w.payload.PreferredSlots))
	copy(slots, w.payload.PreferredSlots)
	return slots
}

// AttachPhotos uploads every file in parallel and appends the resulting
// URLs to the payload. A partial failure keeps the URLs that did upload and
// surfaces one generic error; re-selecting files retries cleanly since each
// upload is independent.
func (w *Wizard) AttachPhotos(ctx context.Context, photos []Photo) error {
	if len(photos) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		urls []string
	)

	// Uploads are independent: one failure must not abort its siblings.
	var g errgroup.Group
	for _, photo := range photos {
		g.Go(func() error {
			url, err := w.gw.UploadFile(ctx, photo.Name, photo.Content)
			if err != nil {
				logger.Warn("photo upload failed", zap.String("file", photo.Name), zap.Error(err))
				return err
			}
			mu.Lock()
			urls = append(urls, url)
			mu.Unlock()
			return nil
		})
	}
	uploadErr := g.Wait()

	w.mu.Lock()
	w.payload.Photos = append(w.payload.Photos, urls...)
	w.mu.Unlock()

	if uploadErr != nil {
		return appErrors.ErrUploadFailed
	}
	return nil
}

func (w *Wizard) Photos() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	photos := make([]string, len(w.payload.Photos))
	copy(photos, w.payload.Photos)
	return photos
}

// Payload returns the assembled creation payload for review rendering.
func (w *Wizard) Payload() request.Payload {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clonePayloadLocked()
}

// Submit validates the full payload and hands it to the request store. An
// invalid payload never reaches the network.
func (w *Wizard) Submit(ctx context.Context) (*request.PickupRequest, error) {
	w.mu.Lock()
	payload := w.clonePayloadLocked()
	w.mu.Unlock()

	if len(payload.PreferredSlots) == 0 {
		return nil, appErrors.ErrNoPreferredSlots
	}
	if err := utils.ValidateStruct(&payload); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "invalid request payload", err)
	}

	return w.requests.Create(ctx, payload)
}

// refreshSlots reruns the dependent slot query. With either key missing the
// cached slots are just cleared.
func (w *Wizard) refreshSlots(ctx context.Context) error {
	w.mu.Lock()
	date := w.date
	category := w.payload.Category
	w.slots = nil
	w.mu.Unlock()

	if date == "" || category == "" {
		return nil
	}

	slots, err := w.gw.AvailableSlots(ctx, date, string(category))
	if err != nil {
		return err
	}

	w.mu.Lock()
	// Only keep the result if the keys are still the ones queried.
	if w.date == date && w.payload.Category == category {
		w.slots = slots
	}
	w.mu.Unlock()
	return nil
}

func (w *Wizard) clonePayloadLocked() request.Payload {
	payload := w.payload
	payload.PreferredSlots = make([]request.SlotWindow, len(w.payload.PreferredSlots))
	copy(payload.PreferredSlots, w.payload.PreferredSlots)
	payload.Photos = make([]string, len(w.payload.Photos))
	copy(payload.Photos, w.payload.Photos)
	return payload
}
