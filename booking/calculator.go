// File: hotelier/booking/calculator.go
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"hotelier/api"
	"hotelier/models"
	"hotelier/storage"
	"hotelier/utils"
)

// Calculator owns one in-progress booking draft and keeps its derived fields
// consistent with its inputs. Every successful mutation writes the draft
// through to the injected store so it survives a restart.
type Calculator struct {
	mu    sync.Mutex
	draft Draft
	store storage.Store
	log   *zap.Logger
}

func NewCalculator(store storage.Store, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{store: store, log: log}
}

// persistedDraft is the durable form. Nights and total are written for
// inspection but ignored on restore: derived fields are always recomputable
// and never independently persisted truth.
type persistedDraft struct {
	Room       *models.Room `json:"room,omitempty"`
	CheckIn    string       `json:"check_in,omitempty"`
	CheckOut   string       `json:"check_out,omitempty"`
	GuestCount int          `json:"guest_count,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	Nights     int          `json:"nights"`
	TotalPrice float64      `json:"total_price"`
}

// Start replaces the draft wholesale. The dates must satisfy checkOut strictly
// after checkIn and the guest count must fit the room; on a violation a
// ValidationError names the offending field and the prior draft is untouched.
func (c *Calculator) Start(room models.Room, checkIn, checkOut time.Time, guests int) error {
	if !checkOut.After(checkIn) {
		return utils.NewValidationError("check_out", "must be after check-in")
	}
	if guests < 1 {
		return utils.NewValidationError("guest_count", "must be at least 1")
	}
	if guests > room.Capacity {
		return utils.NewValidationError("guest_count", "exceeds room capacity")
	}

	c.mu.Lock()
	r := room
	c.draft = Draft{Room: &r, CheckIn: checkIn, CheckOut: checkOut, GuestCount: guests}
	c.draft.derive()
	c.draft.UpdatedAt = time.Now()
	c.mu.Unlock()
	c.persist()
	return nil
}

// Update merges a partial edit into the draft and recomputes the derived
// fields. An incomplete draft is legal: derived fields read zero until both
// dates are present. Guest-count and notes bounds are still enforced.
func (c *Calculator) Update(p Patch) error {
	c.mu.Lock()
	next := c.draft
	if p.Room != nil {
		r := *p.Room
		next.Room = &r
	}
	if p.CheckIn != nil {
		next.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		next.CheckOut = *p.CheckOut
	}
	if p.GuestCount != nil {
		next.GuestCount = *p.GuestCount
	}
	if p.Notes != nil {
		next.Notes = *p.Notes
	}

	if p.GuestCount != nil && next.GuestCount < 1 {
		c.mu.Unlock()
		return utils.NewValidationError("guest_count", "must be at least 1")
	}
	if next.Room != nil && next.GuestCount > next.Room.Capacity {
		c.mu.Unlock()
		return utils.NewValidationError("guest_count", "exceeds room capacity")
	}
	if utf8.RuneCountInString(next.Notes) > MaxNotesLen {
		c.mu.Unlock()
		return utils.NewValidationError("notes", "longer than 500 characters")
	}

	next.derive()
	next.UpdatedAt = time.Now()
	c.draft = next
	c.mu.Unlock()
	c.persist()
	return nil
}

// Reset clears the draft to its empty state. Idempotent.
func (c *Calculator) Reset() {
	c.mu.Lock()
	c.draft = Draft{}
	c.mu.Unlock()
	_ = c.store.Delete(storage.KeyDraft)
}

// Snapshot returns the draft by value; the caller owns its copy.
func (c *Calculator) Snapshot() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.draft
	if c.draft.Room != nil {
		r := *c.draft.Room
		snap.Room = &r
	}
	return snap
}

// Restore loads a persisted draft. Derived fields are recomputed rather than
// trusted; a corrupt blob falls back to an empty draft.
func (c *Calculator) Restore() {
	data, err := c.store.Load(storage.KeyDraft)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.log.Warn("draft restore failed, starting empty", zap.Error(err))
		}
		return
	}
	var saved persistedDraft
	if err := json.Unmarshal(data, &saved); err != nil {
		c.log.Warn("discarding corrupt persisted draft")
		_ = c.store.Delete(storage.KeyDraft)
		return
	}

	draft := Draft{Room: saved.Room, GuestCount: saved.GuestCount, Notes: saved.Notes}
	if saved.CheckIn != "" {
		t, err := time.Parse(models.DateLayout, saved.CheckIn)
		if err != nil {
			c.log.Warn("discarding persisted draft with bad check-in date")
			_ = c.store.Delete(storage.KeyDraft)
			return
		}
		draft.CheckIn = t
	}
	if saved.CheckOut != "" {
		t, err := time.Parse(models.DateLayout, saved.CheckOut)
		if err != nil {
			c.log.Warn("discarding persisted draft with bad check-out date")
			_ = c.store.Delete(storage.KeyDraft)
			return
		}
		draft.CheckOut = t
	}
	draft.derive()
	draft.UpdatedAt = time.Now()

	c.mu.Lock()
	c.draft = draft
	c.mu.Unlock()
}

// Submit hands a snapshot of the draft to the booking endpoint and resets the
// draft once the backend acknowledges. The backend reprices authoritatively.
func (c *Calculator) Submit(ctx context.Context, client *api.Client) (*models.Booking, error) {
	snap := c.Snapshot()
	if !snap.Complete() {
		return nil, utils.NewValidationError("draft", "room, dates and guest count are required")
	}
	req := models.BookingRequest{
		RoomType:        snap.Room.RoomType,
		CheckIn:         snap.CheckIn.Format(models.DateLayout),
		CheckOut:        snap.CheckOut.Format(models.DateLayout),
		GuestsCount:     snap.GuestCount,
		SpecialRequests: snap.Notes,
	}
	booking, err := client.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Reset()
	return booking, nil
}

func (c *Calculator) persist() {
	snap := c.Snapshot()
	saved := persistedDraft{
		Room:       snap.Room,
		GuestCount: snap.GuestCount,
		Notes:      snap.Notes,
		Nights:     snap.Nights,
		TotalPrice: snap.TotalPrice,
	}
	if !snap.CheckIn.IsZero() {
		saved.CheckIn = snap.CheckIn.Format(models.DateLayout)
	}
	if !snap.CheckOut.IsZero() {
		saved.CheckOut = snap.CheckOut.Format(models.DateLayout)
	}
	data, err := json.Marshal(saved)
	if err != nil {
		c.log.Warn("failed to marshal draft", zap.Error(err))
		return
	}
	if err := c.store.Save(storage.KeyDraft, data); err != nil {
		c.log.Warn("failed to persist draft", zap.Error(err))
	}
}
