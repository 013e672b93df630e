// File: hotelier/booking/draft.go
package booking

import (
	"math"
	"time"

	"hotelier/models"
)

// MaxNotesLen caps the special-requests field.
const MaxNotesLen = 500

// Draft is an unsubmitted reservation under construction. Nights and
// TotalPrice are derived: they are recomputed from the inputs on every
// mutation and never trusted from persisted state.
type Draft struct {
	Room       *models.Room
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
	Notes      string

	Nights     int
	TotalPrice float64
	UpdatedAt  time.Time
}

// Empty reports whether the draft holds no inputs.
func (d Draft) Empty() bool {
	return d.Room == nil && d.CheckIn.IsZero() && d.CheckOut.IsZero() && d.GuestCount == 0 && d.Notes == ""
}

// Complete reports whether the draft can be submitted.
func (d Draft) Complete() bool {
	return d.Room != nil && !d.CheckIn.IsZero() && !d.CheckOut.IsZero() && d.GuestCount >= 1
}

// derive recomputes nights and total price. Nights are whole calendar days,
// rounded up when date parsing leaves a fractional remainder: a partial day
// still occupies the room. Incomplete drafts derive to zero.
func (d *Draft) derive() {
	d.Nights = 0
	d.TotalPrice = 0
	if !d.CheckIn.IsZero() && !d.CheckOut.IsZero() {
		days := d.CheckOut.Sub(d.CheckIn).Hours() / 24
		if days > 0 {
			d.Nights = int(math.Ceil(days))
		}
	}
	if d.Room != nil {
		d.TotalPrice = d.Room.NightlyRate * float64(d.Nights)
	}
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Room       *models.Room
	CheckIn    *time.Time
	CheckOut   *time.Time
	GuestCount *int
	Notes      *string
}
