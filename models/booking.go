package models

import "time"

// DateLayout is the calendar-date wire format used by the booking endpoints.
const DateLayout = "2006-01-02"

// BookingRequest is the payload for POST /api/bookings.
type BookingRequest struct {
	RoomType        string `json:"room_type"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	GuestsCount     int    `json:"guests_count"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// Booking is the created reservation record returned by the backend. The
// backend is the authority on the final price; any client-side total is
// advisory only.
type Booking struct {
	ID          string    `json:"id"`
	RoomType    string    `json:"room_type"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	GuestsCount int       `json:"guests_count"`
	Nights      int       `json:"nights"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingList is the envelope returned by GET /api/bookings.
type BookingList struct {
	Bookings   []Booking `json:"bookings"`
	TotalCount int       `json:"total_count"`
}
