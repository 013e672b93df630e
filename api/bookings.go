package api

import (
	"context"
	"net/http"
	"net/url"

	"hotelier/models"
)

// CreateBooking submits a reservation. The backend reprices authoritatively;
// any client-side total is advisory.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// MyBookings lists the authenticated guest's reservations.
func (c *Client) MyBookings(ctx context.Context) (*models.BookingList, error) {
	var list models.BookingList
	if err := c.do(ctx, http.MethodGet, "/api/bookings", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CancelBooking cancels one reservation by ID.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, nil)
}
