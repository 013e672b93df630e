package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hotelier/models"
)

// Rooms lists the catalog, optionally filtered by stay dates, party size and
// price band. Zero-valued filters are omitted from the query string.
func (c *Client) Rooms(ctx context.Context, q models.RoomQuery) (*models.RoomList, error) {
	params := url.Values{}
	if q.CheckIn != "" {
		params.Set("check_in", q.CheckIn)
	}
	if q.CheckOut != "" {
		params.Set("check_out", q.CheckOut)
	}
	if q.Guests > 0 {
		params.Set("guests", fmt.Sprintf("%d", q.Guests))
	}
	if q.MinPrice > 0 {
		params.Set("min_price", fmt.Sprintf("%g", q.MinPrice))
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", fmt.Sprintf("%g", q.MaxPrice))
	}

	path := "/api/rooms"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list models.RoomList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
