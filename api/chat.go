package api

import (
	"context"
	"net/http"

	"hotelier/models"
)

// Chat sends one concierge turn to the backend.
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
