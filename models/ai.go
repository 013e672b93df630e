package models

// ChatRequest is the payload sent to POST /api/ai/chat.
type ChatRequest struct {
	Text           string `json:"text"`            // guest's message
	ConversationID string `json:"conversation_id"` // groups turns server-side
}

// ChatAction is a single suggested follow-up returned with a concierge reply,
// e.g. "book this room" or "show availability".
type ChatAction struct {
	Label       string `json:"label"`
	Type        string `json:"type"`              // e.g. "book", "show_rooms", "chat"
	RoomID      string `json:"room_id,omitempty"` // when the action targets a room
	Description string `json:"description,omitempty"`
}

// ChatResponse is the concierge reply for one turn.
type ChatResponse struct {
	Intent       string       `json:"intent"`   // "chat", "recommend", or "book"
	ResponseText string       `json:"response"` // natural-language reply
	Actions      []ChatAction `json:"actions,omitempty"`
}
