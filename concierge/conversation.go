// File: hotelier/concierge/conversation.go
package concierge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hotelier/api"
	"hotelier/models"
	"hotelier/utils"
)

// Role of a message in the transcript.
const (
	RoleGuest     = "guest"
	RoleConcierge = "concierge"
)

// Message is one turn in the concierge transcript.
type Message struct {
	ID      string
	Role    string
	Text    string
	Actions []models.ChatAction
	SentAt  time.Time
}

// Conversation holds the in-memory chat transcript and sends turns through
// the API client. Outbound turns are throttled so a stuck send button cannot
// hammer the chat endpoint. The transcript is not persisted.
type Conversation struct {
	mu       sync.Mutex
	id       string
	messages []Message

	client  *api.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// New creates an empty conversation. ratePerMin bounds outbound sends;
// values below 1 fall back to 20 per minute.
func New(client *api.Client, ratePerMin int, log *zap.Logger) *Conversation {
	if ratePerMin < 1 {
		ratePerMin = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Conversation{
		id:      uuid.NewString(),
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMin)), ratePerMin),
		log:     log,
	}
}

// Send appends the guest turn, dispatches it and appends the reply. On a
// failed send the guest turn is kept so the UI can offer a retry.
func (c *Conversation) Send(ctx context.Context, text string) (*models.ChatResponse, error) {
	if text == "" {
		return nil, utils.NewValidationError("text", "message must not be empty")
	}
	if !c.limiter.Allow() {
		return nil, utils.NewValidationError("text", "sending too fast, please wait a moment")
	}

	c.append(Message{ID: uuid.NewString(), Role: RoleGuest, Text: text, SentAt: time.Now()})

	resp, err := c.client.Chat(ctx, models.ChatRequest{Text: text, ConversationID: c.id})
	if err != nil {
		c.log.Debug("concierge send failed", zap.Error(err))
		return nil, err
	}

	c.append(Message{
		ID:      uuid.NewString(),
		Role:    RoleConcierge,
		Text:    resp.ResponseText,
		Actions: resp.Actions,
		SentAt:  time.Now(),
	})
	return resp, nil
}

// History returns a copy of the transcript.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Clear drops the transcript and starts a fresh conversation ID.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.id = uuid.NewString()
}

func (c *Conversation) append(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}
