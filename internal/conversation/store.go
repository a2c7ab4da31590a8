package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a conversation survives after its last write.
const DefaultTTL = 24 * time.Hour

// Message is one turn of the exchange with a phone number.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Draft is a parsed, unconfirmed food entry awaiting a "Y" reply.
type Draft struct {
	FoodName   string  `json:"food_name"`
	Calories   int     `json:"calories"`
	MealType   string  `json:"meal_type,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Entry is the stored conversation for one phone number. At most one
// pending draft exists per phone; a new extraction overwrites it.
type Entry struct {
	Phone        string    `json:"phone"`
	Messages     []Message `json:"messages"`
	PendingDraft *Draft    `json:"pending_draft,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store keeps conversations in Redis with a per-key TTL. Expiry is the only
// cleanup mechanism; there is no background sweeper.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a conversation store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func conversationKey(phone string) string {
	return "conversation:" + phone
}

// Get returns the conversation for a phone number. A missing or expired key
// yields a fresh empty entry, not an error.
func (s *Store) Get(ctx context.Context, phone string) (*Entry, error) {
	data, err := s.client.Get(ctx, conversationKey(phone)).Bytes()
	if err == redis.Nil {
		return &Entry{Phone: phone, Messages: []Message{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}

	return &entry, nil
}

// Put overwrites the conversation and resets its expiry.
func (s *Store) Put(ctx context.Context, phone string, entry *Entry) error {
	entry.Phone = phone
	entry.UpdatedAt = time.Now()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := s.client.Set(ctx, conversationKey(phone), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

// Clear deletes the conversation, used after a successful commit.
func (s *Store) Clear(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, conversationKey(phone)).Err(); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}
