package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
	"github.com/hannahhealth/sms-gateway/backend/internal/models"
)

// ChatClient sends a message to the AI chat backend and returns its reply.
type ChatClient interface {
	Chat(ctx context.Context, message string, history []conversation.Message, systemPrompt string) (string, error)
}

// ConversationStore is the gateway's view of per-phone conversation state.
type ConversationStore interface {
	Get(ctx context.Context, phone string) (*conversation.Entry, error)
	Put(ctx context.Context, phone string, entry *conversation.Entry) error
	Clear(ctx context.Context, phone string) error
}

// Extractor turns free text into a conversational reply and, when the reply
// carries a calorie figure, a pending draft.
type Extractor interface {
	Extract(ctx context.Context, message string, history []conversation.Message) ExtractionResult
}

// FoodLogger resolves phone numbers to users and persists confirmed entries.
type FoodLogger interface {
	LogFood(ctx context.Context, phone string, draft conversation.Draft) (*models.FoodLog, error)
	DailyTotal(ctx context.Context, userID uuid.UUID, at time.Time) (int, error)
}
