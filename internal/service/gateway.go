package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
)

const (
	// maxReplyLength keeps replies inside a single SMS segment.
	maxReplyLength = 140
	// storedHistoryLimit caps the messages kept per conversation.
	storedHistoryLimit = 20
)

// unableToLogReply covers both unknown users and storage outages. The draft
// stays in the store so the next "Y" can retry.
const unableToLogReply = "Sorry, I couldn't log that right now. Please try again later."

// GatewayService sequences the store, extractor and food log writer for one
// inbound message and always yields exactly one reply.
type GatewayService struct {
	store        ConversationStore
	extractor    Extractor
	foodLog      FoodLogger
	servicePhone string
}

// NewGatewayService creates a new GatewayService instance
func NewGatewayService(store ConversationStore, extractor Extractor, foodLog FoodLogger, servicePhone string) *GatewayService {
	return &GatewayService{
		store:        store,
		extractor:    extractor,
		foodLog:      foodLog,
		servicePhone: servicePhone,
	}
}

// HandleMessage processes one inbound SMS and returns the reply body. An
// empty reply means the message should be acknowledged without answering
// (our own outbound number echoing back). It never returns an error: every
// failure path collapses into a short user-safe reply.
func (g *GatewayService) HandleMessage(ctx context.Context, from, body string) string {
	if from == g.servicePhone {
		log.Printf("ignoring message from own service number")
		return ""
	}

	entry, err := g.store.Get(ctx, from)
	if err != nil {
		// Availability over consistency: a broken store means a fresh
		// conversation, not a dead gateway.
		log.Printf("conversation store read failed for %s: %v", from, err)
		entry = &conversation.Entry{Phone: from, Messages: []conversation.Message{}}
	}

	if entry.State() == conversation.PendingConfirmation && conversation.IsAffirmative(body) {
		return g.commit(ctx, from, entry)
	}

	// Any other text is a fresh extraction request. A successful parse
	// replaces the prior draft; a failed one collapses the state.
	result := g.extractor.Extract(ctx, body, entry.Messages)
	reply := SanitizeReply(result.ReplyText)

	entry.PendingDraft = result.Draft
	entry.Messages = append(entry.Messages,
		conversation.Message{Role: "user", Content: body},
		conversation.Message{Role: "assistant", Content: reply},
	)
	if n := len(entry.Messages); n > storedHistoryLimit {
		entry.Messages = entry.Messages[n-storedHistoryLimit:]
	}

	if err := g.store.Put(ctx, from, entry); err != nil {
		log.Printf("conversation store write failed for %s: %v", from, err)
	}

	return reply
}

func (g *GatewayService) commit(ctx context.Context, from string, entry *conversation.Entry) string {
	draft := entry.PendingDraft

	logged, err := g.foodLog.LogFood(ctx, from, *draft)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			log.Printf("food log rejected for %s: unknown user", from)
		} else {
			log.Printf("food log write failed for %s: %v", from, err)
		}
		return unableToLogReply
	}

	if err := g.store.Clear(ctx, from); err != nil {
		log.Printf("conversation store clear failed for %s: %v", from, err)
	}

	reply := fmt.Sprintf("Logged %s (%d cal).", logged.FoodName, logged.Calories)
	if total, err := g.foodLog.DailyTotal(ctx, logged.UserID, time.Now()); err == nil {
		reply = fmt.Sprintf("Logged %s (%d cal). Today: %d cal.", logged.FoodName, logged.Calories, total)
	} else {
		log.Printf("daily total lookup failed for %s: %v", from, err)
	}

	return SanitizeReply(reply)
}

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	bareURL      = regexp.MustCompile(`https?://\S+`)
	extraSpaces  = regexp.MustCompile(`[ \t]{2,}`)
)

// SanitizeReply strips links the handset cannot use, then fits the text
// into a single SMS segment with an ellipsis marker.
func SanitizeReply(text string) string {
	text = markdownLink.ReplaceAllString(text, "$1")
	text = bareURL.ReplaceAllString(text, "")
	text = extraSpaces.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxReplyLength {
		return text
	}
	return strings.TrimSpace(string(runes[:maxReplyLength-3])) + "..."
}
