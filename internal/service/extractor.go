package service

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
)

// ApologyReply is the fixed fallback when the AI backend cannot be reached.
const ApologyReply = "Sorry, I'm having trouble right now. Please try again in a few minutes."

// historyWindow bounds how many prior messages are sent for context.
const historyWindow = 6

// nutritionSystemPrompt pins the model to a reply shape the parser can read
// back. Single item: "<Item>: <N> cal. Reply Y". Multiple items list each
// on its own line followed by a Total line and "Reply Y".
const nutritionSystemPrompt = `You are Hannah, a friendly nutrition assistant reached over SMS.
When the user describes food they ate, estimate calories and reply in EXACTLY one of these two shapes.
For a single item:
<Item>: <N> cal. Reply Y to log it.
For multiple items:
<Item>: <N> cal
<Item>: <N> cal
Total: <N> cal
Reply Y to log it.
Calories must be whole numbers. Never include URLs, links, or emojis.
If the description is too vague to estimate, ask exactly one short clarifying question instead.
Keep every reply under 140 characters.`

// ExtractionResult carries the model reply and the draft parsed out of it.
// Draft is nil when the reply carried no usable calorie figure; the reply
// text is still relayed to the user.
type ExtractionResult struct {
	ReplyText string
	Draft     *conversation.Draft
}

// ExtractorService drives the AI chat backend and parses calorie facts back
// out of its replies.
type ExtractorService struct {
	chat ChatClient
}

// NewExtractorService creates a new ExtractorService instance
func NewExtractorService(chat ChatClient) *ExtractorService {
	return &ExtractorService{chat: chat}
}

// Extract sends the user message with trailing conversation context and
// parses the reply. An AI failure yields the static apology and no draft;
// the caller always has something to send back.
func (s *ExtractorService) Extract(ctx context.Context, message string, history []conversation.Message) ExtractionResult {
	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	reply, err := s.chat.Chat(ctx, message, window, nutritionSystemPrompt)
	if err != nil {
		log.Printf("AI chat call failed: %v", err)
		return ExtractionResult{ReplyText: ApologyReply}
	}

	return ExtractionResult{
		ReplyText: reply,
		Draft:     ParseReply(reply),
	}
}

// calorieLine matches "<label>: <number> cal" with anything after it.
// "cal", "cals" and "calories" all qualify.
var calorieLine = regexp.MustCompile(`(?i)^\s*(.+?):\s*(\d+(?:\.\d+)?)\s*cal(?:s|ories)?\b`)

type calorieMatch struct {
	label string
	value string
}

// ParseReply extracts a draft from a model reply. The last qualifying line
// wins so a Total line is preferred over itemized lines. A fractional
// calorie figure is an extraction failure, never rounded.
func ParseReply(reply string) *conversation.Draft {
	var matches []calorieMatch
	for _, line := range strings.Split(reply, "\n") {
		if m := calorieLine.FindStringSubmatch(line); m != nil {
			matches = append(matches, calorieMatch{
				label: cleanLabel(m[1]),
				value: m[2],
			})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	last := matches[len(matches)-1]
	if strings.Contains(last.value, ".") {
		return nil
	}
	calories, err := strconv.Atoi(last.value)
	if err != nil {
		return nil
	}

	name := last.label
	confidence := 1.0
	if strings.EqualFold(name, "total") {
		// Summary line carries the calories; name the entry after the
		// first itemized line.
		name = matches[0].label
		confidence = 0.9
	}
	if name == "" {
		return nil
	}

	return &conversation.Draft{
		FoodName:   name,
		Calories:   calories,
		Confidence: confidence,
	}
}

func cleanLabel(label string) string {
	return strings.TrimSpace(strings.TrimLeft(label, "-*• \t"))
}
