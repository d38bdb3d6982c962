package models

import "time"

// MentionKind distinguishes what was named by an inbound mention.
type MentionKind string

const (
	MentionKindUser     MentionKind = "user"
	MentionKindChannel  MentionKind = "channel"
	MentionKindTeam     MentionKind = "team"
	MentionKindHere     MentionKind = "here"
	MentionKindEveryone MentionKind = "everyone"
)

// Priority buckets derived by the mention classifier and carried on thread metadata.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Sentiment is the coarse tone derived from message text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// MentionContext is the classifier's read of a mention: how urgent it is, what
// it is about, and whether someone is expected to answer.
type MentionContext struct {
	IsUrgent         bool      `json:"is_urgent"`
	Priority         Priority  `json:"priority"`
	Category         string    `json:"category"`
	Keywords         []string  `json:"keywords,omitempty"`
	Sentiment        Sentiment `json:"sentiment"`
	RequiresResponse bool      `json:"requires_response"`
}

// MentionEvent is an immutable description of an inbound mention.
type MentionEvent struct {
	ID          string          `json:"id"`
	Kind        MentionKind     `json:"kind"`
	MentionedID string          `json:"mentioned_id" validate:"required"`
	SenderID    string          `json:"sender_id"    validate:"required"`
	Channel     string          `json:"channel"      validate:"required"`
	ThreadTS    string          `json:"thread_ts,omitempty"`
	MessageTS   string          `json:"message_ts"   validate:"required"`
	Text        string          `json:"text"`
	ReceivedAt  time.Time       `json:"received_at"`
	Context     *MentionContext `json:"context,omitempty"`
}

// Valid reports whether the event carries the fields mention processing requires.
func (e *MentionEvent) Valid() bool {
	return e.MentionedID != "" && e.SenderID != "" && e.Channel != "" && e.MessageTS != ""
}

// DataBag flattens the event into the map rule conditions are evaluated against.
func (e *MentionEvent) DataBag() map[string]any {
	data := map[string]any{
		"kind":         string(e.Kind),
		"mentioned_id": e.MentionedID,
		"sender_id":    e.SenderID,
		"channel":      e.Channel,
		"thread_ts":    e.ThreadTS,
		"message_ts":   e.MessageTS,
		"text":         e.Text,
	}

	if e.Context != nil {
		data["context"] = map[string]any{
			"is_urgent":         e.Context.IsUrgent,
			"priority":          string(e.Context.Priority),
			"category":          e.Context.Category,
			"sentiment":         string(e.Context.Sentiment),
			"requires_response": e.Context.RequiresResponse,
		}
	}

	return data
}
