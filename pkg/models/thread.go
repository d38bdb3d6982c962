package models

import "time"

// ParticipantRole is how a user relates to the conversation.
type ParticipantRole string

const (
	ParticipantRoleRequester ParticipantRole = "requester"
	ParticipantRoleResponder ParticipantRole = "responder"
	ParticipantRoleObserver  ParticipantRole = "observer"
)

// Participant tracks one user's presence in a thread.
type Participant struct {
	UserID       string          `json:"user_id"`
	Role         ParticipantRole `json:"role"`
	JoinedAt     time.Time       `json:"joined_at"`
	LastActivity time.Time       `json:"last_activity"`
	MessageCount int             `json:"message_count"`
}

// ActivityKind labels entries in the thread activity log.
type ActivityKind string

const (
	ActivityKindMessage      ActivityKind = "message"
	ActivityKindReaction     ActivityKind = "reaction"
	ActivityKindStatusChange ActivityKind = "status_change"
	ActivityKindAssignment   ActivityKind = "assignment"
)

// Activity is one entry of the bounded per-thread activity log.
type Activity struct {
	ID      string         `json:"id"`
	Kind    ActivityKind   `json:"kind"`
	UserID  string         `json:"user_id"`
	At      time.Time      `json:"at"`
	Details map[string]any `json:"details,omitempty"`
}

// ThreadMetadata links the conversation to helpdesk/tracker entities and holds
// free-form custom data.
type ThreadMetadata struct {
	TicketID string         `json:"ticket_id,omitempty"`
	TaskID   string         `json:"task_id,omitempty"`
	Category string         `json:"category,omitempty"`
	Priority Priority       `json:"priority,omitempty"`
	Custom   map[string]any `json:"custom,omitempty"`
}

// ThreadContext is the accumulated state of one ongoing conversation.
type ThreadContext struct {
	ID           string                  `json:"id"`
	Channel      string                  `json:"channel"`
	ParentTS     string                  `json:"parent_ts,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	LastActivity time.Time               `json:"last_activity"`
	Participants map[string]*Participant `json:"participants"`
	Activity     []Activity              `json:"activity"`
	Metadata     ThreadMetadata          `json:"metadata"`
	Active       bool                    `json:"active"`
}

// ThreadSummary is the lazily computed digest of a thread, cached until the
// next mutation invalidates it.
type ThreadSummary struct {
	ThreadID         string        `json:"thread_id"`
	MessageCount     int           `json:"message_count"`
	ParticipantCount int           `json:"participant_count"`
	Duration         time.Duration `json:"duration"`
	Topics           []string      `json:"topics,omitempty"`
	Sentiment        Sentiment     `json:"sentiment"`
	Urgency          Priority      `json:"urgency"`
	GeneratedAt      time.Time     `json:"generated_at"`
}
