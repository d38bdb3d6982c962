package models

import "time"

// NotificationKind distinguishes the initial notice from escalations and digests.
type NotificationKind string

const (
	NotificationKindDirect     NotificationKind = "direct"
	NotificationKindEscalation NotificationKind = "escalation"
	NotificationKindSummary    NotificationKind = "summary"
)

// NotificationStatus is the delivery/acknowledgment state of a notification.
type NotificationStatus string

const (
	NotificationStatusPending      NotificationStatus = "pending"
	NotificationStatusSent         NotificationStatus = "sent"
	NotificationStatusAcknowledged NotificationStatus = "acknowledged"
	NotificationStatusExpired      NotificationStatus = "expired"
)

// Notification is a single outbound notice answering a mention. It moves to
// acknowledged only through an explicit acknowledgment and to expired by the
// background sweep once past ExpiresAt.
type Notification struct {
	ID             string             `json:"id"`
	MentionID      string             `json:"mention_id"`
	TeamID         string             `json:"team_id,omitempty"`
	Recipient      string             `json:"recipient"`
	Kind           NotificationKind   `json:"kind"`
	Status         NotificationStatus `json:"status"`
	Level          int                `json:"level,omitempty"`
	SentAt         time.Time          `json:"sent_at"`
	AcknowledgedAt *time.Time         `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string             `json:"acknowledged_by,omitempty"`
	ExpiresAt      time.Time          `json:"expires_at"`
}

// Open reports whether the notification still awaits acknowledgment.
func (n *Notification) Open() bool {
	return n.Status == NotificationStatusPending || n.Status == NotificationStatusSent
}
