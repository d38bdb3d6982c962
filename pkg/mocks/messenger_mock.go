// Package mocks provides recording collaborator stubs for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
)

// SentMessage records one SendMessage call.
type SentMessage struct {
	Channel  string
	Text     string
	ThreadTS string
}

// Reaction records one AddReaction call.
type Reaction struct {
	Channel   string
	Timestamp string
	Name      string
}

// RecordingMessenger captures outbound messages for assertions. Set SendErr to
// make every delivery fail.
type RecordingMessenger struct {
	mu        sync.Mutex
	messages  []SentMessage
	reactions []Reaction
	seq       int

	SendErr error
}

func NewRecordingMessenger() *RecordingMessenger {
	return &RecordingMessenger{}
}

func (m *RecordingMessenger) SendMessage(_ context.Context, channel, text, threadTS string) (messaging.DeliveryRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return messaging.DeliveryRef{}, m.SendErr
	}

	m.seq++
	m.messages = append(m.messages, SentMessage{Channel: channel, Text: text, ThreadTS: threadTS})

	return messaging.DeliveryRef{Channel: channel, Timestamp: generateTS(m.seq)}, nil
}

func (m *RecordingMessenger) AddReaction(_ context.Context, channel, timestamp, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return m.SendErr
	}

	m.reactions = append(m.reactions, Reaction{Channel: channel, Timestamp: timestamp, Name: name})

	return nil
}

func (m *RecordingMessenger) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMessage, len(m.messages))
	copy(out, m.messages)

	return out
}

func (m *RecordingMessenger) Reactions() []Reaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Reaction, len(m.reactions))
	copy(out, m.reactions)

	return out
}

// MessageCount returns how many messages were delivered.
func (m *RecordingMessenger) MessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.messages)
}
