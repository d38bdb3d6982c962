// Package thread maintains per-conversation state: participants, a bounded
// activity log, linkage metadata and a lazily computed summary.
package thread

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/eventbus"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/events"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

const (
	// maxActivityLog bounds the per-thread activity log; oldest entries are trimmed.
	maxActivityLog = 200

	// InactivityCutoff is how long a thread stays live without activity. The
	// hourly sweep removes contexts whose last activity predates it.
	InactivityCutoff = 24 * time.Hour
)

type Store struct {
	mu        sync.RWMutex
	contexts  map[string]*models.ThreadContext
	summaries map[string]*models.ThreadSummary
	bus       eventbus.EventBus
	logger    *slog.Logger
	now       func() time.Time
}

func NewStore(bus eventbus.EventBus, logger *slog.Logger) *Store {
	return &Store{
		contexts:  make(map[string]*models.ThreadContext),
		summaries: make(map[string]*models.ThreadSummary),
		bus:       bus,
		logger:    logger.With("module", "thread_store"),
		now:       time.Now,
	}
}

// CreateOrUpdate returns the current context for threadID, creating it with
// userID as requester on first reference. On an existing thread the user is
// added (or refreshed) as a participant and the metadata patch is merged.
func (s *Store) CreateOrUpdate(threadID, channel, userID string, patch *models.ThreadMetadata) *models.ThreadContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	tc, ok := s.contexts[threadID]
	if !ok {
		tc = &models.ThreadContext{
			ID:           threadID,
			Channel:      channel,
			ParentTS:     threadID,
			CreatedAt:    now,
			LastActivity: now,
			Participants: make(map[string]*models.Participant),
			Active:       true,
		}
		tc.Participants[userID] = &models.Participant{
			UserID:       userID,
			Role:         models.ParticipantRoleRequester,
			JoinedAt:     now,
			LastActivity: now,
		}
		s.contexts[threadID] = tc
		s.logger.Debug("Created thread context", "thread_id", threadID, "channel", channel)
	} else {
		s.touchParticipant(tc, userID, models.ParticipantRoleResponder, false)
		tc.LastActivity = now
	}

	if patch != nil {
		mergeMetadata(&tc.Metadata, patch)
	}

	delete(s.summaries, threadID)

	return tc
}

// RecordActivity appends to the bounded activity log and refreshes the acting
// participant and the thread's last activity.
func (s *Store) RecordActivity(threadID string, kind models.ActivityKind, userID string, details map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tc, ok := s.contexts[threadID]
	if !ok {
		return models.ErrThreadNotFound
	}

	now := s.now()

	tc.Activity = append(tc.Activity, models.Activity{
		ID:      uuid.New().String(),
		Kind:    kind,
		UserID:  userID,
		At:      now,
		Details: details,
	})

	if len(tc.Activity) > maxActivityLog {
		tc.Activity = tc.Activity[len(tc.Activity)-maxActivityLog:]
	}

	s.touchParticipant(tc, userID, models.ParticipantRoleResponder, kind == models.ActivityKindMessage)
	tc.LastActivity = now

	delete(s.summaries, threadID)

	return nil
}

// GetContext returns the context for threadID.
func (s *Store) GetContext(threadID string) (*models.ThreadContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tc, ok := s.contexts[threadID]
	if !ok {
		return nil, models.ErrThreadNotFound
	}

	return tc, nil
}

// GetSummary lazily computes the thread summary, caching it until the next
// mutation invalidates it.
func (s *Store) GetSummary(threadID string) (*models.ThreadSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tc, ok := s.contexts[threadID]
	if !ok {
		return nil, models.ErrThreadNotFound
	}

	if cached, ok := s.summaries[threadID]; ok {
		return cached, nil
	}

	summary := s.computeSummary(tc)
	s.summaries[threadID] = summary

	return summary, nil
}

// MarkActive sets the explicit activity override.
func (s *Store) MarkActive(threadID string) error {
	return s.setActive(threadID, true)
}

// MarkInactive clears the explicit activity override.
func (s *Store) MarkInactive(threadID string) error {
	return s.setActive(threadID, false)
}

// IsActive requires both the explicit flag and activity within the cutoff window.
func (s *Store) IsActive(threadID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tc, ok := s.contexts[threadID]
	if !ok {
		return false
	}

	return tc.Active && s.now().Sub(tc.LastActivity) < InactivityCutoff
}

// Delete removes the context and its message history. Deleting an unknown
// thread is a no-op.
func (s *Store) Delete(ctx context.Context, threadID string) {
	s.mu.Lock()

	tc, ok := s.contexts[threadID]
	if !ok {
		s.mu.Unlock()

		return
	}

	activities := len(tc.Activity)
	channel := tc.Channel

	delete(s.contexts, threadID)
	delete(s.summaries, threadID)
	s.mu.Unlock()

	s.logger.Info("Deleted thread context", "thread_id", threadID, "activities", activities)
	s.publishDeleted(ctx, threadID, channel, activities)
}

// Sweep removes contexts whose last activity predates cutoff, with their
// message history. Returns how many were removed.
func (s *Store) Sweep(ctx context.Context, cutoff time.Time) int {
	s.mu.Lock()

	type removed struct {
		id         string
		channel    string
		activities int
	}

	var stale []removed

	for id, tc := range s.contexts {
		if tc.LastActivity.Before(cutoff) {
			stale = append(stale, removed{id: id, channel: tc.Channel, activities: len(tc.Activity)})
			delete(s.contexts, id)
			delete(s.summaries, id)
		}
	}
	s.mu.Unlock()

	for _, r := range stale {
		s.logger.Info("Swept stale thread context", "thread_id", r.id)
		s.publishDeleted(ctx, r.id, r.channel, r.activities)
	}

	return len(stale)
}

// Count returns the number of live contexts.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.contexts)
}

func (s *Store) setActive(threadID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tc, ok := s.contexts[threadID]
	if !ok {
		return models.ErrThreadNotFound
	}

	tc.Active = active
	delete(s.summaries, threadID)

	return nil
}

func (s *Store) touchParticipant(tc *models.ThreadContext, userID string, role models.ParticipantRole, countMessage bool) {
	now := s.now()

	p, ok := tc.Participants[userID]
	if !ok {
		p = &models.Participant{UserID: userID, Role: role, JoinedAt: now}
		tc.Participants[userID] = p
	}

	p.LastActivity = now

	if countMessage {
		p.MessageCount++
	}
}

func (s *Store) publishDeleted(ctx context.Context, threadID, channel string, activities int) {
	if s.bus == nil {
		return
	}

	event := events.ThreadDeleted{
		BaseEvent: events.BaseEvent{
			ID:        s.bus.GenerateID(),
			Type:      events.ThreadDeletedEvent,
			Timestamp: s.now(),
		},
		ThreadID:   threadID,
		Channel:    channel,
		Activities: activities,
	}

	if err := s.bus.Publish(ctx, threadID, event); err != nil {
		s.logger.Error("Failed to publish thread deleted event", "thread_id", threadID, "error", err)
	}
}

func mergeMetadata(dst, patch *models.ThreadMetadata) {
	if patch.TicketID != "" {
		dst.TicketID = patch.TicketID
	}

	if patch.TaskID != "" {
		dst.TaskID = patch.TaskID
	}

	if patch.Category != "" {
		dst.Category = patch.Category
	}

	if patch.Priority != "" {
		dst.Priority = patch.Priority
	}

	if len(patch.Custom) > 0 {
		if dst.Custom == nil {
			dst.Custom = make(map[string]any, len(patch.Custom))
		}

		for k, v := range patch.Custom {
			dst.Custom[k] = v
		}
	}
}
