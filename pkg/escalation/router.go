// Package escalation routes inbound mentions: it classifies them, fires
// matching rules, notifies the responsible team, and escalates along the
// team's chain until someone acknowledges.
package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/eventbus"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/events"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/scheduler"
)

const maxHistoryPerUser = 100

const historyRetention = 7 * 24 * time.Hour

const responseCheckKey = "response-check"

type mentionRecord struct {
	MentionID string
	Channel   string
	At        time.Time
	Urgent    bool
}

// TeamMentionOptions tune a single team mention. A zero ResponseTime keeps
// the team's configured window.
type TeamMentionOptions struct {
	ResponseTime time.Duration
}

type Router struct {
	mu sync.Mutex

	rules         map[string]*models.MentionRule
	teams         map[string]*models.Team
	notifications map[string]*models.Notification
	mentions      map[string]*models.MentionEvent
	history       map[string][]mentionRecord
	lastFired     map[string]time.Time

	classifier Classifier
	sched      *scheduler.Scheduler
	messenger  messaging.Messenger
	directory  messaging.Directory
	bus        eventbus.EventBus
	validate   *validator.Validate
	logger     *slog.Logger
	now        func() time.Time
}

func NewRouter(
	classifier Classifier,
	sched *scheduler.Scheduler,
	messenger messaging.Messenger,
	directory messaging.Directory,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *Router {
	return &Router{
		rules:         make(map[string]*models.MentionRule),
		teams:         make(map[string]*models.Team),
		notifications: make(map[string]*models.Notification),
		mentions:      make(map[string]*models.MentionEvent),
		history:       make(map[string][]mentionRecord),
		lastFired:     make(map[string]time.Time),
		classifier:    classifier,
		sched:         sched,
		messenger:     messenger,
		directory:     directory,
		bus:           bus,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        logger.With("module", "escalation"),
		now:           time.Now,
	}
}

// SetNow overrides the clock, for tests that exercise cooldowns and windows.
func (r *Router) SetNow(now func() time.Time) {
	r.now = now
}

// RegisterRule validates and stores a rule, replacing any rule with the same id.
func (r *Router) RegisterRule(rule *models.MentionRule) error {
	var violations []string

	if err := r.validate.Struct(rule); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range errs {
				violations = append(violations, fmt.Sprintf("%s: %s", fieldErr.Field(), fieldErr.Tag()))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	for i, condition := range rule.Conditions {
		if !condition.Operator.Valid() {
			violations = append(violations, fmt.Sprintf("conditions[%d]: unknown operator %q", i, condition.Operator))
		}
	}

	for i, action := range rule.Actions {
		if action.Type == "" {
			violations = append(violations, fmt.Sprintf("actions[%d]: type is required", i))
		}

		if action.DelaySeconds < 0 {
			violations = append(violations, fmt.Sprintf("actions[%d]: delay must not be negative", i))
		}
	}

	if len(violations) > 0 {
		return models.NewValidationError("rule", violations)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[rule.ID] = rule
	r.logger.Info("Registered mention rule", "rule_id", rule.ID, "priority", rule.Priority, "enabled", rule.Enabled)

	return nil
}

// RegisterTeam validates and stores a team, replacing any team with the same id.
func (r *Router) RegisterTeam(team *models.Team) error {
	var violations []string

	if err := r.validate.Struct(team); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range errs {
				violations = append(violations, fmt.Sprintf("%s: %s", fieldErr.Field(), fieldErr.Tag()))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	if len(violations) > 0 {
		return models.NewValidationError("team", violations)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[team.ID] = team
	r.logger.Info("Registered team", "team_id", team.ID, "members", len(team.Members))

	return nil
}

// Rule returns a registered rule by id.
func (r *Router) Rule(id string) (*models.MentionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrRuleNotFound, id)
	}

	copied := *rule

	return &copied, nil
}

// Team returns a registered team by id.
func (r *Router) Team(id string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrTeamNotFound, id)
	}

	copied := *team

	return &copied, nil
}

// Notification returns a tracked notification by id.
func (r *Router) Notification(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, ok := r.notifications[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotificationNotFound, id)
	}

	copied := *notification

	return &copied, nil
}

// NotificationsForMention returns every notification created for a mention,
// oldest first.
func (r *Router) NotificationsForMention(mentionID string) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Notification

	for _, notification := range r.notifications {
		if notification.MentionID == mentionID {
			copied := *notification
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SentAt.Equal(result[j].SentAt) {
			return result[i].ID < result[j].ID
		}

		return result[i].SentAt.Before(result[j].SentAt)
	})

	return result
}

// Process classifies an inbound mention, records it, and fires every matching
// rule in priority order. Malformed events are dropped with a warning rather
// than failing the caller.
func (r *Router) Process(ctx context.Context, event *models.MentionEvent) error {
	if !event.Valid() {
		r.logger.WarnContext(ctx, "Dropping malformed mention event",
			"mentioned_id", event.MentionedID, "channel", event.Channel)

		return nil
	}

	if event.ID == "" {
		event.ID = "mention-" + uuid.NewString()[:8]
	}

	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = r.now()
	}

	if event.Context == nil && r.classifier != nil {
		event.Context = r.classifier.Classify(event.Text)
	}

	r.recordMention(event)
	r.publishMentionReceived(ctx, event)

	matched := r.matchingRules(event)

	for _, rule := range matched {
		if err := r.fireRule(ctx, rule, event); err != nil {
			r.logger.ErrorContext(ctx, "Mention rule action failed",
				"rule_id", rule.ID, "mention_id", event.ID, "error", err)

			return err
		}
	}

	r.logger.InfoContext(ctx, "Processed mention",
		"mention_id", event.ID, "channel", event.Channel, "rules_fired", len(matched))

	return nil
}

func (r *Router) recordMention(event *models.MentionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mentions[event.ID] = event

	urgent := event.Context != nil && event.Context.IsUrgent

	records := append(r.history[event.MentionedID], mentionRecord{
		MentionID: event.ID,
		Channel:   event.Channel,
		At:        event.ReceivedAt,
		Urgent:    urgent,
	})
	if len(records) > maxHistoryPerUser {
		records = records[len(records)-maxHistoryPerUser:]
	}

	r.history[event.MentionedID] = records
}

// matchingRules returns enabled, matching, off-cooldown rules ordered by
// descending priority, ties broken by id for determinism.
func (r *Router) matchingRules(event *models.MentionEvent) []*models.MentionRule {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := event.DataBag()
	now := r.now()

	var matched []*models.MentionRule

	for _, rule := range r.rules {
		if !rule.Enabled || !rule.Matches(data) {
			continue
		}

		if rule.CooldownMinutes > 0 {
			cooldownKey := rule.ID + "|" + event.MentionedID

			if fired, ok := r.lastFired[cooldownKey]; ok {
				if now.Sub(fired) < time.Duration(rule.CooldownMinutes)*time.Minute {
					r.logger.Debug("Rule on cooldown", "rule_id", rule.ID, "mentioned_id", event.MentionedID)

					continue
				}
			}
		}

		matched = append(matched, rule)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Priority == matched[j].Priority {
			return matched[i].ID < matched[j].ID
		}

		return matched[i].Priority > matched[j].Priority
	})

	for _, rule := range matched {
		r.lastFired[rule.ID+"|"+event.MentionedID] = now
	}

	return matched
}

// fireRule runs the rule's actions in order. Undelayed actions run inline and
// their errors propagate; delayed actions are armed on the scheduler keyed by
// the mention, with failures logged when they eventually run.
func (r *Router) fireRule(ctx context.Context, rule *models.MentionRule, event *models.MentionEvent) error {
	r.logger.InfoContext(ctx, "Firing mention rule", "rule_id", rule.ID, "mention_id", event.ID)

	offset := time.Duration(0)

	for i, action := range rule.Actions {
		offset += time.Duration(action.DelaySeconds) * time.Second

		if offset == 0 {
			if err := r.executeAction(ctx, action, event); err != nil {
				return fmt.Errorf("rule %s action %d (%s): %w", rule.ID, i, action.Type, err)
			}

			continue
		}

		delayed := action
		key := fmt.Sprintf("rule:%s:action:%d", rule.ID, i)

		r.sched.Schedule(event.ID, key, offset, func() {
			if err := r.executeAction(context.Background(), delayed, event); err != nil {
				r.logger.Error("Delayed rule action failed",
					"rule_id", rule.ID, "action_type", delayed.Type, "mention_id", event.ID, "error", err)
			}
		})
	}

	r.publishRuleFired(ctx, rule, event)

	return nil
}

func (r *Router) executeAction(ctx context.Context, action models.MentionAction, event *models.MentionEvent) error {
	switch action.Type {
	case "notify":
		channel := configString(action.Configuration, "channel")
		if channel == "" {
			channel = event.Channel
		}

		text := configString(action.Configuration, "text")
		if text == "" {
			text = fmt.Sprintf("New mention from %s needs attention", messaging.DisplayName(ctx, r.directory, event.SenderID))
		}

		_, err := r.messenger.SendMessage(ctx, channel, text, "")

		return err

	case "reply":
		text := configString(action.Configuration, "text")
		if text == "" {
			return fmt.Errorf("reply action requires text")
		}

		threadTS := event.ThreadTS
		if threadTS == "" {
			threadTS = event.MessageTS
		}

		_, err := r.messenger.SendMessage(ctx, event.Channel, text, threadTS)

		return err

	case "add_reaction":
		name := configString(action.Configuration, "name")
		if name == "" {
			return fmt.Errorf("add_reaction action requires a reaction name")
		}

		return r.messenger.AddReaction(ctx, event.Channel, event.MessageTS, name)

	case "notify_team", "escalate_to_team":
		teamID := configString(action.Configuration, "team_id")
		if teamID == "" {
			return fmt.Errorf("%s action requires team_id", action.Type)
		}

		return r.HandleTeamMention(ctx, teamID, event, nil)

	case "create_task":
		// Task creation goes through the ClickUp integration step of a
		// workflow; from a rule it only records intent.
		r.logger.InfoContext(ctx, "Task creation requested",
			"mention_id", event.ID, "list", configString(action.Configuration, "list"))

		return nil

	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownAction, action.Type)
	}
}

// HandleTeamMention notifies the team responsible for a mention and arms the
// response check that starts the escalation chain. Outside working hours a
// non-urgent mention gets an out-of-office notice (plus the on-call member,
// when one is configured) instead of waking the whole team.
func (r *Router) HandleTeamMention(ctx context.Context, teamID string, event *models.MentionEvent, opts *TeamMentionOptions) error {
	r.mu.Lock()
	team, ok := r.teams[teamID]

	// Record the mention so later escalation and acknowledgment can resolve it
	// even when it arrived through the team path rather than rule processing.
	if event.ID != "" {
		if _, known := r.mentions[event.ID]; !known {
			r.mentions[event.ID] = event
		}
	}
	r.mu.Unlock()

	if !ok {
		r.logger.WarnContext(ctx, "Mention for unknown team", "team_id", teamID, "mention_id", event.ID)

		return nil
	}

	responseTime := team.ResponseTime()
	if opts != nil && opts.ResponseTime > 0 {
		responseTime = opts.ResponseTime
	}

	urgent := event.Context != nil &&
		(event.Context.IsUrgent || event.Context.Priority == models.PriorityCritical)

	if !urgent && !AvailableAt(team.Availability, r.now()) {
		return r.handleOutOfHours(ctx, team, event, responseTime)
	}

	recipients := r.pickRecipients(team, urgent)

	for _, recipient := range recipients {
		if _, err := r.sendNotification(ctx, team, event, recipient, models.NotificationKindDirect, 0, responseTime); err != nil {
			return err
		}
	}

	mentionID := event.ID

	r.sched.Schedule(mentionID, responseCheckKey, responseTime, func() {
		r.checkResponse(mentionID)
	})

	return nil
}

// pickRecipients chooses who gets the first notice: everyone when urgent,
// otherwise the on-call member, otherwise the first listed member.
func (r *Router) pickRecipients(team *models.Team, urgent bool) []string {
	if urgent {
		return team.Members
	}

	if team.Availability.OnCallID != "" {
		return []string{team.Availability.OnCallID}
	}

	return team.Members[:1]
}

func (r *Router) handleOutOfHours(ctx context.Context, team *models.Team, event *models.MentionEvent, responseTime time.Duration) error {
	onCall := team.Availability.OnCallID

	notice := fmt.Sprintf("The %s team is currently out of office. Your message has been noted.", team.Name)
	if onCall != "" {
		notice = fmt.Sprintf("The %s team is currently out of office. %s is on call and has been notified.",
			team.Name, messaging.DisplayName(ctx, r.directory, onCall))
	}

	if _, err := r.messenger.SendMessage(ctx, event.Channel, notice, event.ThreadTS); err != nil {
		return err
	}

	if onCall == "" {
		return nil
	}

	if _, err := r.sendNotification(ctx, team, event, onCall, models.NotificationKindDirect, 0, responseTime); err != nil {
		return err
	}

	mentionID := event.ID

	r.sched.Schedule(mentionID, responseCheckKey, responseTime, func() {
		r.checkResponse(mentionID)
	})

	return nil
}

func (r *Router) sendNotification(
	ctx context.Context,
	team *models.Team,
	event *models.MentionEvent,
	recipient string,
	kind models.NotificationKind,
	level int,
	responseTime time.Duration,
) (*models.Notification, error) {
	now := r.now()

	notification := &models.Notification{
		ID:        "notif-" + uuid.NewString()[:8],
		MentionID: event.ID,
		TeamID:    team.ID,
		Recipient: recipient,
		Kind:      kind,
		Status:    models.NotificationStatusSent,
		Level:     level,
		SentAt:    now,
		ExpiresAt: now.Add(responseTime),
	}

	text := fmt.Sprintf("<@%s> you have a mention from %s in %s awaiting a response",
		recipient, messaging.DisplayName(ctx, r.directory, event.SenderID), event.Channel)
	if kind == models.NotificationKindEscalation {
		text = fmt.Sprintf("<@%s> escalation level %d: a mention from %s in %s is still unacknowledged",
			recipient, level+1, messaging.DisplayName(ctx, r.directory, event.SenderID), event.Channel)
	}

	if _, err := r.messenger.SendMessage(ctx, event.Channel, text, event.ThreadTS); err != nil {
		return nil, fmt.Errorf("notifying %s: %w", recipient, err)
	}

	r.mu.Lock()
	r.notifications[notification.ID] = notification
	r.mu.Unlock()

	r.publishNotificationSent(ctx, notification)

	return notification, nil
}

// checkResponse runs when a response window closes. An acknowledged mention
// ends the chain; anything else escalates to the first level.
func (r *Router) checkResponse(mentionID string) {
	r.mu.Lock()

	acked := false

	for _, notification := range r.notifications {
		if notification.MentionID == mentionID && notification.Status == models.NotificationStatusAcknowledged {
			acked = true

			break
		}
	}

	r.mu.Unlock()

	if acked {
		return
	}

	if err := r.Escalate(context.Background(), mentionID, 0); err != nil {
		r.logger.Error("Escalation failed", "mention_id", mentionID, "error", err)
	}
}

// Escalate notifies the escalation-path recipient at the given level and arms
// the next check. A level past the end of the path, or a mention with nothing
// open, is a no-op.
func (r *Router) Escalate(ctx context.Context, mentionID string, level int) error {
	r.mu.Lock()

	var latest *models.Notification

	for _, notification := range r.notifications {
		if notification.MentionID != mentionID || !notification.Open() {
			continue
		}

		if latest == nil || notification.SentAt.After(latest.SentAt) {
			latest = notification
		}
	}

	var team *models.Team
	if latest != nil {
		team = r.teams[latest.TeamID]
	}

	event := r.mentions[mentionID]

	r.mu.Unlock()

	if latest == nil || team == nil || event == nil {
		r.logger.InfoContext(ctx, "Nothing open to escalate", "mention_id", mentionID, "level", level)

		return nil
	}

	if level >= len(team.EscalationPath) {
		r.logger.WarnContext(ctx, "Escalation path exhausted",
			"mention_id", mentionID, "team_id", team.ID, "level", level)

		return nil
	}

	interval := latest.ExpiresAt.Sub(latest.SentAt)
	if interval <= 0 {
		interval = team.ResponseTime()
	}

	recipient := team.EscalationPath[level]

	sent, err := r.sendNotification(ctx, team, event, recipient, models.NotificationKindEscalation, level, interval)
	if err != nil {
		return err
	}

	r.publishEscalated(ctx, sent)

	if level+1 < len(team.EscalationPath) {
		next := level + 1

		r.sched.Schedule(mentionID, fmt.Sprintf("escalate:%d", next), interval, func() {
			if err := r.Escalate(context.Background(), mentionID, next); err != nil {
				r.logger.Error("Escalation failed", "mention_id", mentionID, "level", next, "error", err)
			}
		})
	}

	return nil
}

// Acknowledge marks a notification answered, suppresses its siblings for the
// same mention, and cancels every pending escalation. Acknowledging twice is
// a no-op.
func (r *Router) Acknowledge(ctx context.Context, notificationID, responderID string) error {
	r.mu.Lock()

	notification, ok := r.notifications[notificationID]
	if !ok {
		r.mu.Unlock()
		r.logger.WarnContext(ctx, "Acknowledgment for unknown notification", "notification_id", notificationID)

		return nil
	}

	if notification.Status == models.NotificationStatusAcknowledged {
		r.mu.Unlock()

		return nil
	}

	now := r.now()
	notification.Status = models.NotificationStatusAcknowledged
	notification.AcknowledgedAt = &now
	notification.AcknowledgedBy = responderID

	suppressed := 0

	for _, sibling := range r.notifications {
		if sibling.ID != notification.ID && sibling.MentionID == notification.MentionID && sibling.Open() {
			sibling.Status = models.NotificationStatusAcknowledged
			sibling.AcknowledgedAt = &now
			sibling.AcknowledgedBy = responderID
			suppressed++
		}
	}

	mentionID := notification.MentionID
	event := r.mentions[mentionID]

	r.mu.Unlock()

	cancelled := r.sched.CancelOwner(mentionID)

	r.logger.InfoContext(ctx, "Notification acknowledged",
		"notification_id", notificationID, "responder_id", responderID,
		"suppressed", suppressed, "timers_cancelled", cancelled)

	if event != nil {
		text := fmt.Sprintf("%s is on it", messaging.DisplayName(ctx, r.directory, responderID))
		if _, err := r.messenger.SendMessage(ctx, event.Channel, text, event.ThreadTS); err != nil {
			r.logger.WarnContext(ctx, "Failed to send acknowledgment confirmation",
				"notification_id", notificationID, "error", err)
		}
	}

	r.publishAcknowledged(ctx, notification, responderID, suppressed)

	return nil
}

// Sweep expires overdue notifications and drops mention history past the
// retention window. It returns how many notifications were expired.
func (r *Router) Sweep(ctx context.Context) int {
	now := r.now()
	cutoff := now.Add(-historyRetention)

	r.mu.Lock()

	var expired []*models.Notification

	for id, notification := range r.notifications {
		if notification.Open() && now.After(notification.ExpiresAt) {
			notification.Status = models.NotificationStatusExpired
			expired = append(expired, notification)
		}

		if notification.SentAt.Before(cutoff) {
			delete(r.notifications, id)
		}
	}

	for id, mention := range r.mentions {
		if mention.ReceivedAt.Before(cutoff) {
			delete(r.mentions, id)
		}
	}

	for userID, records := range r.history {
		kept := records[:0]

		for _, record := range records {
			if !record.At.Before(cutoff) {
				kept = append(kept, record)
			}
		}

		if len(kept) == 0 {
			delete(r.history, userID)
		} else {
			r.history[userID] = kept
		}
	}

	r.mu.Unlock()

	for _, notification := range expired {
		r.publishExpired(ctx, notification)
	}

	if len(expired) > 0 {
		r.logger.InfoContext(ctx, "Expired overdue notifications", "count", len(expired))
	}

	return len(expired)
}

func configString(config map[string]any, key string) string {
	if config == nil {
		return ""
	}

	value, _ := config[key].(string)

	return value
}

func (r *Router) publishMentionReceived(ctx context.Context, event *models.MentionEvent) {
	if r.bus == nil {
		return
	}

	published := events.MentionReceived{
		BaseEvent: r.baseEvent(events.MentionReceivedEvent),
		MentionID: event.ID,
		Channel:   event.Channel,
		SenderID:  event.SenderID,
	}

	if event.Context != nil {
		published.Priority = event.Context.Priority
		published.IsUrgent = event.Context.IsUrgent
	}

	r.publish(ctx, event.ID, published)
}

func (r *Router) publishRuleFired(ctx context.Context, rule *models.MentionRule, event *models.MentionEvent) {
	if r.bus == nil {
		return
	}

	r.publish(ctx, event.ID, events.MentionRuleFired{
		BaseEvent: r.baseEvent(events.MentionRuleFiredEvent),
		MentionID: event.ID,
		RuleID:    rule.ID,
		Actions:   len(rule.Actions),
	})
}

func (r *Router) publishNotificationSent(ctx context.Context, notification *models.Notification) {
	if r.bus == nil {
		return
	}

	r.publish(ctx, notification.MentionID, events.NotificationSent{
		BaseEvent:      r.baseEvent(events.NotificationSentEvent),
		NotificationID: notification.ID,
		MentionID:      notification.MentionID,
		Recipient:      notification.Recipient,
		Kind:           notification.Kind,
		Level:          notification.Level,
	})
}

func (r *Router) publishAcknowledged(ctx context.Context, notification *models.Notification, responderID string, suppressed int) {
	if r.bus == nil {
		return
	}

	r.publish(ctx, notification.MentionID, events.NotificationAcknowledged{
		BaseEvent:      r.baseEvent(events.NotificationAcknowledgedEvent),
		NotificationID: notification.ID,
		MentionID:      notification.MentionID,
		ResponderID:    responderID,
		Suppressed:     suppressed,
	})
}

func (r *Router) publishEscalated(ctx context.Context, notification *models.Notification) {
	if r.bus == nil {
		return
	}

	r.publish(ctx, notification.MentionID, events.NotificationEscalated{
		BaseEvent:      r.baseEvent(events.NotificationEscalatedEvent),
		NotificationID: notification.ID,
		MentionID:      notification.MentionID,
		Recipient:      notification.Recipient,
		Level:          notification.Level,
	})
}

func (r *Router) publishExpired(ctx context.Context, notification *models.Notification) {
	if r.bus == nil {
		return
	}

	r.publish(ctx, notification.MentionID, events.NotificationExpired{
		BaseEvent:      r.baseEvent(events.NotificationExpiredEvent),
		NotificationID: notification.ID,
		MentionID:      notification.MentionID,
		Recipient:      notification.Recipient,
	})
}

func (r *Router) baseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        r.bus.GenerateID(),
		Type:      eventType,
		Timestamp: r.now(),
	}
}

func (r *Router) publish(ctx context.Context, key string, event eventbus.Event) {
	if err := r.bus.Publish(ctx, key, event); err != nil {
		r.logger.Error("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
