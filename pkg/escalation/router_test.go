package escalation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/log"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/mocks"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/scheduler"
)

func newTestRouter(t *testing.T) (*Router, *mocks.RecordingMessenger, *scheduler.Scheduler) {
	t.Helper()

	logger := log.WithModule("test")
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	messenger := mocks.NewRecordingMessenger()
	directory := mocks.NewStaticDirectory()
	directory.Users["U-sender"] = messaging.UserInfo{ID: "U-sender", Name: "Dana"}

	router := NewRouter(NewKeywordClassifier(), sched, messenger, directory, nil, logger)

	return router, messenger, sched
}

func mention(text string) *models.MentionEvent {
	return &models.MentionEvent{
		Kind:        models.MentionKindUser,
		MentionedID: "U-bot",
		SenderID:    "U-sender",
		Channel:     "C-support",
		MessageTS:   "1700000000.000100",
		Text:        text,
	}
}

func alwaysAvailableTeam(id string, members ...string) *models.Team {
	return &models.Team{
		ID:      id,
		Name:    "Support",
		Members: members,
	}
}

func TestRouter_RegisterRule_Invalid(t *testing.T) {
	router, _, _ := newTestRouter(t)

	err := router.RegisterRule(&models.MentionRule{
		ID: "r1",
		Conditions: []models.MentionCondition{
			{Field: "text", Operator: "matches"},
		},
	})

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Contains(t, err.Error(), "unknown operator")

	_, lookupErr := router.Rule("r1")
	assert.ErrorIs(t, lookupErr, models.ErrRuleNotFound)
}

func TestRouter_RegisterTeam_Invalid(t *testing.T) {
	router, _, _ := newTestRouter(t)

	err := router.RegisterTeam(&models.Team{ID: "t1", Name: "No members"})

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestRouter_Process_DropsMalformedEvent(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	err := router.Process(t.Context(), &models.MentionEvent{Text: "no ids"})

	require.NoError(t, err)
	assert.Zero(t, messenger.MessageCount())
}

func TestRouter_Process_ClassifiesAndAssignsID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	event := mention("urgent: the export is broken")
	require.NoError(t, router.Process(t.Context(), event))

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.ReceivedAt.IsZero())
	require.NotNil(t, event.Context)
	assert.True(t, event.Context.IsUrgent)
	assert.Equal(t, models.PriorityHigh, event.Context.Priority)
}

func TestRouter_Process_ActionFailurePropagates(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:      "rule-reply",
		Name:    "Reply",
		Enabled: true,
		Actions: []models.MentionAction{
			{Type: "reply", Configuration: map[string]any{"text": "on it"}},
		},
	}))

	messenger.SendErr = assert.AnError

	err := router.Process(t.Context(), mention("the export is broken"))

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "rule-reply")
}

func TestRouter_Process_FiresRulesByPriority(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:       "rule-low",
		Name:     "Log it",
		Enabled:  true,
		Priority: 1,
		Actions: []models.MentionAction{
			{Type: "reply", Configuration: map[string]any{"text": "second"}},
		},
	}))
	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:       "rule-high",
		Name:     "Shout",
		Enabled:  true,
		Priority: 10,
		Actions: []models.MentionAction{
			{Type: "reply", Configuration: map[string]any{"text": "first"}},
		},
	}))
	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:      "rule-disabled",
		Name:    "Never",
		Enabled: false,
		Actions: []models.MentionAction{
			{Type: "reply", Configuration: map[string]any{"text": "never"}},
		},
	}))

	require.NoError(t, router.Process(t.Context(), mention("hello")))

	messages := messenger.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)

	// Replies anchor to the mention's message when no thread exists yet.
	assert.Equal(t, "1700000000.000100", messages[0].ThreadTS)
}

func TestRouter_Process_ConditionedRule(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:      "rule-billing",
		Name:    "Billing only",
		Enabled: true,
		Conditions: []models.MentionCondition{
			{Field: "context.category", Operator: models.OperatorEquals, Value: "billing"},
		},
		Actions: []models.MentionAction{
			{Type: "add_reaction", Configuration: map[string]any{"name": "moneybag"}},
		},
	}))

	require.NoError(t, router.Process(t.Context(), mention("the payment bounced")))
	require.NoError(t, router.Process(t.Context(), mention("just saying hi")))

	reactions := messenger.Reactions()
	require.Len(t, reactions, 1)
	assert.Equal(t, "moneybag", reactions[0].Name)
}

func TestRouter_Process_Cooldown(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	base := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)
	now := base
	router.SetNow(func() time.Time { return now })

	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:              "rule-cooled",
		Name:            "Once per 5m",
		Enabled:         true,
		CooldownMinutes: 5,
		Actions: []models.MentionAction{
			{Type: "reply", Configuration: map[string]any{"text": "on it"}},
		},
	}))

	require.NoError(t, router.Process(t.Context(), mention("first ping")))
	assert.Equal(t, 1, messenger.MessageCount())

	// Within the cooldown the rule stays quiet.
	now = base.Add(2 * time.Minute)
	require.NoError(t, router.Process(t.Context(), mention("second ping")))
	assert.Equal(t, 1, messenger.MessageCount())

	now = base.Add(6 * time.Minute)
	require.NoError(t, router.Process(t.Context(), mention("third ping")))
	assert.Equal(t, 2, messenger.MessageCount())
}

func TestRouter_Process_DelayedActionIsArmed(t *testing.T) {
	router, messenger, sched := newTestRouter(t)

	require.NoError(t, router.RegisterRule(&models.MentionRule{
		ID:      "rule-delayed",
		Name:    "Nudge later",
		Enabled: true,
		Actions: []models.MentionAction{
			{Type: "reply", Configuration: map[string]any{"text": "ack"}},
			{Type: "reply", Configuration: map[string]any{"text": "nudge"}, DelaySeconds: 3600},
		},
	}))

	event := mention("hello")
	require.NoError(t, router.Process(t.Context(), event))

	assert.Equal(t, 1, messenger.MessageCount())
	assert.Equal(t, 1, sched.Pending(event.ID))
}

func TestRouter_HandleTeamMention_NotifiesOnCall(t *testing.T) {
	router, messenger, sched := newTestRouter(t)

	team := alwaysAvailableTeam("t-support", "U-a", "U-b")
	team.Availability.OnCallID = "U-b"
	require.NoError(t, router.RegisterTeam(team))

	event := mention("can someone check this?")
	event.ID = "m-1"

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, nil))

	messages := messenger.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Text, "<@U-b>")
	assert.Equal(t, 1, sched.Pending("m-1"))
}

func TestRouter_HandleTeamMention_UrgentBroadcasts(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	require.NoError(t, router.RegisterTeam(alwaysAvailableTeam("t-support", "U-a", "U-b", "U-c")))

	event := mention("critical outage in production")
	event.ID = "m-urgent"
	event.Context = NewKeywordClassifier().Classify(event.Text)

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, nil))

	assert.Equal(t, 3, messenger.MessageCount())
	assert.Len(t, router.NotificationsForMention("m-urgent"), 3)
}

func TestRouter_HandleTeamMention_UnknownTeamIsDropped(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-ghost", mention("hi"), nil))
	assert.Zero(t, messenger.MessageCount())
}

func TestRouter_HandleTeamMention_OutOfHours(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	// Sunday, well outside the Monday-Friday window.
	router.SetNow(func() time.Time {
		return time.Date(2026, 8, 23, 3, 0, 0, 0, time.UTC)
	})

	team := alwaysAvailableTeam("t-support", "U-a")
	team.Availability = models.TeamAvailability{
		Timezone:    "UTC",
		StartHour:   9,
		EndHour:     17,
		WorkingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}
	require.NoError(t, router.RegisterTeam(team))

	event := mention("small question about the invoice")
	event.ID = "m-ooo"
	event.Context = NewKeywordClassifier().Classify(event.Text)

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, nil))

	messages := messenger.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Text, "out of office")
	assert.Empty(t, router.NotificationsForMention("m-ooo"))
}

func TestRouter_HandleTeamMention_OutOfHoursNotifiesOnCall(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	router.SetNow(func() time.Time {
		return time.Date(2026, 8, 23, 3, 0, 0, 0, time.UTC)
	})

	team := alwaysAvailableTeam("t-support", "U-a")
	team.Availability = models.TeamAvailability{
		Timezone:  "UTC",
		StartHour: 9,
		EndHour:   17,
		OnCallID:  "U-oncall",
	}
	require.NoError(t, router.RegisterTeam(team))

	event := mention("small question")
	event.ID = "m-ooo2"

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, nil))

	messages := messenger.Messages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Text, "on call")
	assert.Contains(t, messages[1].Text, "<@U-oncall>")
	require.Len(t, router.NotificationsForMention("m-ooo2"), 1)
}

func TestRouter_EscalationChain(t *testing.T) {
	router, _, _ := newTestRouter(t)

	team := alwaysAvailableTeam("t-support", "U-first")
	team.EscalationPath = []string{"U-lead", "U-manager"}
	require.NoError(t, router.RegisterTeam(team))

	event := mention("please take a look")
	event.ID = "m-chain"

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, &TeamMentionOptions{ResponseTime: 40 * time.Millisecond}))

	assert.Eventually(t, func() bool {
		notifications := router.NotificationsForMention("m-chain")

		escalations := 0

		for _, n := range notifications {
			if n.Kind == models.NotificationKindEscalation {
				escalations++
			}
		}

		return escalations == 2
	}, 2*time.Second, 10*time.Millisecond)

	// The path is exhausted; no further escalations appear.
	time.Sleep(150 * time.Millisecond)

	notifications := router.NotificationsForMention("m-chain")

	var levels []int

	for _, n := range notifications {
		if n.Kind == models.NotificationKindEscalation {
			levels = append(levels, n.Level)
		}
	}

	assert.ElementsMatch(t, []int{0, 1}, levels)
}

func TestRouter_Acknowledge_StopsEscalation(t *testing.T) {
	router, messenger, sched := newTestRouter(t)

	team := alwaysAvailableTeam("t-support", "U-first")
	team.EscalationPath = []string{"U-lead"}
	require.NoError(t, router.RegisterTeam(team))

	event := mention("please take a look")
	event.ID = "m-ack"

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, &TeamMentionOptions{ResponseTime: time.Hour}))

	notifications := router.NotificationsForMention("m-ack")
	require.Len(t, notifications, 1)
	require.Equal(t, 1, sched.Pending("m-ack"))

	before := messenger.MessageCount()

	require.NoError(t, router.Acknowledge(t.Context(), notifications[0].ID, "U-first"))

	acked, err := router.Notification(notifications[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusAcknowledged, acked.Status)
	assert.Equal(t, "U-first", acked.AcknowledgedBy)
	require.NotNil(t, acked.AcknowledgedAt)

	// Pending response check is cancelled and a confirmation goes out.
	assert.Zero(t, sched.Pending("m-ack"))
	assert.Equal(t, before+1, messenger.MessageCount())

	// Acknowledging again is a no-op.
	require.NoError(t, router.Acknowledge(t.Context(), notifications[0].ID, "U-second"))

	acked, err = router.Notification(notifications[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "U-first", acked.AcknowledgedBy)
}

func TestRouter_Acknowledge_SuppressesSiblings(t *testing.T) {
	router, _, _ := newTestRouter(t)

	require.NoError(t, router.RegisterTeam(alwaysAvailableTeam("t-support", "U-a", "U-b", "U-c")))

	event := mention("critical outage")
	event.ID = "m-multi"
	event.Context = NewKeywordClassifier().Classify(event.Text)

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, nil))

	notifications := router.NotificationsForMention("m-multi")
	require.Len(t, notifications, 3)

	require.NoError(t, router.Acknowledge(t.Context(), notifications[0].ID, "U-a"))

	for _, n := range router.NotificationsForMention("m-multi") {
		assert.Equal(t, models.NotificationStatusAcknowledged, n.Status)
	}
}

func TestRouter_Acknowledge_UnknownNotification(t *testing.T) {
	router, _, _ := newTestRouter(t)

	assert.NoError(t, router.Acknowledge(t.Context(), "notif-ghost", "U-x"))
}

func TestRouter_Escalate_NothingOpen(t *testing.T) {
	router, messenger, _ := newTestRouter(t)

	assert.NoError(t, router.Escalate(t.Context(), "m-ghost", 0))
	assert.Zero(t, messenger.MessageCount())
}

func TestRouter_Escalate_BeyondPath(t *testing.T) {
	router, _, _ := newTestRouter(t)

	team := alwaysAvailableTeam("t-support", "U-first")
	team.EscalationPath = []string{"U-lead"}
	require.NoError(t, router.RegisterTeam(team))

	event := mention("please take a look")
	event.ID = "m-bounds"

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, &TeamMentionOptions{ResponseTime: time.Hour}))
	require.Len(t, router.NotificationsForMention("m-bounds"), 1)

	require.NoError(t, router.Escalate(t.Context(), "m-bounds", 5))
	assert.Len(t, router.NotificationsForMention("m-bounds"), 1)
}

func TestRouter_Sweep_ExpiresOverdueNotifications(t *testing.T) {
	router, _, _ := newTestRouter(t)

	base := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)
	now := base
	router.SetNow(func() time.Time { return now })

	require.NoError(t, router.RegisterTeam(alwaysAvailableTeam("t-support", "U-a")))

	event := mention("needs an answer")
	event.ID = "m-exp"

	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, &TeamMentionOptions{ResponseTime: 10 * time.Minute}))

	now = base.Add(time.Hour)
	assert.Equal(t, 1, router.Sweep(t.Context()))

	notifications := router.NotificationsForMention("m-exp")
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationStatusExpired, notifications[0].Status)

	// A second sweep finds nothing open.
	assert.Zero(t, router.Sweep(t.Context()))

	// Past the retention window everything is dropped.
	now = base.Add(8 * 24 * time.Hour)
	router.Sweep(t.Context())
	assert.Empty(t, router.NotificationsForMention("m-exp"))
}

func TestRouter_Stats(t *testing.T) {
	router, _, _ := newTestRouter(t)

	base := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)
	now := base
	router.SetNow(func() time.Time { return now })

	require.NoError(t, router.RegisterTeam(alwaysAvailableTeam("t-support", "U-a")))
	require.NoError(t, router.Process(t.Context(), mention("critical outage right now")))

	event := mention("second one, no rush")
	require.NoError(t, router.Process(t.Context(), event))
	require.NoError(t, router.HandleTeamMention(t.Context(), "t-support", event, &TeamMentionOptions{ResponseTime: time.Hour}))

	notifications := router.NotificationsForMention(event.ID)
	require.Len(t, notifications, 1)

	now = base.Add(5 * time.Minute)
	require.NoError(t, router.Acknowledge(t.Context(), notifications[0].ID, "U-a"))

	stats := router.Stats(24 * time.Hour)

	assert.Equal(t, 2, stats.Mentions)
	assert.Equal(t, 1, stats.UrgentMentions)
	assert.Equal(t, 1, stats.NotificationsSent)
	assert.Equal(t, 1, stats.Acknowledged)
	assert.Equal(t, 5*time.Minute, stats.AvgAckTime)
	assert.Zero(t, stats.Escalations)
}
