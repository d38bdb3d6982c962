package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/log"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

func newTestStore() *Store {
	return NewStore(nil, log.WithModule("test"))
}

func TestStore_CreateOrUpdate(t *testing.T) {
	store := newTestStore()

	tc := store.CreateOrUpdate("1700.100", "C-support", "U-requester", nil)

	require.NotNil(t, tc)
	assert.Equal(t, "1700.100", tc.ID)
	assert.Equal(t, "C-support", tc.Channel)
	assert.True(t, tc.Active)
	require.Contains(t, tc.Participants, "U-requester")
	assert.Equal(t, models.ParticipantRoleRequester, tc.Participants["U-requester"].Role)

	// A second user joining an existing thread becomes a responder.
	tc = store.CreateOrUpdate("1700.100", "C-support", "U-agent", nil)
	require.Contains(t, tc.Participants, "U-agent")
	assert.Equal(t, models.ParticipantRoleResponder, tc.Participants["U-agent"].Role)
	assert.Equal(t, 1, store.Count())
}

func TestStore_CreateOrUpdate_MergesMetadata(t *testing.T) {
	store := newTestStore()

	store.CreateOrUpdate("1700.100", "C1", "U1", &models.ThreadMetadata{
		TicketID: "ZD-1",
		Custom:   map[string]any{"source": "zendesk"},
	})
	tc := store.CreateOrUpdate("1700.100", "C1", "U1", &models.ThreadMetadata{
		TaskID:   "CU-9",
		Priority: models.PriorityHigh,
		Custom:   map[string]any{"sla": "gold"},
	})

	assert.Equal(t, "ZD-1", tc.Metadata.TicketID)
	assert.Equal(t, "CU-9", tc.Metadata.TaskID)
	assert.Equal(t, models.PriorityHigh, tc.Metadata.Priority)
	assert.Equal(t, "zendesk", tc.Metadata.Custom["source"])
	assert.Equal(t, "gold", tc.Metadata.Custom["sla"])
}

func TestStore_RecordActivity(t *testing.T) {
	store := newTestStore()

	assert.ErrorIs(t, store.RecordActivity("missing", models.ActivityKindMessage, "U1", nil), models.ErrThreadNotFound)

	store.CreateOrUpdate("1700.100", "C1", "U1", nil)
	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U1", map[string]any{"text": "hello"}))
	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindReaction, "U2", map[string]any{"name": "eyes"}))

	tc, err := store.GetContext("1700.100")
	require.NoError(t, err)
	assert.Len(t, tc.Activity, 2)

	// Messages count toward the participant tally, reactions do not.
	assert.Equal(t, 1, tc.Participants["U1"].MessageCount)
	assert.Equal(t, 0, tc.Participants["U2"].MessageCount)
}

func TestStore_RecordActivity_BoundsLog(t *testing.T) {
	store := newTestStore()
	store.CreateOrUpdate("1700.100", "C1", "U1", nil)

	for i := 0; i < maxActivityLog+50; i++ {
		require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U1", nil))
	}

	tc, err := store.GetContext("1700.100")
	require.NoError(t, err)
	assert.Len(t, tc.Activity, maxActivityLog)
}

func TestStore_GetSummary_CachedUntilMutation(t *testing.T) {
	store := newTestStore()
	store.CreateOrUpdate("1700.100", "C1", "U1", nil)
	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U1", map[string]any{"text": "the billing export is broken"}))

	first, err := store.GetSummary("1700.100")
	require.NoError(t, err)

	// Re-reading without mutations returns the identical cached value.
	second, err := store.GetSummary("1700.100")
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U2", map[string]any{"text": "billing again"}))

	third, err := store.GetSummary("1700.100")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, third.MessageCount)
	assert.Equal(t, 2, third.ParticipantCount)
}

func TestStore_GetSummary_Topics(t *testing.T) {
	store := newTestStore()
	store.CreateOrUpdate("1700.100", "C1", "U1", nil)

	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U1",
		map[string]any{"text": "the billing export keeps failing"}))
	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U2",
		map[string]any{"text": "billing failures again, please check billing"}))

	summary, err := store.GetSummary("1700.100")
	require.NoError(t, err)
	require.NotEmpty(t, summary.Topics)
	assert.Equal(t, "billing", summary.Topics[0])
	assert.LessOrEqual(t, len(summary.Topics), 3)
}

func TestStore_GetSummary_UrgencyFromMetadata(t *testing.T) {
	store := newTestStore()
	store.CreateOrUpdate("1700.100", "C1", "U1", &models.ThreadMetadata{Priority: models.PriorityCritical})

	summary, err := store.GetSummary("1700.100")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, summary.Urgency)
	assert.Equal(t, models.SentimentNegative, summary.Sentiment)
}

func TestStore_GetSummary_UrgencyFromActivity(t *testing.T) {
	store := newTestStore()
	store.CreateOrUpdate("1700.100", "C1", "U1", nil)

	summary, err := store.GetSummary("1700.100")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, summary.Urgency)

	for i := 0; i < 6; i++ {
		require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U1", nil))
	}

	summary, err = store.GetSummary("1700.100")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, summary.Urgency)

	for i := 0; i < 6; i++ {
		require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U2", nil))
	}

	summary, err = store.GetSummary("1700.100")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, summary.Urgency)
}

func TestStore_ActiveLifecycle(t *testing.T) {
	store := newTestStore()

	assert.False(t, store.IsActive("missing"))
	assert.ErrorIs(t, store.MarkInactive("missing"), models.ErrThreadNotFound)

	store.CreateOrUpdate("1700.100", "C1", "U1", nil)
	assert.True(t, store.IsActive("1700.100"))

	require.NoError(t, store.MarkInactive("1700.100"))
	assert.False(t, store.IsActive("1700.100"))

	require.NoError(t, store.MarkActive("1700.100"))
	assert.True(t, store.IsActive("1700.100"))

	// Threads quietly expire once they pass the inactivity cutoff.
	store.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.False(t, store.IsActive("1700.100"))
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore()

	store.CreateOrUpdate("1700.100", "C1", "U1", nil)
	require.NoError(t, store.RecordActivity("1700.100", models.ActivityKindMessage, "U1", map[string]any{"text": "hi"}))

	store.Delete(t.Context(), "1700.100")

	_, err := store.GetContext("1700.100")
	assert.ErrorIs(t, err, models.ErrThreadNotFound)

	_, err = store.GetSummary("1700.100")
	assert.ErrorIs(t, err, models.ErrThreadNotFound)

	// Deleting again is a no-op.
	store.Delete(t.Context(), "1700.100")
	assert.Zero(t, store.Count())
}

func TestStore_Sweep_InactivityCutoff(t *testing.T) {
	store := newTestStore()

	base := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	store.CreateOrUpdate("stale", "C1", "U1", nil)

	now = base.Add(23 * time.Hour)

	store.CreateOrUpdate("recent", "C1", "U1", nil)

	// The hourly sweep removes contexts idle for longer than the same cutoff
	// IsActive uses, so a day-old thread does not linger.
	now = base.Add(25 * time.Hour)

	removed := store.Sweep(t.Context(), now.Add(-InactivityCutoff))
	assert.Equal(t, 1, removed)

	_, err := store.GetContext("stale")
	assert.ErrorIs(t, err, models.ErrThreadNotFound)

	_, err = store.GetContext("recent")
	assert.NoError(t, err)
}

func TestStore_Sweep(t *testing.T) {
	store := newTestStore()

	base := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	store.CreateOrUpdate("old", "C1", "U1", nil)

	now = base.Add(3 * time.Hour)

	store.CreateOrUpdate("fresh", "C1", "U1", nil)

	removed := store.Sweep(t.Context(), base.Add(time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Count())

	_, err := store.GetContext("old")
	assert.ErrorIs(t, err, models.ErrThreadNotFound)

	_, err = store.GetContext("fresh")
	assert.NoError(t, err)
}
