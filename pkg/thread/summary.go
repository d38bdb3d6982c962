package thread

import (
	"sort"
	"strings"
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

const (
	topicLimit        = 3
	minTopicWordLen   = 4
	highActivityCount = 10
	medActivityCount  = 5
)

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "about": {}, "there": {},
	"their": {}, "please": {}, "thanks": {}, "just": {}, "been": {},
	"when": {}, "what": {}, "your": {}, "into": {}, "some": {},
}

// computeSummary derives the digest from the current thread state. Caller holds the lock.
func (s *Store) computeSummary(tc *models.ThreadContext) *models.ThreadSummary {
	now := s.now()

	messages := 0

	for _, p := range tc.Participants {
		messages += p.MessageCount
	}

	return &models.ThreadSummary{
		ThreadID:         tc.ID,
		MessageCount:     messages,
		ParticipantCount: len(tc.Participants),
		Duration:         now.Sub(tc.CreatedAt),
		Topics:           deriveTopics(tc.Activity),
		Sentiment:        deriveSentiment(tc.Metadata.Priority),
		Urgency:          s.deriveUrgency(tc, now),
		GeneratedAt:      now,
	}
}

// deriveTopics extracts the most frequent long words from message activity text.
func deriveTopics(activity []models.Activity) []string {
	counts := make(map[string]int)

	for _, entry := range activity {
		if entry.Kind != models.ActivityKindMessage {
			continue
		}

		text, ok := entry.Details["text"].(string)
		if !ok {
			continue
		}

		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,!?:;\"'()<>")

			if len(word) < minTopicWordLen {
				continue
			}

			if _, skip := stopwords[word]; skip {
				continue
			}

			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}

	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}

		return words[i] < words[j]
	})

	if len(words) > topicLimit {
		words = words[:topicLimit]
	}

	return words
}

// deriveSentiment reads tone off the stated priority: escalated threads are negative.
func deriveSentiment(priority models.Priority) models.Sentiment {
	if priority == models.PriorityHigh || priority == models.PriorityCritical {
		return models.SentimentNegative
	}

	return models.SentimentNeutral
}

// deriveUrgency prefers explicit priority metadata, else falls back to how
// busy the thread was in the last hour.
func (s *Store) deriveUrgency(tc *models.ThreadContext, now time.Time) models.Priority {
	if tc.Metadata.Priority.Valid() {
		return tc.Metadata.Priority
	}

	recent := 0
	hourAgo := now.Add(-time.Hour)

	for _, entry := range tc.Activity {
		if entry.At.After(hourAgo) {
			recent++
		}
	}

	switch {
	case recent > highActivityCount:
		return models.PriorityHigh
	case recent > medActivityCount:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
