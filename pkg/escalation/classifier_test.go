package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

func TestKeywordClassifier_Priority(t *testing.T) {
	classifier := NewKeywordClassifier()

	tests := []struct {
		name     string
		text     string
		priority models.Priority
		urgent   bool
	}{
		{"critical keyword", "we have a production down situation", models.PriorityCritical, true},
		{"urgent keyword", "please look at this ASAP", models.PriorityHigh, true},
		{"low phrase", "no rush, whenever you have time", models.PriorityLow, false},
		{"plain text", "the invoice totals look off", models.PriorityMedium, false},
		{"critical outranks urgent", "urgent: data loss in the export job", models.PriorityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.text)

			assert.Equal(t, tt.priority, result.Priority)
			assert.Equal(t, tt.urgent, result.IsUrgent)
		})
	}
}

func TestKeywordClassifier_Category(t *testing.T) {
	classifier := NewKeywordClassifier()

	assert.Equal(t, "billing", classifier.Classify("my invoice doubled this month").Category)
	assert.Equal(t, "access", classifier.Classify("I'm locked out of my account").Category)
	assert.Equal(t, "incident", classifier.Classify("the API is degraded").Category)
	assert.Equal(t, "general", classifier.Classify("hello there").Category)
}

func TestKeywordClassifier_Sentiment(t *testing.T) {
	classifier := NewKeywordClassifier()

	assert.Equal(t, models.SentimentPositive, classifier.Classify("thanks, this is great").Sentiment)
	assert.Equal(t, models.SentimentNegative, classifier.Classify("this is unacceptable and I am frustrated").Sentiment)
	assert.Equal(t, models.SentimentNeutral, classifier.Classify("the export finished").Sentiment)
}

func TestKeywordClassifier_RequiresResponse(t *testing.T) {
	classifier := NewKeywordClassifier()

	assert.True(t, classifier.Classify("is the fix deployed?").RequiresResponse)
	assert.True(t, classifier.Classify("how do we rotate the keys").RequiresResponse)
	assert.True(t, classifier.Classify("ran the migration, let me know").RequiresResponse)
	assert.False(t, classifier.Classify("deploy finished").RequiresResponse)
}

func TestKeywordClassifier_Keywords(t *testing.T) {
	classifier := NewKeywordClassifier()

	result := classifier.Classify("urgent billing issue, the refund failed")

	assert.Contains(t, result.Keywords, "urgent")
	assert.Contains(t, result.Keywords, "refund")
}
