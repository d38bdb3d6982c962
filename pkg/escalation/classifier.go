package escalation

import (
	"strings"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

// Classifier derives a MentionContext from raw message text. The keyword
// implementation below is intentionally simple pattern matching; swap in a
// stronger model here without touching the routing logic.
type Classifier interface {
	Classify(text string) *models.MentionContext
}

var criticalKeywords = []string{
	"critical", "emergency", "outage", "production down", "data loss", "security breach", "sev1",
}

var urgentKeywords = []string{
	"urgent", "asap", "immediately", "right away", "time sensitive", "blocker", "blocking",
}

var lowKeywords = []string{
	"no rush", "whenever", "low priority", "when you get a chance", "no hurry",
}

// categoryOrder fixes iteration order so classification is deterministic.
var categoryOrder = []string{"incident", "bug", "billing", "access", "feature", "question"}

var categoryKeywords = map[string][]string{
	"incident": {"outage", "down", "unavailable", "incident", "degraded"},
	"bug":      {"bug", "error", "broken", "crash", "fails", "exception"},
	"billing":  {"invoice", "billing", "payment", "refund", "charge", "subscription"},
	"access":   {"login", "password", "permission", "access", "locked out", "2fa"},
	"feature":  {"feature", "request", "enhancement", "improvement", "would be nice"},
	"question": {"how do i", "how to", "question", "wondering", "clarify"},
}

var positiveWords = []string{"thanks", "thank you", "great", "awesome", "appreciate", "perfect", "nice"}

var negativeWords = []string{"angry", "frustrated", "terrible", "unacceptable", "awful", "disappointed", "worst", "annoyed"}

var questionWords = []string{"who", "what", "when", "where", "why", "how", "can", "could", "would", "should", "is", "are", "does"}

type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(text string) *models.MentionContext {
	lower := strings.ToLower(text)

	var keywords []string

	critical := matchAny(lower, criticalKeywords, &keywords)
	urgent := matchAny(lower, urgentKeywords, &keywords)
	low := matchAny(lower, lowKeywords, &keywords)

	// Critical keywords outrank urgent ones, which outrank explicit "no rush"
	// phrasing; anything else is medium.
	priority := models.PriorityMedium

	switch {
	case critical:
		priority = models.PriorityCritical
	case urgent:
		priority = models.PriorityHigh
	case low:
		priority = models.PriorityLow
	}

	return &models.MentionContext{
		IsUrgent:         critical || urgent,
		Priority:         priority,
		Category:         deriveCategory(lower, &keywords),
		Keywords:         keywords,
		Sentiment:        deriveSentiment(lower),
		RequiresResponse: requiresResponse(lower),
	}
}

func matchAny(text string, candidates []string, matched *[]string) bool {
	found := false

	for _, keyword := range candidates {
		if strings.Contains(text, keyword) {
			*matched = append(*matched, keyword)
			found = true
		}
	}

	return found
}

func deriveCategory(text string, matched *[]string) string {
	for _, category := range categoryOrder {
		if matchAny(text, categoryKeywords[category], matched) {
			return category
		}
	}

	return "general"
}

func deriveSentiment(text string) models.Sentiment {
	positive := 0
	negative := 0

	for _, word := range positiveWords {
		if strings.Contains(text, word) {
			positive++
		}
	}

	for _, word := range negativeWords {
		if strings.Contains(text, word) {
			negative++
		}
	}

	switch {
	case negative > positive:
		return models.SentimentNegative
	case positive > negative:
		return models.SentimentPositive
	default:
		return models.SentimentNeutral
	}
}

func requiresResponse(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}

	first := strings.Trim(fields[0], ".,!")

	for _, word := range questionWords {
		if first == word {
			return true
		}
	}

	return strings.Contains(text, "please respond") || strings.Contains(text, "let me know")
}
