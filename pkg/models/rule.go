package models

// MentionCondition is one ANDed predicate of a mention rule. Unlike workflow
// step conditions it may be negated.
type MentionCondition struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    any      `json:"value,omitempty"`
	Negate   bool     `json:"negate,omitempty"`
}

// Evaluate applies the underlying condition, then the optional negation.
func (c MentionCondition) Evaluate(data map[string]any) bool {
	result := Condition{Field: c.Field, Operator: c.Operator, Value: c.Value}.Evaluate(data)

	if c.Negate {
		return !result
	}

	return result
}

// MentionAction is one sequential action of a rule. DelaySeconds postpones
// dispatch of this action without blocking the ones before it.
type MentionAction struct {
	Type          string         `json:"type" validate:"required"`
	Configuration map[string]any `json:"configuration,omitempty"`
	DelaySeconds  int            `json:"delay_seconds,omitempty"`
}

// MentionRule matches inbound mentions and runs its actions in order. Rules
// execute in descending Priority order; CooldownMinutes suppresses refiring.
type MentionRule struct {
	ID              string             `json:"id"      validate:"required"`
	Name            string             `json:"name"    validate:"required"`
	Conditions      []MentionCondition `json:"conditions,omitempty"`
	Actions         []MentionAction    `json:"actions" validate:"required,min=1"`
	Priority        int                `json:"priority"`
	Enabled         bool               `json:"enabled"`
	CooldownMinutes int                `json:"cooldown_minutes,omitempty"`
}

// Matches reports whether every rule condition holds for the event data.
func (r *MentionRule) Matches(data map[string]any) bool {
	for _, condition := range r.Conditions {
		if !condition.Evaluate(data) {
			return false
		}
	}

	return true
}
