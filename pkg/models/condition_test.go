package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition_Evaluate_Equals(t *testing.T) {
	data := map[string]any{"status": "open", "count": 3}

	assert.True(t, Condition{Field: "status", Operator: OperatorEquals, Value: "open"}.Evaluate(data))
	assert.False(t, Condition{Field: "status", Operator: OperatorEquals, Value: "closed"}.Evaluate(data))

	// Numeric equality holds across Go types; JSON decodes numbers as float64.
	assert.True(t, Condition{Field: "count", Operator: OperatorEquals, Value: float64(3)}.Evaluate(data))
}

func TestCondition_Evaluate_Equals_CompositeValues(t *testing.T) {
	data := map[string]any{
		"tags":    []any{"a", "b"},
		"labels":  map[string]any{"env": "prod"},
		"nothing": nil,
	}

	// Decoded JSON arrays and objects compare structurally instead of
	// panicking on the uncomparable dynamic type.
	assert.True(t, Condition{Field: "tags", Operator: OperatorEquals, Value: []any{"a", "b"}}.Evaluate(data))
	assert.False(t, Condition{Field: "tags", Operator: OperatorEquals, Value: []any{"a"}}.Evaluate(data))
	assert.True(t, Condition{Field: "labels", Operator: OperatorEquals, Value: map[string]any{"env": "prod"}}.Evaluate(data))
	assert.False(t, Condition{Field: "labels", Operator: OperatorEquals, Value: map[string]any{"env": "dev"}}.Evaluate(data))
	assert.False(t, Condition{Field: "tags", Operator: OperatorEquals, Value: "a"}.Evaluate(data))

	assert.True(t, Condition{Field: "nothing", Operator: OperatorEquals, Value: nil}.Evaluate(data))
	assert.False(t, Condition{Field: "nothing", Operator: OperatorEquals, Value: []any{"a"}}.Evaluate(data))
}

func TestCondition_Evaluate_Contains(t *testing.T) {
	data := map[string]any{
		"text": "production is down",
		"tags": []any{"billing", "urgent"},
	}

	assert.True(t, Condition{Field: "text", Operator: OperatorContains, Value: "down"}.Evaluate(data))
	assert.False(t, Condition{Field: "text", Operator: OperatorContains, Value: "refund"}.Evaluate(data))
	assert.True(t, Condition{Field: "tags", Operator: OperatorContains, Value: "urgent"}.Evaluate(data))
	assert.False(t, Condition{Field: "tags", Operator: OperatorContains, Value: "spam"}.Evaluate(data))
}

func TestCondition_Evaluate_Ordering(t *testing.T) {
	data := map[string]any{"count": 10, "label": "ten"}

	assert.True(t, Condition{Field: "count", Operator: OperatorGreaterThan, Value: 5}.Evaluate(data))
	assert.False(t, Condition{Field: "count", Operator: OperatorGreaterThan, Value: 10}.Evaluate(data))
	assert.True(t, Condition{Field: "count", Operator: OperatorLessThan, Value: 11}.Evaluate(data))

	// Non-numeric values never satisfy ordering operators.
	assert.False(t, Condition{Field: "label", Operator: OperatorGreaterThan, Value: 5}.Evaluate(data))
	assert.False(t, Condition{Field: "label", Operator: OperatorLessThan, Value: 5}.Evaluate(data))
}

func TestCondition_Evaluate_Exists(t *testing.T) {
	data := map[string]any{"present": nil}

	assert.True(t, Condition{Field: "present", Operator: OperatorExists}.Evaluate(data))
	assert.False(t, Condition{Field: "absent", Operator: OperatorExists}.Evaluate(data))
}

func TestCondition_Evaluate_MissingField(t *testing.T) {
	data := map[string]any{}

	// A missing field satisfies nothing but a negated exists.
	assert.False(t, Condition{Field: "missing", Operator: OperatorEquals, Value: "x"}.Evaluate(data))
	assert.False(t, Condition{Field: "missing", Operator: OperatorContains, Value: "x"}.Evaluate(data))
	assert.False(t, Condition{Field: "missing", Operator: OperatorGreaterThan, Value: 1}.Evaluate(data))
	assert.True(t, MentionCondition{Field: "missing", Operator: OperatorExists, Negate: true}.Evaluate(data))
}

func TestCondition_Evaluate_DottedPath(t *testing.T) {
	data := map[string]any{
		"context": map[string]any{
			"priority":  "high",
			"is_urgent": true,
		},
	}

	assert.True(t, Condition{Field: "context.priority", Operator: OperatorEquals, Value: "high"}.Evaluate(data))
	assert.True(t, Condition{Field: "context.is_urgent", Operator: OperatorEquals, Value: true}.Evaluate(data))
	assert.False(t, Condition{Field: "context.missing.deeper", Operator: OperatorExists}.Evaluate(data))
}

func TestEvaluateAll_VacuousTruth(t *testing.T) {
	assert.True(t, EvaluateAll(nil, map[string]any{}))
	assert.True(t, EvaluateAll([]Condition{}, nil))
}

func TestEvaluateAll_Conjunction(t *testing.T) {
	data := map[string]any{"a": 1, "b": 2}

	conditions := []Condition{
		{Field: "a", Operator: OperatorEquals, Value: 1},
		{Field: "b", Operator: OperatorGreaterThan, Value: 1},
	}
	assert.True(t, EvaluateAll(conditions, data))

	conditions = append(conditions, Condition{Field: "b", Operator: OperatorLessThan, Value: 2})
	assert.False(t, EvaluateAll(conditions, data))
}

func TestCondition_Evaluate_Deterministic(t *testing.T) {
	data := map[string]any{"status": "open", "count": 7}
	condition := Condition{Field: "count", Operator: OperatorGreaterThan, Value: 5}

	first := condition.Evaluate(data)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, condition.Evaluate(data))
	}
}

func TestOperator_Valid(t *testing.T) {
	assert.True(t, OperatorEquals.Valid())
	assert.True(t, OperatorExists.Valid())
	assert.False(t, Operator("matches_regex").Valid())
	assert.False(t, Operator("").Valid())
}

func TestMentionCondition_Negate(t *testing.T) {
	data := map[string]any{"channel": "support"}

	assert.False(t, MentionCondition{
		Field: "channel", Operator: OperatorEquals, Value: "support", Negate: true,
	}.Evaluate(data))
	assert.True(t, MentionCondition{
		Field: "channel", Operator: OperatorEquals, Value: "random", Negate: true,
	}.Evaluate(data))
}
