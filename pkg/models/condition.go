package models

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Operator is the comparison applied by a condition against the data bag.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorExists      Operator = "exists"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorContains, OperatorGreaterThan, OperatorLessThan, OperatorExists:
		return true
	default:
		return false
	}
}

// Condition gates a workflow step. Field supports dotted paths into nested maps.
type Condition struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    any      `json:"value,omitempty"`
}

// Evaluate resolves the condition field against data and applies the operator.
// Missing fields satisfy nothing except a negated exists check.
func (c Condition) Evaluate(data map[string]any) bool {
	value, found := Lookup(data, c.Field)

	switch c.Operator {
	case OperatorExists:
		return found
	case OperatorEquals:
		return found && equalValues(value, c.Value)
	case OperatorContains:
		return found && containsValue(value, c.Value)
	case OperatorGreaterThan:
		return found && compareNumeric(value, c.Value) > 0
	case OperatorLessThan:
		return found && compareNumeric(value, c.Value) < 0
	default:
		return false
	}
}

// EvaluateAll applies the vacuous-AND rule: an empty list is true.
func EvaluateAll(conditions []Condition, data map[string]any) bool {
	for _, condition := range conditions {
		if !condition.Evaluate(data) {
			return false
		}
	}

	return true
}

// Lookup resolves a dotted field path against nested map[string]any values.
func Lookup(data map[string]any, field string) (any, bool) {
	if data == nil {
		return nil, false
	}

	parts := strings.Split(field, ".")

	var current any = data

	for _, part := range parts {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	// Numeric values arriving via JSON decode as float64; compare numerically
	// so 3 == 3.0 regardless of the Go type either side carries.
	af, aok := toFloat(a)
	bf, bok := toFloat(b)

	if aok && bok {
		return af == bf
	}

	// JSON arrays and objects decode to []any and map[string]any, which == on
	// interface values panics on. Those compare structurally.
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return reflect.DeepEqual(a, b)
	}

	if a == b {
		return true
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func containsValue(haystack, needle any) bool {
	switch v := haystack.(type) {
	case string:
		return strings.Contains(v, fmt.Sprintf("%v", needle))
	case []any:
		for _, item := range v {
			if equalValues(item, needle) {
				return true
			}
		}

		return false
	case []string:
		for _, item := range v {
			if item == fmt.Sprintf("%v", needle) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

// compareNumeric returns 1, 0 or -1 for a > b, a == b, a < b. Values that
// cannot be coerced to numbers compare as equal, which makes the ordering
// operators evaluate false for them.
func compareNumeric(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)

	if !aok || !bok {
		return 0
	}

	switch {
	case af > bf:
		return 1
	case af < bf:
		return -1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}
