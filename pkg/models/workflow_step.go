package models

// StepKind selects the dispatch behaviour of a workflow step.
type StepKind string

const (
	StepKindMessage     StepKind = "message"
	StepKindAction      StepKind = "action"
	StepKindCondition   StepKind = "condition"
	StepKindDelay       StepKind = "delay"
	StepKindIntegration StepKind = "integration"
)

func (k StepKind) Valid() bool {
	switch k {
	case StepKindMessage, StepKindAction, StepKindCondition, StepKindDelay, StepKindIntegration:
		return true
	default:
		return false
	}
}

// WorkflowStep is one node of a workflow graph. A step with no NextSteps is
// terminal. Conditions gate execution; a step whose conditions evaluate false
// is skipped and the run advances without side effects.
type WorkflowStep struct {
	ID            string         `json:"id"            validate:"required"`
	Name          string         `json:"name"`
	Kind          StepKind       `json:"kind"          validate:"required"`
	Configuration map[string]any `json:"configuration" validate:"required"`
	Conditions    []Condition    `json:"conditions,omitempty"`
	NextSteps     []string       `json:"next_steps,omitempty"`
}

// Terminal reports whether the step ends the workflow.
func (s *WorkflowStep) Terminal() bool {
	return len(s.NextSteps) == 0
}

// ConfigString reads a string value out of the step configuration.
func (s *WorkflowStep) ConfigString(key string) string {
	v, ok := s.Configuration[key].(string)
	if !ok {
		return ""
	}

	return v
}
