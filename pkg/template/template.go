// Package template renders message text for workflow steps and notifications
// from the execution context.
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

// RenderWithContext renders input with the execution context exposed as
// .data, .steps, .execution and .channel/.user.
func RenderWithContext(input string, executionCtx *models.ExecutionContext, executionID, workflowID string) (string, error) {
	data := map[string]any{
		"data":    executionCtx.Data,
		"steps":   executionCtx.CompletedSteps,
		"channel": executionCtx.Channel,
		"user":    executionCtx.UserID,
		"execution": map[string]any{
			"id":          executionID,
			"workflow_id": workflowID,
		},
	}

	return Render(input, data)
}

// Render executes input as a text/template against data.
func Render(templateStr string, data any) (string, error) {
	tmpl, err := template.
		New("message").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"title": func(s string) string {
				if s == "" {
					return s
				}

				return strings.ToUpper(s[:1]) + s[1:]
			},
		}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	return buf.String(), nil
}

// NeedsTemplating reports whether input references template expressions.
func NeedsTemplating(input string) bool {
	return strings.Contains(input, "{{")
}
