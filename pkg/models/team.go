package models

import "time"

// TeamAvailability describes when a team is reachable. HolidayDates use the
// YYYY-MM-DD form in the team's timezone. OnCallID, when set, names a member
// that bypasses the availability window entirely.
type TeamAvailability struct {
	Timezone     string         `json:"timezone,omitempty"`
	StartHour    int            `json:"start_hour"`
	EndHour      int            `json:"end_hour"`
	WorkingDays  []time.Weekday `json:"working_days,omitempty"`
	HolidayDates []string       `json:"holiday_dates,omitempty"`
	OnCallID     string         `json:"on_call_id,omitempty"`
}

// Team is a named group of recipients with a chain of responsibility. The
// EscalationPath lists recipients contacted, in order, beyond the initial
// member set when a mention goes unacknowledged.
type Team struct {
	ID                  string           `json:"id"      validate:"required"`
	Name                string           `json:"name"    validate:"required"`
	Members             []string         `json:"members" validate:"required,min=1"`
	EscalationPath      []string         `json:"escalation_path,omitempty"`
	ResponseTimeMinutes int              `json:"response_time_minutes,omitempty"`
	Availability        TeamAvailability `json:"availability"`
}

const DefaultResponseTime = 15 * time.Minute

// ResponseTime returns the expected acknowledgment window for the team.
func (t *Team) ResponseTime() time.Duration {
	if t.ResponseTimeMinutes <= 0 {
		return DefaultResponseTime
	}

	return time.Duration(t.ResponseTimeMinutes) * time.Minute
}
