package escalation

import (
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

// AvailableAt reports whether a team is within working hours at the given
// instant. Empty WorkingDays means every day; StartHour==EndHour==0 means no
// hour window. Unknown timezones fall back to UTC rather than failing a
// routing decision.
func AvailableAt(a models.TeamAvailability, t time.Time) bool {
	loc := time.UTC

	if a.Timezone != "" {
		if parsed, err := time.LoadLocation(a.Timezone); err == nil {
			loc = parsed
		}
	}

	local := t.In(loc)

	for _, date := range a.HolidayDates {
		if local.Format("2006-01-02") == date {
			return false
		}
	}

	if len(a.WorkingDays) > 0 {
		working := false

		for _, day := range a.WorkingDays {
			if local.Weekday() == day {
				working = true

				break
			}
		}

		if !working {
			return false
		}
	}

	if a.StartHour == 0 && a.EndHour == 0 {
		return true
	}

	hour := local.Hour()

	return hour >= a.StartHour && hour < a.EndHour
}
