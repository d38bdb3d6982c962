package escalation

import (
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

// RouterStats summarizes mention and notification activity over a window.
type RouterStats struct {
	Timeframe         time.Duration `json:"timeframe"`
	Mentions          int           `json:"mentions"`
	UrgentMentions    int           `json:"urgent_mentions"`
	NotificationsSent int           `json:"notifications_sent"`
	Acknowledged      int           `json:"acknowledged"`
	Expired           int           `json:"expired"`
	Escalations       int           `json:"escalations"`
	AvgAckTime        time.Duration `json:"avg_ack_time"`
}

// Stats aggregates activity within the trailing timeframe. A zero timeframe
// covers the full retention window.
func (r *Router) Stats(timeframe time.Duration) RouterStats {
	if timeframe <= 0 {
		timeframe = historyRetention
	}

	cutoff := r.now().Add(-timeframe)
	stats := RouterStats{Timeframe: timeframe}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, records := range r.history {
		for _, record := range records {
			if record.At.Before(cutoff) {
				continue
			}

			stats.Mentions++

			if record.Urgent {
				stats.UrgentMentions++
			}
		}
	}

	var ackTotal time.Duration

	for _, notification := range r.notifications {
		if notification.SentAt.Before(cutoff) {
			continue
		}

		stats.NotificationsSent++

		if notification.Kind == models.NotificationKindEscalation {
			stats.Escalations++
		}

		switch notification.Status {
		case models.NotificationStatusAcknowledged:
			stats.Acknowledged++

			if notification.AcknowledgedAt != nil {
				ackTotal += notification.AcknowledgedAt.Sub(notification.SentAt)
			}
		case models.NotificationStatusExpired:
			stats.Expired++
		}
	}

	if stats.Acknowledged > 0 {
		stats.AvgAckTime = ackTotal / time.Duration(stats.Acknowledged)
	}

	return stats
}
