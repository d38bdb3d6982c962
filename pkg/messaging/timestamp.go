package messaging

import (
	"fmt"
	"time"
)

// generateTimestamp fabricates a Slack-style message timestamp. The sequence
// suffix keeps refs unique within one second.
func generateTimestamp(seq int) string {
	return fmt.Sprintf("%d.%06d", time.Now().Unix(), seq%1000000)
}
