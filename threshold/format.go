package threshold

import (
	"fmt"
	"time"
)

// FormatTimeRemaining renders how long until expiry for display.
// Past-expiry instants render as "Expired".
func FormatTimeRemaining(expiresAt time.Time) string {
	return formatTimeRemaining(expiresAt, time.Now())
}

func formatTimeRemaining(expiresAt, now time.Time) string {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return "Expired"
	}

	days := int(remaining / (24 * time.Hour))
	hours := int(remaining/time.Hour) % 24
	minutes := int(remaining/time.Minute) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
