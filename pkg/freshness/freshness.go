package freshness

import "time"

// UrgentThresholdDays is shared by the status classification and the
// notification policy: an item with this many days left or fewer is urgent.
const UrgentThresholdDays = 3

type Status string

const (
	StatusExpired Status = "expired"
	StatusUrgent  Status = "urgent"
	StatusSafe    Status = "safe"
)

const DateLayout = "2006-01-02"

// Day truncates t to midnight of its calendar date in t's own location and
// re-anchors it in UTC so that two days can be subtracted without DST drift.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RemainingDays returns the number of whole calendar days from now until
// expiry. An item expiring today reads 0 regardless of the time of day.
func RemainingDays(expiry, now time.Time) int {
	return int(Day(expiry).Sub(Day(now)).Hours() / 24)
}

func StatusOf(expiry, now time.Time) Status {
	return StatusForDays(RemainingDays(expiry, now))
}

func StatusForDays(days int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= UrgentThresholdDays:
		return StatusUrgent
	default:
		return StatusSafe
	}
}

// IsNotificationWorthy reports whether an item qualifies for a push alert.
// Expired items qualify as well; the threshold only bounds from above.
func IsNotificationWorthy(expiry, now time.Time) bool {
	return RemainingDays(expiry, now) <= UrgentThresholdDays
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
