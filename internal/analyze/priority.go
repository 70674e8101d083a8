package analyze

import "time"

// DerivePriority recomputes the HIGH/MEDIUM/LOW rule locally, independent of
// the backend-suggested priority. A document with neither a due date nor an
// expiry date is LOW regardless of amount. Pure function.
func DerivePriority(dueDate, expiryDate *time.Time, amount *float64, now time.Time) string {
	nearest := nearestDate(dueDate, expiryDate)
	if nearest == nil {
		return PriorityLow
	}

	days := nearest.Sub(now).Hours() / 24

	if days <= 7 || (amount != nil && *amount > 10000) {
		return PriorityHigh
	}
	if days <= 30 || (amount != nil && *amount > 1000) {
		return PriorityMedium
	}
	return PriorityLow
}

func nearestDate(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}
