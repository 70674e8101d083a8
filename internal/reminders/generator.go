package reminders

import (
	"fmt"
	"strings"
	"time"

	"docvault-backend/internal/analyze"
)

const (
	advanceDueOffset = 7 * 24 * time.Hour
	renewalOffset    = 30 * 24 * time.Hour
)

// Spec is an in-memory, not-yet-persisted description of a reminder.
type Spec struct {
	Title        string
	Description  string
	ReminderDate time.Time
	ReminderType string
}

// Generate derives reminder specs from an analysis. Pure and deterministic:
// no I/O, no clock reads beyond the passed now.
//
// A present due date yields a DUE_DATE reminder on the date itself, plus an
// advance DUE_DATE reminder 7 days earlier when that still lies in the
// future. A present expiry date yields an EXPIRY reminder plus a RENEWAL
// reminder 30 days earlier under the same suppression rule. Output order is
// due, advance-due, expiry, renewal. No dates, no reminders.
func Generate(analysis analyze.Result, fileName string, now time.Time) []Spec {
	description := strings.TrimSpace(analysis.Summary)
	if description == "" {
		description = fmt.Sprintf("Reminder for %s", fileName)
	}

	var specs []Spec

	if analysis.DueDate != nil {
		due := *analysis.DueDate
		specs = append(specs, Spec{
			Title:        fmt.Sprintf("%s Payment Due", analysis.DocumentType),
			Description:  description,
			ReminderDate: due,
			ReminderType: TypeDueDate,
		})
		if advance := due.Add(-advanceDueOffset); advance.After(now) {
			specs = append(specs, Spec{
				Title:        fmt.Sprintf("Upcoming: %s Payment", analysis.DocumentType),
				Description:  description,
				ReminderDate: advance,
				ReminderType: TypeDueDate,
			})
		}
	}

	if analysis.ExpiryDate != nil {
		expiry := *analysis.ExpiryDate
		specs = append(specs, Spec{
			Title:        fmt.Sprintf("%s Expiring Soon", analysis.DocumentType),
			Description:  description,
			ReminderDate: expiry,
			ReminderType: TypeExpiry,
		})
		if renewal := expiry.Add(-renewalOffset); renewal.After(now) {
			specs = append(specs, Spec{
				Title:        fmt.Sprintf("Renewal Reminder: %s", analysis.DocumentType),
				Description:  description,
				ReminderDate: renewal,
				ReminderType: TypeRenewal,
			})
		}
	}

	return specs
}
