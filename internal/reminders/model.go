package reminders

import "time"

const (
	TypeDueDate = "DUE_DATE"
	TypeExpiry  = "EXPIRY"
	TypeRenewal = "RENEWAL"
	TypePayment = "PAYMENT"
	TypeOther   = "OTHER"

	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusDismissed = "DISMISSED"
)

// Reminder is a scheduled notification derived from a document. It has no
// meaning without its document; deleting the document deletes its reminders.
type Reminder struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	DocumentID       string    `json:"documentId"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ReminderDate     time.Time `json:"reminderDate"`
	ReminderType     string    `json:"reminderType"`
	Status           string    `json:"status"`
	NotificationSent bool      `json:"notificationSent"`
	CreatedAt        time.Time `json:"createdAt"`
}
