package documents

import "time"

const (
	StatusActive    = "ACTIVE"
	StatusExpired   = "EXPIRED"
	StatusCompleted = "COMPLETED"
)

// Document represents one ingested artifact owned by a user.
type Document struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	FileName      string        `json:"fileName"`
	StorageKey    string        `json:"-"`
	MimeType      string        `json:"mimeType"`
	SizeBytes     int64         `json:"sizeBytes"`
	DocumentType  string        `json:"documentType"`
	Category      string        `json:"category"`
	ExtractedData ExtractedData `json:"extractedData"`
	Priority      string        `json:"priority"`
	Status        string        `json:"status"`
	UploadedAt    time.Time     `json:"uploadedAt"`
}

// ExtractedData carries the fields derived from the document's text.
type ExtractedData struct {
	DueDate    *time.Time `json:"dueDate,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	IssueDate  *time.Time `json:"issueDate,omitempty"`
	Amount     *float64   `json:"amount,omitempty"`
	IDNumber   string     `json:"idNumber,omitempty"`
	Provider   string     `json:"provider,omitempty"`
	RawText    string     `json:"rawText,omitempty"`
	Summary    string     `json:"summary"`
}

// Stats aggregates a user's documents.
type Stats struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"byType"`
	ByCategory map[string]int `json:"byCategory"`
	ByStatus   map[string]int `json:"byStatus"`
}

var knownStatuses = map[string]struct{}{
	StatusActive: {}, StatusExpired: {}, StatusCompleted: {},
}

// ValidStatus reports whether s is a known document status.
func ValidStatus(s string) bool {
	_, ok := knownStatuses[s]
	return ok
}
