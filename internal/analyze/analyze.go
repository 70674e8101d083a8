package analyze

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"docvault-backend/internal/shared/telemetry"
)

// Client abstracts the generative backend used for document analysis.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result holds the structured fields extracted from document text.
// DocumentType, Category, Priority and Summary always carry a value;
// the rest are optional.
type Result struct {
	DocumentType string     `json:"documentType"`
	Category     string     `json:"category"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	IssueDate    *time.Time `json:"issueDate,omitempty"`
	Amount       *float64   `json:"amount,omitempty"`
	IDNumber     string     `json:"idNumber,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	Priority     string     `json:"priority"`
	Summary      string     `json:"summary"`
}

const (
	TypeBill        = "bill"
	TypeID          = "id"
	TypeCertificate = "certificate"
	TypeMedicine    = "medicine"
	TypeInsurance   = "insurance"
	TypeVehicle     = "vehicle"
	TypeWarranty    = "warranty"
	TypeOther       = "other"

	CategoryFinancial  = "Financial"
	CategoryGovernment = "Government"
	CategoryHealth     = "Health"
	CategoryPersonal   = "Personal"
	CategoryVehicle    = "Vehicle"

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

const fallbackSummary = "Document uploaded - analysis incomplete"

var knownTypes = map[string]struct{}{
	TypeBill: {}, TypeID: {}, TypeCertificate: {}, TypeMedicine: {},
	TypeInsurance: {}, TypeVehicle: {}, TypeWarranty: {}, TypeOther: {},
}

var knownCategories = map[string]struct{}{
	CategoryFinancial: {}, CategoryGovernment: {}, CategoryHealth: {},
	CategoryPersonal: {}, CategoryVehicle: {},
}

// DefaultResult is the safe analysis used when the backend cannot be reached
// or its output cannot be parsed.
func DefaultResult(summary string) Result {
	if strings.TrimSpace(summary) == "" {
		summary = fallbackSummary
	}
	return Result{
		DocumentType: TypeOther,
		Category:     CategoryPersonal,
		Priority:     PriorityMedium,
		Summary:      summary,
	}
}

// Analyzer turns extracted text into a structured Result.
type Analyzer struct {
	Client Client
}

// New constructs an Analyzer. A nil client is allowed; every call then
// degrades to the default result.
func New(client Client) *Analyzer {
	return &Analyzer{Client: client}
}

// Analyze submits the text to the generative backend and parses the reply.
// It never returns an error: any failure degrades to DefaultResult so the
// ingestion pipeline can always continue once extraction succeeded.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	if a == nil || a.Client == nil {
		telemetry.Error("analyze.skipped", map[string]any{
			"reason": "analysis backend not configured",
		})
		return DefaultResult("")
	}

	raw, err := a.Client.Complete(ctx, BuildPrompt(text))
	if err != nil {
		telemetry.Error("analyze.backend_failed", map[string]any{"err": err.Error()})
		return DefaultResult("")
	}

	obj, ok := firstJSONObject(raw)
	if !ok {
		telemetry.Error("analyze.no_json", map[string]any{"response_len": len(raw)})
		return DefaultResult("Document uploaded - analysis response unreadable")
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		telemetry.Error("analyze.parse_failed", map[string]any{"err": err.Error()})
		return DefaultResult("Document uploaded - analysis response unreadable")
	}

	return wire.normalize()
}

// wireResult mirrors the JSON object the backend is instructed to emit.
type wireResult struct {
	DocumentType string   `json:"documentType"`
	Category     string   `json:"category"`
	DueDate      *string  `json:"dueDate"`
	ExpiryDate   *string  `json:"expiryDate"`
	IssueDate    *string  `json:"issueDate"`
	Amount       *float64 `json:"amount"`
	IDNumber     string   `json:"idNumber"`
	Provider     string   `json:"provider"`
	Priority     string   `json:"priority"`
	Summary      string   `json:"summary"`
}

func (w wireResult) normalize() Result {
	out := DefaultResult(w.Summary)

	if t := strings.ToLower(strings.TrimSpace(w.DocumentType)); t != "" {
		if _, ok := knownTypes[t]; ok {
			out.DocumentType = t
		}
	}
	if c := strings.TrimSpace(w.Category); c != "" {
		if _, ok := knownCategories[c]; ok {
			out.Category = c
		}
	}
	switch strings.ToUpper(strings.TrimSpace(w.Priority)) {
	case PriorityHigh:
		out.Priority = PriorityHigh
	case PriorityLow:
		out.Priority = PriorityLow
	case PriorityMedium:
		out.Priority = PriorityMedium
	}

	out.DueDate = parseDate(w.DueDate)
	out.ExpiryDate = parseDate(w.ExpiryDate)
	out.IssueDate = parseDate(w.IssueDate)
	if w.Amount != nil && *w.Amount >= 0 {
		amount := *w.Amount
		out.Amount = &amount
	}
	out.IDNumber = strings.TrimSpace(w.IDNumber)
	out.Provider = strings.TrimSpace(w.Provider)

	return out
}

func parseDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

// firstJSONObject returns the first balanced top-level {...} substring.
// The backend may wrap its JSON in commentary; everything around the object
// is ignored.
func firstJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
