package analyze

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClient struct {
	response string
	err      error
}

func (s stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestAnalyzeParsesWrappedJSON(t *testing.T) {
	raw := "Here is the analysis:\n" +
		`{"documentType":"bill","category":"Financial","dueDate":"2026-09-15",` +
		`"amount":1250.50,"provider":"City Power","priority":"HIGH","summary":"Electricity bill"}` +
		"\nLet me know if you need anything else."

	a := New(stubClient{response: raw})
	result := a.Analyze(context.Background(), "some extracted text")

	if result.DocumentType != TypeBill {
		t.Fatalf("documentType = %q, want %q", result.DocumentType, TypeBill)
	}
	if result.Category != CategoryFinancial {
		t.Fatalf("category = %q, want %q", result.Category, CategoryFinancial)
	}
	if result.Priority != PriorityHigh {
		t.Fatalf("priority = %q, want %q", result.Priority, PriorityHigh)
	}
	if result.DueDate == nil {
		t.Fatal("expected dueDate")
	}
	want := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	if !result.DueDate.Equal(want) {
		t.Fatalf("dueDate = %v, want %v", result.DueDate, want)
	}
	if result.Amount == nil || *result.Amount != 1250.50 {
		t.Fatalf("amount = %v, want 1250.50", result.Amount)
	}
	if result.Provider != "City Power" {
		t.Fatalf("provider = %q", result.Provider)
	}
	if result.Summary != "Electricity bill" {
		t.Fatalf("summary = %q", result.Summary)
	}
}

func TestAnalyzeBackendErrorDegradesToDefault(t *testing.T) {
	a := New(stubClient{err: errors.New("boom")})
	result := a.Analyze(context.Background(), "text")

	assertDefaultShape(t, result)
	if result.Summary != "Document uploaded - analysis incomplete" {
		t.Fatalf("summary = %q", result.Summary)
	}
}

func TestAnalyzeNilClientDegradesToDefault(t *testing.T) {
	a := New(nil)
	result := a.Analyze(context.Background(), "text")
	assertDefaultShape(t, result)
}

func TestAnalyzeNoJSONInResponse(t *testing.T) {
	a := New(stubClient{response: "I could not determine anything about this document."})
	result := a.Analyze(context.Background(), "text")

	assertDefaultShape(t, result)
	if result.Summary != "Document uploaded - analysis response unreadable" {
		t.Fatalf("summary = %q", result.Summary)
	}
}

func TestAnalyzeUnknownEnumsFallBack(t *testing.T) {
	raw := `{"documentType":"spaceship","category":"Intergalactic","priority":"EXTREME","summary":"odd"}`
	a := New(stubClient{response: raw})
	result := a.Analyze(context.Background(), "text")

	if result.DocumentType != TypeOther {
		t.Fatalf("documentType = %q, want %q", result.DocumentType, TypeOther)
	}
	if result.Category != CategoryPersonal {
		t.Fatalf("category = %q, want %q", result.Category, CategoryPersonal)
	}
	if result.Priority != PriorityMedium {
		t.Fatalf("priority = %q, want %q", result.Priority, PriorityMedium)
	}
	if result.Summary != "odd" {
		t.Fatalf("summary = %q", result.Summary)
	}
}

func TestAnalyzeNegativeAmountDropped(t *testing.T) {
	raw := `{"documentType":"bill","category":"Financial","amount":-5,"priority":"LOW","summary":"s"}`
	a := New(stubClient{response: raw})
	result := a.Analyze(context.Background(), "text")
	if result.Amount != nil {
		t.Fatalf("amount = %v, want nil", result.Amount)
	}
}

func assertDefaultShape(t *testing.T, result Result) {
	t.Helper()
	if result.DocumentType != TypeOther {
		t.Fatalf("documentType = %q, want %q", result.DocumentType, TypeOther)
	}
	if result.Category != CategoryPersonal {
		t.Fatalf("category = %q, want %q", result.Category, CategoryPersonal)
	}
	if result.Priority != PriorityMedium {
		t.Fatalf("priority = %q, want %q", result.Priority, PriorityMedium)
	}
	if result.DueDate != nil || result.ExpiryDate != nil || result.Amount != nil {
		t.Fatal("expected empty optional fields")
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"wrapped", "text before {\"a\":{\"b\":2}} text after", `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`, true},
		{"escaped quote", `{"a":"\"}"}`, `{"a":"\"}"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no object", "nothing here", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := firstJSONObject(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
