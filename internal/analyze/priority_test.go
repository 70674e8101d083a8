package analyze

import (
	"testing"
	"time"
)

func TestDerivePriority(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	days := func(n int) *time.Time {
		d := now.Add(time.Duration(n) * 24 * time.Hour)
		return &d
	}
	amount := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		due    *time.Time
		expiry *time.Time
		amount *float64
		want   string
	}{
		{"no dates no amount", nil, nil, nil, PriorityLow},
		{"due within a week", days(3), nil, nil, PriorityHigh},
		{"due exactly seven days", days(7), nil, nil, PriorityHigh},
		{"due within a month", days(20), nil, nil, PriorityMedium},
		{"due far out", days(90), nil, nil, PriorityLow},
		{"expiry within a week", nil, days(5), nil, PriorityHigh},
		{"nearest of two dates wins", days(60), days(4), nil, PriorityHigh},
		{"large amount escalates", days(90), nil, amount(15000), PriorityHigh},
		{"medium amount escalates", days(90), nil, amount(2500), PriorityMedium},
		{"small amount stays low", days(90), nil, amount(200), PriorityLow},
		{"amount alone without dates", nil, nil, amount(50000), PriorityLow},
		{"past due date", days(-3), nil, nil, PriorityHigh},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DerivePriority(tc.due, tc.expiry, tc.amount, now)
			if got != tc.want {
				t.Fatalf("DerivePriority = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDerivePriorityIsPure(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	amt := 500.0

	first := DerivePriority(&due, nil, &amt, now)
	for i := 0; i < 5; i++ {
		if got := DerivePriority(&due, nil, &amt, now); got != first {
			t.Fatalf("call %d returned %q, first returned %q", i, got, first)
		}
	}
}
