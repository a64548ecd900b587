package http

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"khaatabook/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		query     url.Values
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{"defaults", url.Values{}, 2024, time.June, false},
		{"explicit", url.Values{"year": {"2023"}, "month": {"2"}}, 2023, time.February, false},
		{"trimmed", url.Values{"year": {" 2025 "}, "month": {" 12 "}}, 2025, time.December, false},
		{"month only", url.Values{"month": {"1"}}, 2024, time.January, false},
		{"month too large", url.Values{"month": {"13"}}, 0, 0, true},
		{"month zero", url.Values{"month": {"0"}}, 0, 0, true},
		{"year not a number", url.Values{"year": {"abc"}}, 0, 0, true},
		{"negative year", url.Values{"year": {"-1"}}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParams(tt.query, now)
			if tt.wantErr {
				if !core.IsValidation(err) || !errors.Is(err, core.ErrInvalidDate) {
					t.Fatalf("expected date validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Fatalf("got %d-%d, want %d-%d", got.Year, got.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParseExpenseForm(t *testing.T) {
	now := time.Date(2024, time.June, 20, 18, 45, 0, 0, time.UTC)

	in, err := ParseExpenseForm(url.Values{
		"name":     {"  chai\x00 "},
		"amount":   {"12,345"},
		"category": {"🥳Fun"},
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Name != "chai" {
		t.Fatalf("expected sanitized name, got %q", in.Name)
	}
	if core.FormatAmount(in.Amount) != "12.35" {
		t.Fatalf("expected rounded amount, got %s", core.FormatAmount(in.Amount))
	}
	if in.Category != core.Fun {
		t.Fatalf("expected Fun, got %q", in.Category)
	}
	if in.Date != core.NewDate(2024, time.June, 20) {
		t.Fatalf("expected today's date, got %v", in.Date)
	}

	failures := []struct {
		form url.Values
		want error
	}{
		{url.Values{"amount": {"-1"}, "category": {"Food"}}, core.ErrInvalidAmount},
		{url.Values{"amount": {"1"}, "category": {"🚗Travel"}}, core.ErrUnknownCategory},
		{url.Values{"amount": {"1"}, "category": {"Food"}, "date": {"2024-02-30"}}, core.ErrInvalidDate},
	}
	for i, tc := range failures {
		if _, err := ParseExpenseForm(tc.form, now); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseBudgetForm(t *testing.T) {
	amount, err := ParseBudgetForm(url.Values{"budget": {"1000"}})
	if err != nil || core.FormatAmount(amount) != "1000.00" {
		t.Fatalf("unexpected result %s err=%v", amount, err)
	}

	_, err = ParseBudgetForm(url.Values{"budget": {"0"}})
	var ve *core.ValidationError
	if !errors.As(err, &ve) || ve.Field != "budget" || !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected budget validation error, got %v", err)
	}
}

func TestCategoryLabels(t *testing.T) {
	for _, c := range core.Categories() {
		label := categoryLabel(c)
		got, err := parseCategoryInput(label)
		if err != nil || got != c {
			t.Fatalf("label %q did not round-trip: %q %v", label, got, err)
		}
		got, err = parseCategoryInput(c.String())
		if err != nil || got != c {
			t.Fatalf("plain name %q not accepted: %q %v", c, got, err)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	cases := map[string]string{
		"  hello ":       "hello",
		"a\x00b\x07c":    "abc",
		"line1\nline2\t": "line1\nline2",
	}
	for in, want := range cases {
		if got := sanitizeInput(in); got != want {
			t.Fatalf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
