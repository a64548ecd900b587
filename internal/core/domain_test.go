package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateOfDropsTimeOfDay(t *testing.T) {
	a := DateOf(time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC))
	b := DateOf(time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC))
	if a != b {
		t.Fatalf("expected same date, got %v and %v", a, b)
	}
	if a.String() != "2024-01-05" {
		t.Fatalf("unexpected string %q", a.String())
	}
	if !DateOf(time.Time{}).IsZero() {
		t.Fatalf("zero time should stay zero")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-01 ")
	if err != nil || d != NewDate(2024, time.March, 1) {
		t.Fatalf("unexpected parse: %v err=%v", d, err)
	}
	_, err = ParseDate("01/03/2024")
	if !errors.Is(err, ErrInvalidDate) || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"Food", Food, true},
		{" home ", Home, true},
		{"MISCELLANEOUS", Miscellaneous, true},
		{"Travel", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrUnknownCategory) {
			t.Fatalf("%q expected ErrUnknownCategory, got %v", tc.in, err)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	got := Categories()
	want := []Category{Food, Home, Work, Fun, Miscellaneous}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] || !got[i].Valid() {
			t.Fatalf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if Category("Travel").Valid() {
		t.Fatalf("Travel must not be valid")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Name:     "lunch",
		Amount:   decimal.NewFromInt(100),
		Category: Food,
		Date:     NewDate(2025, time.January, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	unnamed := good
	unnamed.Name = ""
	if err := unnamed.Validate(); err != nil {
		t.Fatalf("empty name should be accepted, got %v", err)
	}

	bads := []struct {
		e    Expense
		want error
	}{
		{Expense{Amount: decimal.Zero, Category: Food, Date: good.Date}, ErrInvalidAmount},
		{Expense{Amount: decimal.NewFromInt(-5), Category: Food, Date: good.Date}, ErrInvalidAmount},
		{Expense{Amount: decimal.NewFromInt(1), Category: "Travel", Date: good.Date}, ErrUnknownCategory},
		{Expense{Amount: decimal.NewFromInt(1), Category: Food}, ErrInvalidDate},
	}
	for i, tc := range bads {
		err := tc.e.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !IsValidation(err) {
			t.Fatalf("case %d expected ValidationError, got %T", i, err)
		}
	}
}

func TestExportErrorWrapping(t *testing.T) {
	err := error(&ExportError{Format: "csv", Path: "/tmp/x.csv", Err: ErrNoExpenses})
	if !errors.Is(err, ErrNoExpenses) || !IsExport(err) {
		t.Fatalf("expected export error wrapping ErrNoExpenses, got %v", err)
	}
	if err.Error() != "export csv to /tmp/x.csv: no expenses" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if IsValidation(err) {
		t.Fatalf("export error must not look like a validation error")
	}
}

func TestMonthCalendarTitleAndClip(t *testing.T) {
	c := MonthCalendar{Year: 2024, Month: time.April}
	for i := range c.Days {
		c.Days[i] = DayTotal{Day: i + 1, InMonth: i < 30}
	}
	if c.Title() != "Expenses for April 2024" {
		t.Fatalf("unexpected title %q", c.Title())
	}
	if n := len(c.Clipped()); n != 30 {
		t.Fatalf("expected 30 days in April, got %d", n)
	}
}
