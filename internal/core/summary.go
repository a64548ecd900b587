package core

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// Summary is a point-in-time snapshot of the ledger's budget state.
type Summary struct {
	Budget     decimal.Decimal
	Total      decimal.Decimal
	Remaining  decimal.Decimal
	ByCategory []CategoryAmount
	Records    int
}

// OverBudget reports whether expenses exceed the budget.
func (s Summary) OverBudget() bool {
	return s.Remaining.IsNegative()
}

// DateTotal is the summed amount for one calendar date.
type DateTotal struct {
	Date  Date
	Total decimal.Decimal
}

// DayTotal is one day slot of a month calendar.
type DayTotal struct {
	Day         int
	Total       decimal.Decimal
	HasExpenses bool
	// InMonth is false for slots past the month's last day (e.g. April 31).
	InMonth     bool
}

// MonthCalendar holds 31 day slots for one month.
type MonthCalendar struct {
	Year    int
	Month   time.Month
	Days    [31]DayTotal
	Records int // records in the ledger the calendar was built from
}

// Title is the heading used when the calendar is rendered.
func (c MonthCalendar) Title() string {
	return "Expenses for " + c.Month.String() + " " + strconv.Itoa(c.Year)
}

// Clipped returns only the slots that exist in the month.
func (c MonthCalendar) Clipped() []DayTotal {
	out := make([]DayTotal, 0, len(c.Days))
	for _, d := range c.Days {
		if d.InMonth {
			out = append(out, d)
		}
	}
	return out
}

