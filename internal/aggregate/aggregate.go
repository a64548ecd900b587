// Package aggregate derives per-date and per-category totals from ledger
// records. Every function is a pure read over its arguments.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"khaatabook/internal/core"
)

// DailyTotals sums amounts per calendar date. Map iteration order is
// unspecified; use SortedDays for a stable order.
func DailyTotals(records []core.Expense) map[core.Date]decimal.Decimal {
	out := make(map[core.Date]decimal.Decimal)
	for _, e := range records {
		d := core.DateOf(e.Date.Time)
		out[d] = out[d].Add(e.Amount)
	}
	return out
}

// SortedDays orders daily totals chronologically.
func SortedDays(daily map[core.Date]decimal.Decimal) []core.DateTotal {
	out := make([]core.DateTotal, 0, len(daily))
	for d, total := range daily {
		out = append(out, core.DateTotal{Date: d, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// MonthlyDailyTotals buckets the records of one month by day-of-month.
//
// All 31 slots are always filled. Slots with no expenses, including days the
// month does not have, report HasExpenses=false; InMonth tells them apart.
func MonthlyDailyTotals(records []core.Expense, year int, month time.Month) core.MonthCalendar {
	cal := core.MonthCalendar{Year: year, Month: month, Records: len(records)}
	last := DaysIn(year, month)
	for i := range cal.Days {
		cal.Days[i] = core.DayTotal{Day: i + 1, Total: decimal.Zero, InMonth: i+1 <= last}
	}
	for _, e := range records {
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		slot := &cal.Days[e.Date.Day()-1]
		slot.Total = slot.Total.Add(e.Amount)
		slot.HasExpenses = true
	}
	return cal
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CategorySummary copies totals into canonical category order. Categories
// missing from totals are reported as zero.
func CategorySummary(totals map[core.Category]decimal.Decimal) []core.CategoryAmount {
	cats := core.Categories()
	out := make([]core.CategoryAmount, 0, len(cats))
	for _, c := range cats {
		amt, ok := totals[c]
		if !ok {
			amt = decimal.Zero
		}
		out = append(out, core.CategoryAmount{Category: c, Amount: amt})
	}
	return out
}
