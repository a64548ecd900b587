// This file holds form and query parsing for the ledger handlers.

package http

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"khaatabook/internal/core"
)

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month time.Month
}

// ParseMonthParams extracts year and month from query parameters, using the
// month of now as default. Values that are present but malformed, or a month
// outside 1..12, yield a ValidationError.
func ParseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	params := MonthParams{
		Year:  now.Year(),
		Month: now.Month(),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			return MonthParams{}, &core.ValidationError{Field: "year", Err: core.ErrInvalidDate}
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return MonthParams{}, &core.ValidationError{Field: "month", Err: core.ErrInvalidDate}
		}
		params.Month = time.Month(m)
	}

	return params, nil
}

// ExpenseInput is a parsed "add expense" form submission.
type ExpenseInput struct {
	Name     string
	Amount   decimal.Decimal
	Category core.Category
	Date     core.Date
}

// ParseExpenseForm reads name, amount, category and date from form. The date
// defaults to today when the field is empty.
func ParseExpenseForm(form url.Values, now time.Time) (ExpenseInput, error) {
	in := ExpenseInput{Name: sanitizeInput(form.Get("name"))}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return ExpenseInput{}, err
	}
	in.Amount = amount

	category, err := parseCategoryInput(form.Get("category"))
	if err != nil {
		return ExpenseInput{}, err
	}
	in.Category = category

	if v := strings.TrimSpace(form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return ExpenseInput{}, err
		}
		in.Date = d
	} else {
		in.Date = core.DateOf(now)
	}

	return in, nil
}

// ParseBudgetForm reads the monthly budget amount from form.
func ParseBudgetForm(form url.Values) (decimal.Decimal, error) {
	amount, err := core.ParseAmount(form.Get("budget"))
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			return decimal.Decimal{}, &core.ValidationError{Field: "budget", Err: ve.Err}
		}
		return decimal.Decimal{}, err
	}
	return amount, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
