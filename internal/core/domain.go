package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Food          Category = "Food"
	Home          Category = "Home"
	Work          Category = "Work"
	Fun           Category = "Fun"
	Miscellaneous Category = "Miscellaneous"
)

type (
	// Category is the closed set of expense categories.
	Category string

	Date struct {
		time.Time
	}

	Expense struct {
		ID       uuid.UUID
		Name     string
		Amount   decimal.Decimal
		Category Category
		Date     Date
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoExpenses      = errors.New("no expenses")
)

// Categories returns every category in canonical order.
func Categories() []Category {
	return []Category{Food, Home, Work, Fun, Miscellaneous}
}

func (c Category) Valid() bool {
	switch c {
	case Food, Home, Work, Fun, Miscellaneous:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s against the category names, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Err: fmt.Errorf("%w: %q", ErrUnknownCategory, s)}
}

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time-of-day from t, keeping its calendar day.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Err: fmt.Errorf("%w: %v", ErrInvalidDate, err)}
	}
	return DateOf(t), nil
}

const DateLayout = "2006-01-02"

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the fields the ledger relies on. Name is free text.
func (e Expense) Validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return &ValidationError{Field: "amount", Err: err}
	}
	if !e.Category.Valid() {
		return &ValidationError{Field: "category", Err: fmt.Errorf("%w: %q", ErrUnknownCategory, string(e.Category))}
	}
	if err := e.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	return nil
}

// ValidationError reports bad user input. State is never mutated when one
// is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ExportError reports a failed export. Exports never alter ledger state.
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("export %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsExport reports whether err is, or wraps, an ExportError.
func IsExport(err error) bool {
	var ee *ExportError
	return errors.As(err, &ee)
}
