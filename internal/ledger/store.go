// Package ledger holds the monthly budget, the running total, per-category
// subtotals and the ordered list of expenses for a single user.
package ledger

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khaatabook/internal/aggregate"
	"khaatabook/internal/core"
	applog "khaatabook/internal/log"
)

// Store is the in-memory ledger. The zero value is not usable; call New.
type Store struct {
	mu         sync.Mutex
	budget     decimal.Decimal
	total      decimal.Decimal
	byCategory map[core.Category]decimal.Decimal
	items      []core.Expense

	logger *applog.Logger
	newID  func() uuid.UUID
}

type Option func(*Store)

// WithLogger sets the logger used for mutations.
func WithLogger(l *applog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.WithComponent(applog.ComponentLedger)
		}
	}
}

// WithIDGenerator overrides how expense IDs are assigned.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		byCategory: zeroTotals(),
		logger:     applog.Discard(),
		newID:      uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBudget replaces the monthly budget. Totals and records are untouched.
func (s *Store) SetBudget(amount decimal.Decimal) error {
	if err := core.ValidateAmount(amount); err != nil {
		return &core.ValidationError{Field: "budget", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = amount
	s.logger.Info("Budget set",
		applog.FieldOperation, applog.OpSetBudget,
		applog.FieldBudget, core.FormatAmount(amount),
		applog.FieldRemaining, core.FormatAmount(s.budget.Sub(s.total)))
	return nil
}

// AddExpense validates and appends an expense, then adds its amount to the
// running total and to its category. The stored record is returned.
func (s *Store) AddExpense(name string, amount decimal.Decimal, category core.Category, date core.Date) (core.Expense, error) {
	e := core.Expense{
		Name:     name,
		Amount:   amount,
		Category: category,
		Date:     core.DateOf(date.Time),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.newID()
	s.items = append(s.items, e)
	s.total = s.total.Add(e.Amount)
	s.byCategory[e.Category] = s.byCategory[e.Category].Add(e.Amount)

	fields := applog.NewFields().
		WithOperation(applog.OpAddExpense).
		WithExpense(e.ID.String(), e.Name, core.FormatAmount(e.Amount), e.Category.String(), e.Date.String())
	fields[applog.FieldTotal] = core.FormatAmount(s.total)
	s.logger.Info("Expense added", fields.ToSlice()...)
	return e, nil
}

// Reset zeroes the budget, the total and every category, and clears all
// records.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := len(s.items)
	s.budget = decimal.Zero
	s.total = decimal.Zero
	s.byCategory = zeroTotals()
	s.items = nil
	s.logger.Info("Ledger reset", applog.FieldOperation, applog.OpReset, applog.FieldRecords, cleared)
}

// RemainingBudget is budget minus total expenses; negative when over budget.
func (s *Store) RemainingBudget() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Sub(s.total)
}

func (s *Store) Budget() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

func (s *Store) TotalExpenses() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// CategoryTotals returns a copy holding every category, including zeros.
func (s *Store) CategoryTotals() map[core.Category]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[core.Category]decimal.Decimal, len(s.byCategory))
	for c, v := range s.byCategory {
		out[c] = v
	}
	return out
}

// Records returns the expenses in insertion order.
func (s *Store) Records() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}

// Len returns the number of recorded expenses.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Summary snapshots the budget state and category totals.
func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// Snapshot returns the summary and the records read under one lock, so the
// two always describe the same ledger state.
func (s *Store) Snapshot() (core.Summary, []core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked(), append([]core.Expense(nil), s.items...)
}

func (s *Store) summaryLocked() core.Summary {
	return core.Summary{
		Budget:     s.budget,
		Total:      s.total,
		Remaining:  s.budget.Sub(s.total),
		ByCategory: aggregate.CategorySummary(s.byCategory),
		Records:    len(s.items),
	}
}

func zeroTotals() map[core.Category]decimal.Decimal {
	m := make(map[core.Category]decimal.Decimal, len(core.Categories()))
	for _, c := range core.Categories() {
		m[c] = decimal.Zero
	}
	return m
}
