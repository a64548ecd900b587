// Package metrics exposes Prometheus collectors for the ledger and its HTTP shell.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"khaatabook/internal/core"
)

const namespace = "khaatabook"

// Export results.
const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultError   = "error"
)

var (
	expensesAddedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_added_total",
			Help:      "Expenses recorded, by category",
		},
		[]string{"category"},
	)

	expensesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_rejected_total",
			Help:      "Expense submissions rejected by validation, by field",
		},
		[]string{"field"},
	)

	budgetSetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_sets_total",
			Help:      "Successful monthly budget updates",
		},
	)

	resetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_resets_total",
			Help:      "Full ledger resets",
		},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Export attempts, by format and result",
		},
		[]string{"format", "result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(expensesAddedTotal)
	prometheus.MustRegister(expensesRejectedTotal)
	prometheus.MustRegister(budgetSetsTotal)
	prometheus.MustRegister(resetsTotal)
	prometheus.MustRegister(exportsTotal)
}

func ExpenseAdded(c core.Category) {
	expensesAddedTotal.WithLabelValues(c.String()).Inc()
}

func ExpenseRejected(field string) {
	if field == "" {
		field = "unknown"
	}
	expensesRejectedTotal.WithLabelValues(field).Inc()
}

func BudgetSet() { budgetSetsTotal.Inc() }

func LedgerReset() { resetsTotal.Inc() }

// ExportDone counts one export attempt, classifying err into a result label.
func ExportDone(format string, err error) {
	exportsTotal.WithLabelValues(format, ExportResult(err)).Inc()
}

// ExportResult maps an export error to its result label.
func ExportResult(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, core.ErrNoExpenses):
		return ResultEmpty
	default:
		return ResultError
	}
}
