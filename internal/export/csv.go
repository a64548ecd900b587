package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"khaatabook/internal/aggregate"
	"khaatabook/internal/core"
)

var (
	ledgerHeader  = []string{"Date", "Expense Name", "Amount", "Category"}
	summaryHeader = []string{"Category", "Total Expenses"}
)

// DailyTotalsSeparator marks the start of the per-date block in the ledger CSV.
const DailyTotalsSeparator = "Daily Totals:"

// WriteLedgerCSV writes the header, one row per record in order, a blank
// row, the separator row and one row per date in chronological order.
func WriteLedgerCSV(w io.Writer, records []core.Expense, daily map[core.Date]decimal.Decimal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range records {
		row := []string{e.Date.String(), e.Name, core.FormatAmount(e.Amount), e.Category.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}
	if err := cw.Write([]string{DailyTotalsSeparator}); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}
	for _, dt := range aggregate.SortedDays(daily) {
		if err := cw.Write([]string{dt.Date.String(), core.FormatAmount(dt.Total)}); err != nil {
			return fmt.Errorf("write daily total: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportLedgerCSV writes the ledger CSV to dest.
func ExportLedgerCSV(records []core.Expense, daily map[core.Date]decimal.Decimal, dest string) error {
	if len(records) == 0 {
		return noExpenses(FormatLedgerCSV, dest)
	}
	return writeFile(FormatLedgerCSV, dest, func(w io.Writer) error {
		return WriteLedgerCSV(w, records, daily)
	})
}

// WriteSummaryCSV writes one row per category, a blank row, then the total
// and remaining budget rows.
func WriteSummaryCSV(w io.Writer, s core.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, ca := range s.ByCategory {
		if err := cw.Write([]string{ca.Category.String(), core.FormatAmount(ca.Amount)}); err != nil {
			return fmt.Errorf("write category: %w", err)
		}
	}
	rows := [][]string{
		{},
		{"Total Expenses", core.FormatAmount(s.Total)},
		{"Remaining Budget", core.FormatAmount(s.Remaining)},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	return nil
}

// ExportSummaryCSV writes the summary CSV to dest.
func ExportSummaryCSV(s core.Summary, dest string) error {
	if s.Records == 0 {
		return noExpenses(FormatSummaryCSV, dest)
	}
	return writeFile(FormatSummaryCSV, dest, func(w io.Writer) error {
		return WriteSummaryCSV(w, s)
	})
}
