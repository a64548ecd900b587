package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"khaatabook/internal/aggregate"
	"khaatabook/internal/core"
)

// Workbook sheet names.
const (
	SheetExpenses    = "Expenses"
	SheetDailyTotals = "Daily Totals"
	SheetSummary     = "Summary"
)

// WriteWorkbook writes an XLSX workbook with the expense list, the daily
// totals and the category summary on separate sheets.
func WriteWorkbook(w io.Writer, s core.Summary, records []core.Expense, daily map[core.Date]decimal.Decimal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetExpenses); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDailyTotals, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("amount style: %w", err)
	}

	expenseRows := make([][]any, 0, len(records)+1)
	expenseRows = append(expenseRows, toAny(ledgerHeader))
	for _, e := range records {
		expenseRows = append(expenseRows, []any{e.Date.String(), e.Name, e.Amount.InexactFloat64(), e.Category.String()})
	}
	if err := writeRows(f, SheetExpenses, expenseRows, bold, money, "C"); err != nil {
		return err
	}

	days := aggregate.SortedDays(daily)
	dailyRows := make([][]any, 0, len(days)+1)
	dailyRows = append(dailyRows, []any{"Date", "Total"})
	for _, dt := range days {
		dailyRows = append(dailyRows, []any{dt.Date.String(), dt.Total.InexactFloat64()})
	}
	if err := writeRows(f, SheetDailyTotals, dailyRows, bold, money, "B"); err != nil {
		return err
	}

	summaryRows := make([][]any, 0, len(s.ByCategory)+5)
	summaryRows = append(summaryRows, toAny(summaryHeader))
	for _, ca := range s.ByCategory {
		summaryRows = append(summaryRows, []any{ca.Category.String(), ca.Amount.InexactFloat64()})
	}
	summaryRows = append(summaryRows,
		[]any{},
		[]any{"Monthly Budget", s.Budget.InexactFloat64()},
		[]any{"Total Expenses", s.Total.InexactFloat64()},
		[]any{"Remaining Budget", s.Remaining.InexactFloat64()},
	)
	if err := writeRows(f, SheetSummary, summaryRows, bold, money, "B"); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportWorkbook writes the XLSX workbook to dest.
func ExportWorkbook(s core.Summary, records []core.Expense, daily map[core.Date]decimal.Decimal, dest string) error {
	if len(records) == 0 {
		return noExpenses(FormatWorkbook, dest)
	}
	return writeFile(FormatWorkbook, dest, func(w io.Writer) error {
		return WriteWorkbook(w, s, records, daily)
	})
}

// writeRows writes rows from A1, styles the header row and applies the
// amount format to amountCol.
func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle, amountStyle int, amountCol string) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	if len(rows) > 1 {
		top, bottom := fmt.Sprintf("%s2", amountCol), fmt.Sprintf("%s%d", amountCol, len(rows))
		if err := f.SetCellStyle(sheet, top, bottom, amountStyle); err != nil {
			return fmt.Errorf("%s amount style: %w", sheet, err)
		}
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
