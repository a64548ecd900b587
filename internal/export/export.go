// Package export serializes ledger contents and aggregates to files.
//
// Every Export* function refuses to run on an empty ledger and does not
// create the destination in that case. Files are written in place: a failure
// part-way through leaves a truncated file behind.
package export

import (
	"fmt"
	"io"
	"os"

	"khaatabook/internal/core"
)

// Format names, used in errors, logs and metrics.
const (
	FormatLedgerCSV   = "ledger_csv"
	FormatSummaryCSV  = "summary_csv"
	FormatCalendarPNG = "calendar_png"
	FormatWorkbook    = "workbook_xlsx"
)

func noExpenses(format, dest string) error {
	return &core.ExportError{Format: format, Path: dest, Err: core.ErrNoExpenses}
}

// writeFile creates dest and hands it to write. The file is closed on every
// path; a close error is reported when write itself succeeded.
func writeFile(format, dest string, write func(io.Writer) error) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return &core.ExportError{Format: format, Path: dest, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &core.ExportError{Format: format, Path: dest, Err: fmt.Errorf("close: %w", cerr)}
		}
	}()
	if err := write(f); err != nil {
		return &core.ExportError{Format: format, Path: dest, Err: err}
	}
	return nil
}
