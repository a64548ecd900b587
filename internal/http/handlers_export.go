package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"khaatabook/internal/aggregate"
	"khaatabook/internal/core"
	"khaatabook/internal/export"
	applog "khaatabook/internal/log"
	"khaatabook/internal/metrics"
	"khaatabook/internal/sheets"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) handleExportLedgerCSV(w http.ResponseWriter, r *http.Request) {
	records := s.ledger.Records()
	daily := aggregate.DailyTotals(records)
	s.serveExport(w, r, export.FormatLedgerCSV, "expenses.csv", contentTypeCSV, func(dest string) error {
		return export.ExportLedgerCSV(records, daily, dest)
	}, len(records))
}

func (s *Server) handleExportSummaryCSV(w http.ResponseWriter, r *http.Request) {
	sum := s.ledger.Summary()
	s.serveExport(w, r, export.FormatSummaryCSV, "summary.csv", contentTypeCSV, func(dest string) error {
		return export.ExportSummaryCSV(sum, dest)
	}, sum.Records)
}

func (s *Server) handleExportCalendar(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records := s.ledger.Records()
	cal := aggregate.MonthlyDailyTotals(records, params.Year, params.Month)
	name := fmt.Sprintf("calendar_%04d_%02d.png", params.Year, int(params.Month))
	s.serveExport(w, r, export.FormatCalendarPNG, name, contentTypePNG, func(dest string) error {
		return export.RenderCalendarImage(cal, dest)
	}, len(records), applog.FieldYear, params.Year, applog.FieldMonth, int(params.Month))
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	sum, records := s.ledger.Snapshot()
	daily := aggregate.DailyTotals(records)
	s.serveExport(w, r, export.FormatWorkbook, "khaatabook.xlsx", contentTypeXLSX, func(dest string) error {
		return export.ExportWorkbook(sum, records, daily, dest)
	}, len(records))
}

// serveExport writes the export to a temporary file in the export directory,
// renames it into place and streams the renamed file back as an attachment.
// Concurrent requests for the same export each serve their own copy.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, format, name, contentType string, run func(dest string) error, records int, extra ...any) {
	dest := filepath.Join(s.exportDir, name)
	f, err := writeExport(format, dest, run)
	metrics.ExportDone(format, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	fields := applog.NewFields().
		WithOperation(applog.OpExport).
		WithExport(format, dest, records)
	applog.FromContext(r.Context()).WithComponent(applog.ComponentExport).
		InfoContext(r.Context(), "Export written", append(fields.ToSlice(), extra...)...)

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, r, &core.ExportError{Format: format, Path: dest, Err: err})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// writeExport runs the export into a temporary sibling of dest, opens it and
// renames it over dest. The returned handle keeps reading this request's
// content even if another request replaces dest afterwards. Nothing is left
// behind when the export fails.
func writeExport(format, dest string, run func(dest string) error) (*os.File, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return nil, &core.ExportError{Format: format, Path: dest, Err: err}
	}
	tmpName := tmp.Name()
	_ = tmp.Close()

	if err := run(tmpName); err != nil {
		_ = os.Remove(tmpName)
		return nil, err
	}
	f, err := os.Open(tmpName)
	if err != nil {
		_ = os.Remove(tmpName)
		return nil, &core.ExportError{Format: format, Path: dest, Err: err}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return nil, &core.ExportError{Format: format, Path: dest, Err: err}
	}
	return f, nil
}

func (s *Server) handlePublishSheets(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		ServiceUnavailableError("Google Sheets publishing is not configured").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), publishTimeout)
	defer cancel()

	sum, records := s.ledger.Snapshot()
	ref, err := s.publisher.PublishLedger(ctx, sum, records)
	metrics.ExportDone(sheets.FormatGoogleSheets, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	SuccessResponse("Ledger published to " + ref).Write(w)
}

// noExpensesMessage names what could not be produced from an empty ledger.
func noExpensesMessage(err error) string {
	var ee *core.ExportError
	if !errors.As(err, &ee) {
		return "No expenses recorded."
	}
	switch ee.Format {
	case export.FormatSummaryCSV:
		return "No expenses to summarize."
	case export.FormatCalendarPNG:
		return "No expenses to generate calendar."
	default:
		return "No expenses to export."
	}
}
