package export

import (
	"bytes"
	"errors"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"khaatabook/internal/aggregate"
	"khaatabook/internal/core"
)

func sampleRecords() []core.Expense {
	return []core.Expense{
		{Name: "groceries", Amount: decimal.NewFromInt(100), Category: core.Food, Date: core.NewDate(2024, time.January, 6)},
		{Name: "lamp, desk", Amount: decimal.RequireFromString("50.5"), Category: core.Home, Date: core.NewDate(2024, time.January, 5)},
		{Name: "cinema", Amount: decimal.NewFromInt(20), Category: core.Fun, Date: core.NewDate(2024, time.January, 6)},
	}
}

func sampleSummary() core.Summary {
	return core.Summary{
		Budget:    decimal.NewFromInt(1000),
		Total:     decimal.RequireFromString("170.5"),
		Remaining: decimal.RequireFromString("829.5"),
		ByCategory: aggregate.CategorySummary(map[core.Category]decimal.Decimal{
			core.Food: decimal.NewFromInt(100),
			core.Home: decimal.RequireFromString("50.5"),
			core.Fun:  decimal.NewFromInt(20),
		}),
		Records: 3,
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	records := sampleRecords()
	var buf bytes.Buffer
	if err := WriteLedgerCSV(&buf, records, aggregate.DailyTotals(records)); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Date,Expense Name,Amount,Category\n" +
		"2024-01-06,groceries,100.00,Food\n" +
		"2024-01-05,\"lamp, desk\",50.50,Home\n" +
		"2024-01-06,cinema,20.00,Fun\n" +
		"\n" +
		"Daily Totals:\n" +
		"2024-01-05,50.50\n" +
		"2024-01-06,120.00\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, sampleSummary()); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Category,Total Expenses\n" +
		"Food,100.00\n" +
		"Home,50.50\n" +
		"Work,0.00\n" +
		"Fun,20.00\n" +
		"Miscellaneous,0.00\n" +
		"\n" +
		"Total Expenses,170.50\n" +
		"Remaining Budget,829.50\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteSummaryCSVNegativeRemaining(t *testing.T) {
	s := sampleSummary()
	s.Remaining = decimal.RequireFromString("-70.5")
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, s); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("Remaining Budget,-70.50\n")) {
		t.Fatalf("expected negative remaining, got:\n%s", buf.String())
	}
}

func TestExportsRefuseEmptyLedger(t *testing.T) {
	dir := t.TempDir()
	empty := core.Summary{ByCategory: aggregate.CategorySummary(nil)}
	cal := aggregate.MonthlyDailyTotals(nil, 2024, time.January)

	cases := map[string]func(dest string) error{
		"ledger.csv":    func(dest string) error { return ExportLedgerCSV(nil, nil, dest) },
		"summary.csv":   func(dest string) error { return ExportSummaryCSV(empty, dest) },
		"calendar.png":  func(dest string) error { return RenderCalendarImage(cal, dest) },
		"workbook.xlsx": func(dest string) error { return ExportWorkbook(empty, nil, nil, dest) },
	}
	for name, export := range cases {
		dest := filepath.Join(dir, name)
		err := export(dest)
		if !errors.Is(err, core.ErrNoExpenses) || !core.IsExport(err) {
			t.Fatalf("%s: expected ExportError(no expenses), got %v", name, err)
		}
		if _, statErr := os.Stat(dest); !errors.Is(statErr, fs.ErrNotExist) {
			t.Fatalf("%s: file must not be created, stat err=%v", name, statErr)
		}
	}
}

func TestExportsRefuseEmptyLedgerKeepsExistingFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(dest, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ExportLedgerCSV(nil, nil, dest); err == nil {
		t.Fatal("expected error")
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "previous" {
		t.Fatalf("existing file modified: %q", got)
	}
}

func TestExportsUnwritableDestination(t *testing.T) {
	records := sampleRecords()
	dest := filepath.Join(t.TempDir(), "missing-dir", "out.csv")

	err := ExportLedgerCSV(records, aggregate.DailyTotals(records), dest)
	var ee *core.ExportError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExportError, got %v", err)
	}
	if ee.Format != FormatLedgerCSV || ee.Path != dest || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected export error %+v", ee)
	}

	if err := ExportSummaryCSV(sampleSummary(), dest); !core.IsExport(err) {
		t.Fatalf("expected ExportError for summary, got %v", err)
	}
}

func TestExportLedgerAndSummaryToFiles(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords()

	ledgerPath := filepath.Join(dir, "ledger.csv")
	if err := ExportLedgerCSV(records, aggregate.DailyTotals(records), ledgerPath); err != nil {
		t.Fatalf("ledger: %v", err)
	}
	data, err := os.ReadFile(ledgerPath)
	if err != nil || !bytes.HasPrefix(data, []byte("Date,Expense Name,Amount,Category\n")) {
		t.Fatalf("unexpected ledger file: %q (err=%v)", data, err)
	}

	summaryPath := filepath.Join(dir, "summary.csv")
	if err := ExportSummaryCSV(sampleSummary(), summaryPath); err != nil {
		t.Fatalf("summary: %v", err)
	}
	data, err = os.ReadFile(summaryPath)
	if err != nil || !bytes.Contains(data, []byte("Total Expenses,170.50\n")) {
		t.Fatalf("unexpected summary file: %q (err=%v)", data, err)
	}
}

func isBlue(r, g, b uint32) bool  { return b > 0xf000 && r < 0x1000 && g < 0x1000 }
func isWhite(r, g, b uint32) bool { return r == 0xffff && g == 0xffff && b == 0xffff }

func TestRenderCalendarImage(t *testing.T) {
	records := sampleRecords()
	cal := aggregate.MonthlyDailyTotals(records, 2024, time.January)
	dest := filepath.Join(t.TempDir(), "calendar.png")
	if err := RenderCalendarImage(cal, dest); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != CalendarWidth || b.Dy() != CalendarHeight {
		t.Fatalf("unexpected size %v", b)
	}
	if r, g, b, _ := img.At(CalendarWidth-1, 0).RGBA(); !isWhite(r, g, b) {
		t.Fatalf("expected white background")
	}

	lineHasBlue := func(day int) bool {
		top := firstLineTop + (day-1)*lineHeight
		for y := top; y < top+lineHeight && y < CalendarHeight; y++ {
			for x := 0; x < CalendarWidth; x++ {
				if r, g, b, _ := img.At(x, y).RGBA(); isBlue(r, g, b) {
					return true
				}
			}
		}
		return false
	}
	for _, day := range []int{5, 6} {
		if !lineHasBlue(day) {
			t.Fatalf("day %d should be drawn in the expenses colour", day)
		}
	}
	for _, day := range []int{1, 4, 7, 31} {
		if lineHasBlue(day) {
			t.Fatalf("day %d has no expenses and must not be blue", day)
		}
	}
}

func TestDrawCalendarWithoutExpensesHasNoBlue(t *testing.T) {
	cal := aggregate.MonthlyDailyTotals(sampleRecords(), 2024, time.February)
	img := DrawCalendar(cal)
	nonWhite := 0
	for y := 0; y < CalendarHeight; y++ {
		for x := 0; x < CalendarWidth; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if isBlue(r, g, b) {
				t.Fatalf("unexpected blue pixel at %d,%d", x, y)
			}
			if !isWhite(r, g, b) {
				nonWhite++
			}
		}
	}
	if nonWhite == 0 {
		t.Fatalf("expected title and day lines to be drawn")
	}
}

func TestWriteWorkbook(t *testing.T) {
	records := sampleRecords()
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sampleSummary(), records, aggregate.DailyTotals(records)); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != SheetExpenses || sheets[1] != SheetDailyTotals || sheets[2] != SheetSummary {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	raw := excelize.Options{RawCellValue: true}
	cells := []struct {
		sheet, cell, want string
	}{
		{SheetExpenses, "A1", "Date"},
		{SheetExpenses, "B3", "lamp, desk"},
		{SheetExpenses, "C3", "50.5"},
		{SheetExpenses, "D4", "Fun"},
		{SheetDailyTotals, "A2", "2024-01-05"},
		{SheetDailyTotals, "B3", "120"},
		{SheetSummary, "A2", "Food"},
		{SheetSummary, "A10", "Remaining Budget"},
		{SheetSummary, "B10", "829.5"},
	}
	for _, c := range cells {
		got, err := f.GetCellValue(c.sheet, c.cell, raw)
		if err != nil || got != c.want {
			t.Fatalf("%s!%s = %q (err=%v), want %q", c.sheet, c.cell, got, err, c.want)
		}
	}
}
