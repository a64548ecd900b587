package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"khaatabook/internal/aggregate"
	"khaatabook/internal/core"
	applog "khaatabook/internal/log"
	ports "khaatabook/internal/sheets"
)

// DefaultSheetName is used when Config.SheetName is empty.
const DefaultSheetName = "Ledger"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

// Ensure interface conformance
var _ ports.LedgerPublisher = (*Client)(nil)

// Config selects the target spreadsheet and the service account used to
// reach it. CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	// Options are appended to the client options, e.g. a test endpoint.
	Options []goption.ClientOption
}

// New creates a Sheets client from cfg using service account credentials.
func New(ctx context.Context, cfg Config, logger *applog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *applog.Logger) *Client {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = DefaultSheetName
	}
	if logger == nil {
		logger = applog.Discard()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(spreadsheetID),
		sheetName:     strings.TrimSpace(sheetName),
		logger:        logger.WithComponent(applog.ComponentSheets),
	}
}

// newSheetsService initializes a Sheets Service. Explicit options (tests,
// custom endpoints) skip credential loading when they carry their own client.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}

	credentialsJSON := []byte(strings.TrimSpace(cfg.CredentialsJSON))
	switch {
	case len(credentialsJSON) > 0:
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	case len(cfg.Options) == 0:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	if len(credentialsJSON) > 0 {
		opts = append(opts, goption.WithCredentialsJSON(credentialsJSON))
	}
	opts = append(opts, cfg.Options...)

	service, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// PublishLedger clears the ledger sheet and writes the expense table, the
// daily totals and the category summary below one another.
func (c *Client) PublishLedger(ctx context.Context, s core.Summary, records []core.Expense) (string, error) {
	if len(records) == 0 {
		return "", &core.ExportError{Format: ports.FormatGoogleSheets, Path: c.spreadsheetID, Err: core.ErrNoExpenses}
	}
	if c.svc == nil {
		return "", &core.ExportError{Format: ports.FormatGoogleSheets, Path: c.spreadsheetID, Err: errors.New("sheets service not initialized")}
	}

	clearRange := a1(c.sheetName, "A:D")
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return "", &core.ExportError{Format: ports.FormatGoogleSheets, Path: c.spreadsheetID,
			Err: fmt.Errorf("clear %s: %w", clearRange, err)}
	}

	values := ledgerValues(s, records)
	writeRange := a1(c.sheetName, fmt.Sprintf("A1:D%d", len(values)))
	vr := &gsheet.ValueRange{Values: values}
	// RAW stores cells as sent, so a name such as "=IMPORTDATA(...)" stays text.
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", &core.ExportError{Format: ports.FormatGoogleSheets, Path: c.spreadsheetID,
			Err: fmt.Errorf("update %s: %w", writeRange, err)}
	}

	ref := writeRange
	if resp != nil && resp.UpdatedRange != "" {
		ref = resp.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Ledger published to Google Sheets",
		applog.FieldOperation, applog.OpPublish,
		applog.FieldSheetsRef, ref,
		applog.FieldRecords, len(records))
	return ref, nil
}

// ledgerValues lays out the same blocks as the CSV exports. Amounts are sent
// as numbers so they stay summable in the sheet.
func ledgerValues(s core.Summary, records []core.Expense) [][]any {
	daily := aggregate.SortedDays(aggregate.DailyTotals(records))
	out := make([][]any, 0, len(records)+len(daily)+len(s.ByCategory)+8)

	out = append(out, []any{"Date", "Expense Name", "Amount", "Category"})
	for _, e := range records {
		out = append(out, []any{e.Date.String(), e.Name, e.Amount.InexactFloat64(), e.Category.String()})
	}

	out = append(out, []any{}, []any{"Daily Totals:"})
	for _, dt := range daily {
		out = append(out, []any{dt.Date.String(), dt.Total.InexactFloat64()})
	}

	out = append(out, []any{}, []any{"Category", "Total Expenses"})
	for _, ca := range s.ByCategory {
		out = append(out, []any{ca.Category.String(), ca.Amount.InexactFloat64()})
	}
	out = append(out,
		[]any{"Monthly Budget", s.Budget.InexactFloat64()},
		[]any{"Total Expenses", s.Total.InexactFloat64()},
		[]any{"Remaining Budget", s.Remaining.InexactFloat64()},
	)
	return out
}

// a1 builds an A1 range, quoting sheet names that are not plain words.
func a1(sheet, cells string) string {
	for _, r := range sheet {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
		}
	}
	return sheet + "!" + cells
}
