package sheets

import (
	"context"

	"khaatabook/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerPublisher mirrors the ledger into an external spreadsheet.
	LedgerPublisher interface {
		// PublishLedger replaces the published table with the given state and
		// returns a reference to the written range.
		PublishLedger(ctx context.Context, s core.Summary, records []core.Expense) (ref string, err error)
	}
)

// FormatGoogleSheets names the Google Sheets export in errors and metrics.
const FormatGoogleSheets = "google_sheets"
