package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldExpenseID   = "expense_id"
	FieldExpenseName = "expense_name"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldBudget      = "budget"
	FieldTotal       = "total"
	FieldRemaining   = "remaining"
	FieldRecords     = "records"
	FieldFormat      = "format"
	FieldDestination = "destination"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentExport = "export"
	ComponentSheets = "sheets"
	ComponentConfig = "config"
)

// Operations defines standard operation names
const (
	OpSetBudget  = "set_budget"
	OpAddExpense = "add_expense"
	OpReset      = "reset"
	OpExport     = "export"
	OpPublish    = "publish"
	OpRender     = "render"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeExport        = "export_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category, one of the ErrorType constants
func (f LogFields) WithErrorType(errType string) LogFields {
	f[FieldErrorType] = errType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id, name, amount, category, date string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseName] = name
	f[FieldAmount] = amount
	f[FieldCategory] = category
	f[FieldDate] = date
	return f
}

// WithExport adds export-related fields
func (f LogFields) WithExport(format, destination string, records int) LogFields {
	f[FieldFormat] = format
	f[FieldDestination] = destination
	f[FieldRecords] = records
	return f
}

// WithHTTPResponse adds HTTP request/response fields
func (f LogFields) WithHTTPResponse(method, path string, statusCode int, durationMs int64) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
