package http

import (
	"errors"
	"net/http"

	"khaatabook/internal/core"
	applog "khaatabook/internal/log"
	"khaatabook/internal/metrics"
)

type categoryOption struct {
	Value string
	Label string
}

type categoryRow struct {
	Label  string
	Amount string
}

type expenseRow struct {
	Name     string
	Amount   string
	Category string
	Date     string
}

type panelData struct {
	Budget     string
	Total      string
	Remaining  string
	OverBudget bool
	Categories []categoryRow
	Expenses   []expenseRow
	Sheets     bool
}

type pageData struct {
	Today      string
	Year       int
	Month      int
	Categories []categoryOption
	Panel      panelData
}

func (s *Server) panel() panelData {
	sum := s.ledger.Summary()
	p := panelData{
		Budget:     core.FormatMoney(sum.Budget),
		Total:      core.FormatMoney(sum.Total),
		Remaining:  core.FormatMoney(sum.Remaining),
		OverBudget: sum.OverBudget(),
		Sheets:     s.publisher != nil,
	}
	for _, ca := range sum.ByCategory {
		p.Categories = append(p.Categories, categoryRow{Label: categoryLabel(ca.Category), Amount: core.FormatMoney(ca.Amount)})
	}
	for _, e := range s.ledger.Records() {
		p.Expenses = append(p.Expenses, expenseRow{
			Name:     e.Name,
			Amount:   core.FormatMoney(e.Amount),
			Category: categoryLabel(e.Category),
			Date:     e.Date.String(),
		})
	}
	return p
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := s.now()
	data := pageData{
		Today: core.DateOf(now).String(),
		Year:  now.Year(),
		Month: int(now.Month()),
		Panel: s.panel(),
	}
	for _, c := range core.Categories() {
		data.Categories = append(data.Categories, categoryOption{Value: c.String(), Label: categoryLabel(c)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		logger.ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldOperation, applog.OpRender, applog.FieldError, err, "template", "index.html")
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// handleLedgerPanel renders the budget panel partial refreshed after mutations.
func (s *Server) handleLedgerPanel(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "ledger_panel.html", s.panel()); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Panel template execution failed",
			applog.FieldOperation, applog.OpRender, applog.FieldError, err, "template", "ledger_panel.html")
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	amount, err := ParseBudgetForm(r.Form)
	if err == nil {
		err = s.ledger.SetBudget(amount)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.BudgetSet()

	SuccessResponse("Budget set successfully!").
		TriggerLedgerChanged().
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	in, err := ParseExpenseForm(r.Form, s.now())
	if err != nil {
		s.rejectExpense(w, r, err)
		return
	}
	exp, err := s.ledger.AddExpense(in.Name, in.Amount, in.Category, in.Date)
	if err != nil {
		s.rejectExpense(w, r, err)
		return
	}

	metrics.ExpenseAdded(exp.Category)

	SuccessResponse("Expense added successfully!").
		TriggerLedgerChanged().
		TriggerFormReset().
		Write(w)
}

func (s *Server) rejectExpense(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		metrics.ExpenseRejected(ve.Field)
	}
	s.writeError(w, r, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ledger.Reset()
	metrics.LedgerReset()

	SuccessResponse("Budget and expenses have been reset.").
		TriggerLedgerChanged().
		Write(w)
}

// handleSummary returns the plain-text expense summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(summaryText(s.ledger.Summary())))
}

// writeError maps core errors to status codes: validation 422, empty-ledger
// exports 409, everything else 500. Each rejection is logged with its error
// type.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	fields := applog.NewFields().WithError(err)
	fields[applog.FieldPath] = r.URL.Path

	switch {
	case core.IsValidation(err):
		logger.WarnContext(ctx, "Request rejected", fields.WithErrorType(applog.ErrorTypeValidation).ToSlice()...)
		UnprocessableEntityError(validationMessage(err)).Write(w)
	case errors.Is(err, core.ErrNoExpenses):
		logger.WarnContext(ctx, "Nothing to export", fields.WithErrorType(applog.ErrorTypeExport).ToSlice()...)
		ConflictError(noExpensesMessage(err)).Write(w)
	case core.IsExport(err):
		logger.ErrorContext(ctx, "Export failed", fields.WithErrorType(applog.ErrorTypeExport).ToSlice()...)
		InternalServerError("Export failed").Write(w)
	default:
		logger.ErrorContext(ctx, "Request failed", fields.WithErrorType(applog.ErrorTypeInternal).ToSlice()...)
		InternalServerError("Internal error").Write(w)
	}
}

func validationMessage(err error) string {
	var ve *core.ValidationError
	field := ""
	if errors.As(err, &ve) {
		field = ve.Field
	}
	switch {
	case errors.Is(err, core.ErrInvalidAmount) && field == "budget":
		return "Please enter a positive budget amount."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a positive amount."
	case errors.Is(err, core.ErrUnknownCategory):
		return "Please choose one of the listed categories."
	case field == "year" || field == "month":
		return "Please enter a valid year and month."
	case errors.Is(err, core.ErrInvalidDate):
		return "Please enter a valid date."
	default:
		return "Invalid input."
	}
}
