package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"khaatabook/internal/core"
	"khaatabook/internal/ledger"
	applog "khaatabook/internal/log"
	"khaatabook/internal/metrics"
	"khaatabook/internal/sheets"
	appweb "khaatabook/web"
)

// DefaultExportDir is used when no export directory is configured.
const DefaultExportDir = "./exports"

// publishTimeout bounds a single Google Sheets publish.
const publishTimeout = 30 * time.Second

type Server struct {
	http.Server
	templates *template.Template
	ledger    *ledger.Store
	publisher sheets.LedgerPublisher
	exportDir string
	logger    *applog.Logger
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithPublisher enables POST /export/sheets.
func WithPublisher(p sheets.LedgerPublisher) Option {
	return func(s *Server) { s.publisher = p }
}

func WithExportDir(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.exportDir = dir
		}
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for default dates and months.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, store *ledger.Store, opts ...Option) *Server {
	s := &Server{
		ledger:    store,
		exportDir: DefaultExportDir,
		logger:    applog.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(applog.ComponentHTTP)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
		t = nil
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(requestID))
	r.Use(applog.AccessLog)
	r.Use(securityHeaders(DefaultHeadersConfig()))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.With(staticCache(3600)).Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Get("/", s.handleIndex)
	r.Get("/ui/ledger", s.handleLedgerPanel)
	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/budget", s.handleSetBudget)
	r.Post("/expenses", s.handleAddExpense)
	r.Post("/reset", s.handleReset)
	r.Get("/summary", s.handleSummary)

	r.Route("/export", func(r chi.Router) {
		r.Get("/ledger.csv", s.handleExportLedgerCSV)
		r.Get("/summary.csv", s.handleExportSummaryCSV)
		r.Get("/calendar.png", s.handleExportCalendar)
		r.Get("/workbook.xlsx", s.handleExportWorkbook)
		r.Post("/sheets", s.handlePublishSheets)
	})

	return r
}

var templateFuncs = template.FuncMap{
	"money": core.FormatMoney,
	"label": categoryLabel,
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
	return s.Server.Shutdown(ctx)
}
