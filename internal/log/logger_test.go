package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentLedger,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)
	l.Info("expense added", FieldAmount, "10.00")
	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "amount=10.00") {
		t.Fatalf("unexpected log line: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentExport).Warn("export failed")
	if !strings.Contains(buf.String(), "component=export") || strings.Contains(buf.String(), "component=ledger") {
		t.Fatalf("expected only export component: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestFromContextFallback(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil || l.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %+v", l)
	}
}

func TestAccessLogLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	h := Middleware(l)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(AccessLog(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/expenses", nil))

	out := buf.String()
	for _, want := range []string{"level=WARN", "status_code=422", "request_id=req_1", "component=http"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestErrorFields(t *testing.T) {
	f := NewFields().WithError(nil)
	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error should not add a field: %v", f)
	}

	var buf bytes.Buffer
	l := newBufferLogger(&buf)
	f = NewFields().WithError(errors.New("boom")).WithErrorType(ErrorTypeExport)
	l.Error("export failed", f.ToSlice()...)
	for _, part := range []string{"error=boom", "error_type=export_error", "component=ledger"} {
		if !strings.Contains(buf.String(), part) {
			t.Fatalf("log missing %q: %s", part, buf.String())
		}
	}
}
