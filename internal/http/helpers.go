package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"khaatabook/internal/core"
)

// categoryLabels are the decorated names shown in the form.
var categoryLabels = map[core.Category]string{
	core.Food:          "🍔Food",
	core.Home:          "🏠Home",
	core.Work:          "💻Work",
	core.Fun:           "🥳Fun",
	core.Miscellaneous: "👾Miscellaneous",
}

func categoryLabel(c core.Category) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return c.String()
}

// parseCategoryInput accepts either a plain category name or its decorated label.
func parseCategoryInput(s string) (core.Category, error) {
	s = strings.TrimSpace(s)
	for c, label := range categoryLabels {
		if s == label {
			return c, nil
		}
	}
	return core.ParseCategory(s)
}

// summaryText renders the plain-text expense summary.
func summaryText(s core.Summary) string {
	var b strings.Builder
	b.WriteString("Expense Summary:\n")
	for _, ca := range s.ByCategory {
		fmt.Fprintf(&b, "%s: %s\n", categoryLabel(ca.Category), core.FormatMoney(ca.Amount))
	}
	fmt.Fprintf(&b, "\nTotal Expenses: %s\n", core.FormatMoney(s.Total))
	fmt.Fprintf(&b, "Remaining Budget: %s", core.FormatMoney(s.Remaining))
	return b.String()
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// requestID returns the caller supplied X-Request-ID or a fresh one.
func requestID(r *http.Request) string {
	if id := sanitizeInput(r.Header.Get("X-Request-ID")); id != "" && len(id) <= 64 {
		return id
	}
	return generateRequestID()
}
