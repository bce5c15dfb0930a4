package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// FormatQuantity renders a consumption value with its unit.
func FormatQuantity(v float64, unit string) string {
	return fmt.Sprintf("%.2f %s", v, unit)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatStatus colours an evaluation status.
func FormatStatus(s kpi.Status) string {
	if s == kpi.StatusWithinTarget {
		return successStyle.Render("Dentro de meta")
	}

	return errorStyle.Render("Fuera de meta")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
