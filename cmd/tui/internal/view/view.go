package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Scope is the company and filing year every screen works on.
type Scope struct {
	CompanyID uuid.UUID
	Year      int
}

type CommonModel struct {
	Scope  Scope
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
