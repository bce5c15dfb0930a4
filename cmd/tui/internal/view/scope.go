package view

import (
	"errors"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// ScopeSelectedMsg is sent once the company and year are chosen.
type ScopeSelectedMsg struct {
	Scope Scope
}

type scopeValues struct {
	company string
	year    string
}

// ScopeModel asks which company and year to work on.
type ScopeModel struct {
	form   *huh.Form
	values *scopeValues
}

func NewScopeModel(initial Scope) ScopeModel {
	v := &scopeValues{year: strconv.Itoa(time.Now().Year())}

	if initial.CompanyID != uuid.Nil {
		v.company = initial.CompanyID.String()
	}

	if initial.Year != 0 {
		v.year = strconv.Itoa(initial.Year)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("company").
				Title("Empresa").
				Description("ID de la empresa").
				Value(&v.company).
				Validate(func(s string) error {
					if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
						return errors.New("ingrese un UUID válido")
					}

					return nil
				}),
			huh.NewInput().
				Key("year").
				Title("Año").
				Value(&v.year).
				Validate(func(s string) error {
					y, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || y < 2000 || y > 2100 {
						return errors.New("ingrese un año válido")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	return ScopeModel{form: form, values: v}
}

func (m ScopeModel) Title() string     { return "Empresa y año" }
func (m ScopeModel) ShortHelp() string { return "Enter: continuar | Ctrl+C: salir" }

func (m ScopeModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ScopeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	companyID, _ := uuid.Parse(strings.TrimSpace(m.values.company))
	year, _ := strconv.Atoi(strings.TrimSpace(m.values.year))

	return m, func() tea.Msg {
		return ScopeSelectedMsg{Scope: Scope{CompanyID: companyID, Year: year}}
	}
}

func (m ScopeModel) View() string {
	return lipgloss.NewStyle().Padding(1).Render(
		titleStyle.Render("EcoKPI") + "\n\n" + m.form.View(),
	)
}
