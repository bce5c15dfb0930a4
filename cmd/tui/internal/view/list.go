package view

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

var typeFilters = []invoice.Type{"", invoice.TypeEnergy, invoice.TypeWater, invoice.TypeMinutes}

// ListModel is the invoice history of the selected company and year.
type ListModel struct {
	CommonModel
	invoiceService *invoice.Service
	token          string

	table table.Model
	invs  []*invoice.Invoice

	typeFilterIdx int

	loading bool
	err     error
	status  string
}

func NewListModel(svc *invoice.Service, scope Scope, workflowToken string) ListModel {
	columns := []table.Column{
		{Title: "Cargada", Width: 12},
		{Title: "Tipo", Width: 10},
		{Title: "Sede", Width: 20},
		{Title: "Mes", Width: 9},
		{Title: "Consumo", Width: 16},
		{Title: "Archivo", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		CommonModel:    CommonModel{Scope: scope},
		invoiceService: svc,
		token:          workflowToken,
		table:          t,
		loading:        true,
	}
}

func (m ListModel) Title() string { return "Historial de facturas" }
func (m ListModel) ShortHelp() string {
	return "Esc: volver | t: filtro de tipo | p: reprocesar | r: recargar"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invs = msg.invs
		m.refreshTable()

		return m, nil

	case reprocessMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error al reprocesar: %v", msg.err)
			return m, nil
		}

		m.status = "Factura reprocesada."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(5, msg.Height-12))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			m.loading = true

			return m, m.loadCmd()
		case "p":
			return m, m.reprocessCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Cargando facturas...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	filter := "Todos"
	if t := typeFilters[m.typeFilterIdx]; t != "" {
		filter = string(t)
	}

	header := fmt.Sprintf("Año %d | [t] Tipo: %s", m.Scope.Year, activeStyle(filter))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		mutedStyle.Render(summaryLine(invoice.Summarize(m.invs))),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func summaryLine(stats invoice.Statistics) string {
	parts := make([]string, 0, len(stats.ByType))
	for t, n := range stats.ByType {
		parts = append(parts, fmt.Sprintf("%s: %d", t, n))
	}

	sort.Strings(parts)

	return fmt.Sprintf("Total: %d  %s", stats.Total, strings.Join(parts, "  "))
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invs))

	for _, inv := range m.invs {
		hq := "Sin sede"
		if inv.Headquarters != nil && inv.Headquarters.Name != "" {
			hq = inv.Headquarters.Name
		}

		month, _ := invoice.MonthFromInvoice(inv)

		consumption := "N/D"
		if c, ok := invoice.Adapt(inv.Type, inv.Data).Consumption(); ok {
			consumption = FormatQuantity(c, invoice.UnitFor(inv.Type))
		}

		rows = append(rows, table.Row{
			FormatDate(inv.CreatedAt),
			string(inv.Type),
			hq,
			month,
			consumption,
			inv.FileName,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	invs []*invoice.Invoice
	err  error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := invoice.ListFilter{CompanyID: &m.Scope.CompanyID, Year: &m.Scope.Year}
	if t := typeFilters[m.typeFilterIdx]; t != "" {
		filter.Type = &t
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.invoiceService.List(ctx, filter)

		return loadListMsg{invs: invs, err: err}
	}
}

type reprocessMsg struct {
	err error
}

func (m ListModel) reprocessCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invs) {
		return nil
	}

	id := m.invs[idx].ID
	token := m.token

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		_, err := m.invoiceService.Reprocess(ctx, id, token)

		return reprocessMsg{err: err}
	}
}
