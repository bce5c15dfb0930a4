package view

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/report"
)

type exportState int

const (
	exportStateType exportState = iota
	exportStateLoading
	exportStateBrowse
	exportStatePath
	exportStateResult
)

// ExportModel shows the indicator matrix of one invoice type and writes it
// to a workbook.
type ExportModel struct {
	CommonModel
	invoiceService *invoice.Service

	state   exportState
	err     error
	form    *huh.Form
	spinner spinner.Model
	table   table.Model

	// huh writes through these, so they outlive value copies of the model.
	invoiceType *invoice.Type
	dir         *string

	matrix  report.Matrix
	written string
}

func NewExportModel(svc *invoice.Service, scope Scope) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Cargada", Width: 12},
			{Title: "Cliente", Width: 22},
			{Title: "N° cliente", Width: 12},
			{Title: "Periodo", Width: 14},
			{Title: "Consumo", Width: 16},
			{Title: "Costo", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	m := ExportModel{
		CommonModel:    CommonModel{Scope: scope},
		invoiceService: svc,
		state:          exportStateType,
		spinner:        s,
		table:          t,
		invoiceType:    new(invoice.TypeEnergy),
		dir:            new("./exports"),
	}
	m.form = m.buildTypeForm()

	return m
}

func (m ExportModel) Title() string { return "Matriz de indicadores" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateBrowse:
		return "Esc: volver | x: exportar a Excel"
	case exportStateLoading:
		return "Cargando..."
	}

	return "Esc: volver | Enter: confirmar"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateType:
		return m.updateType(msg)
	case exportStateLoading:
		return m.updateLoading(msg)
	case exportStateBrowse:
		return m.updateBrowse(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = exportStateBrowse
			m.err = nil

			return m, nil
		}
	}

	return m, nil
}

func (m ExportModel) updateType(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateLoading

	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m ExportModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if loaded, ok := msg.(matrixLoadedMsg); ok {
		if loaded.err != nil {
			m.state = exportStateResult
			m.err = loaded.err

			return m, nil
		}

		m.matrix = loaded.matrix
		m.refreshTable()
		m.state = exportStateBrowse

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = exportStateType
			m.form = m.buildTypeForm()

			return m, m.form.Init()
		case "x":
			m.state = exportStatePath
			m.form = m.buildPathForm()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if written, ok := msg.(matrixWrittenMsg); ok {
		m.state = exportStateResult
		m.err = written.err
		m.written = written.path

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.writeCmd()
}

func (m ExportModel) buildTypeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Type]().
				Title("Tipo de factura").
				Options(
					huh.NewOption("Energía", invoice.TypeEnergy),
					huh.NewOption("Agua", invoice.TypeWater),
					huh.NewOption("Minutos", invoice.TypeMinutes),
				).
				Value(m.invoiceType),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Carpeta de destino").
				Description("Se crea si no existe").
				Placeholder("./exports").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m *ExportModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.matrix.Rows))

	for _, r := range m.matrix.Rows {
		rows = append(rows, table.Row{
			FormatDate(r.UploadedAt),
			r.ClientName,
			r.ClientNumber,
			r.Period,
			FormatQuantity(r.Consumption, r.Unit),
			r.TotalText,
		})
	}

	m.table.SetRows(rows)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateType, exportStatePath:
		return style.Render(m.form.View())

	case exportStateLoading:
		return style.Render(fmt.Sprintf("%s Cargando facturas de %s...", m.spinner.View(), *m.invoiceType))

	case exportStateBrowse:
		header := titleStyle.Render(fmt.Sprintf("%s %d", m.matrix.Type, m.matrix.Year))
		if len(m.matrix.Rows) == 0 {
			return style.Render(header + "\n\n" + mutedStyle.Render("No hay facturas para este año."))
		}

		return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.table.View()))

	case exportStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return style.Render(successStyle.Render("Matriz exportada a " + m.written))
	}

	return ""
}

// Messages

type matrixLoadedMsg struct {
	matrix report.Matrix
	err    error
}

func (m ExportModel) loadCmd() tea.Cmd {
	t := *m.invoiceType
	filter := invoice.ListFilter{CompanyID: &m.Scope.CompanyID, Year: &m.Scope.Year, Type: &t}
	year := m.Scope.Year

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.invoiceService.List(ctx, filter)
		if err != nil {
			return matrixLoadedMsg{err: err}
		}

		return matrixLoadedMsg{matrix: report.BuildMatrix(t, year, invs)}
	}
}

type matrixWrittenMsg struct {
	path string
	err  error
}

func (m ExportModel) writeCmd() tea.Cmd {
	matrix := m.matrix
	dir := *m.dir

	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return matrixWrittenMsg{err: fmt.Errorf("creating directory: %w", err)}
		}

		path := filepath.Join(dir, matrix.Filename())

		f, err := os.Create(path)
		if err != nil {
			return matrixWrittenMsg{err: fmt.Errorf("creating file: %w", err)}
		}
		defer f.Close()

		if err := report.WriteXLSX(f, matrix); err != nil {
			return matrixWrittenMsg{err: err}
		}

		return matrixWrittenMsg{path: path}
	}
}
