package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

const generateTimeout = 3 * time.Minute

type dashState int

const (
	dashStateLoading dashState = iota
	dashStateBrowse
	dashStateChooseType
	dashStateGenerating
	dashStateEditTarget
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1).
	Width(34)

var selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("57"))

type DashboardModel struct {
	CommonModel
	svc   *kpi.Service
	token string

	state   dashState
	dash    *kpi.Dashboard
	table   table.Model
	spinner spinner.Model
	form    *huh.Form

	// Form bindings live on the heap so huh keeps writing to them after
	// the model is copied.
	formType   *invoice.Type
	formTarget *string

	status string
	err    error
}

func NewDashboardModel(svc *kpi.Service, scope Scope, workflowToken string) DashboardModel {
	columns := []table.Column{
		{Title: "Mes", Width: 10},
		{Title: "Consumo", Width: 16},
		{Title: "Meta", Width: 16},
		{Title: "Estado", Width: 16},
		{Title: "Desviación", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		CommonModel: CommonModel{Scope: scope},
		svc:         svc,
		token:       workflowToken,
		table:       t,
		spinner:     sp,
		formType:    new(invoice.Type),
		formTarget:  new(string),
	}
}

func (m DashboardModel) Title() string { return "Indicadores" }

func (m DashboardModel) ShortHelp() string {
	switch m.state {
	case dashStateChooseType, dashStateEditTarget:
		return "Enter: confirmar | Esc: cancelar"
	case dashStateGenerating:
		return "Generando..."
	}

	return "Esc: volver | Tab: tipo | g: generar línea base | e: editar meta | r: recargar"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(""))
}

type dashboardLoadedMsg struct {
	dash *kpi.Dashboard
	err  error
}

type targetSavedMsg struct {
	baseline *kpi.Baseline
	err      error
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.state = dashStateBrowse
		if msg.err != nil {
			m.err = msg.err
			m.status = generationError(msg.err)

			return m, nil
		}

		m.err = nil
		m.dash = msg.dash
		m.refreshTable()

		return m, nil

	case targetSavedMsg:
		if msg.err != nil {
			m.state = dashStateBrowse
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Meta actualizada: %s", FormatQuantity(*msg.baseline.TargetValue, msg.baseline.DisplayUnit()))

		return m, m.loadCmd(msg.baseline.InvoiceType)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-20))

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case dashStateBrowse:
		return m.updateBrowse(msg)
	case dashStateChooseType, dashStateEditTarget:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.state = dashStateLoading
			return m, m.loadCmd(m.selected())
		case "tab":
			m.cycleType()
			return m, nil
		case "g":
			return m.enterChooseType()
		case "e":
			return m.enterEditTarget()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) selected() invoice.Type {
	if m.dash == nil {
		return ""
	}

	return m.dash.SelectedType
}

func (m *DashboardModel) cycleType() {
	if m.dash == nil || len(m.dash.Cards) == 0 {
		return
	}

	idx := slices.IndexFunc(m.dash.Cards, func(c kpi.Card) bool { return c.Type == m.dash.SelectedType })
	m.dash.SelectedType = m.dash.Cards[(idx+1)%len(m.dash.Cards)].Type
	m.refreshTable()
}

func (m DashboardModel) enterChooseType() (tea.Model, tea.Cmd) {
	if m.dash == nil || len(m.dash.EligibleTypes) == 0 {
		m.status = fmt.Sprintf("Se necesitan al menos %d facturas de un tipo para generar la línea base.", kpi.MinInvoicesForBaseline)
		return m, nil
	}

	options := make([]huh.Option[invoice.Type], 0, len(m.dash.EligibleTypes))
	for _, t := range m.dash.EligibleTypes {
		label := fmt.Sprintf("%s (%d facturas)", t, m.dash.InvoiceCounts[t])
		options = append(options, huh.NewOption(label, t))
	}

	*m.formType = m.dash.EligibleTypes[0]

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Type]().
				Title("Tipo de factura").
				Options(options...).
				Value(m.formType),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dashStateChooseType
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) enterEditTarget() (tea.Model, tea.Cmd) {
	if m.dash == nil {
		return m, nil
	}

	card, ok := m.dash.Card(m.dash.SelectedType)
	if !ok {
		m.status = "Genere primero la línea base de este tipo."
		return m, nil
	}

	*m.formTarget = strconv.FormatFloat(card.SuggestedTarget, 'f', 2, 64)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Meta de %s (%s)", card.Type, card.Unit)).
				Description(fmt.Sprintf("Promedio actual: %s", FormatQuantity(card.CurrentAverage, card.Unit))).
				Value(m.formTarget).
				Validate(func(s string) error {
					v, err := parseTarget(s)
					if err != nil {
						return err
					}

					return kpi.ValidateTarget(v, card.CurrentAverage)
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dashStateEditTarget
	m.table.Blur()

	return m, m.form.Init()
}

func parseTarget(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, kpi.ErrTargetNotPositive
	}

	return v, nil
}

func (m DashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.table.Focus()

	if m.state == dashStateChooseType {
		m.state = dashStateGenerating
		m.status = ""

		return m, tea.Batch(m.spinner.Tick, m.generateCmd(*m.formType))
	}

	card, _ := m.dash.Card(m.dash.SelectedType)
	value, _ := parseTarget(*m.formTarget)
	m.state = dashStateLoading

	return m, m.saveTargetCmd(card.BaselineID, value)
}

func (m *DashboardModel) refreshTable() {
	var rows []table.Row

	if m.dash != nil {
		card, _ := m.dash.Card(m.dash.SelectedType)

		for _, e := range m.dash.Evaluations[m.dash.SelectedType] {
			rows = append(rows, table.Row{
				e.Month,
				FormatQuantity(e.Value, card.Unit),
				FormatQuantity(e.Target, card.Unit),
				string(e.Status),
				fmt.Sprintf("%+.2f%%", e.Deviation),
			})
		}
	}

	m.table.SetRows(rows)
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Cargando indicadores...")
	case dashStateGenerating:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Generando línea base, esto puede tardar unos minutos...")
	case dashStateChooseType, dashStateEditTarget:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("Indicadores %d", m.Scope.Year)))

	if m.dash != nil {
		if msg := m.dash.Message(); msg != "" {
			sections = append(sections, mutedStyle.Render(msg))
		}

		if cards := m.viewCards(); cards != "" {
			sections = append(sections, cards)
		}

		if _, ok := m.dash.Card(m.dash.SelectedType); ok {
			sections = append(sections, m.table.View())
		}
	}

	if m.status != "" {
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		sections = append(sections, style.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m DashboardModel) viewCards() string {
	cards := make([]string, 0, len(m.dash.Cards))

	for _, c := range m.dash.Cards {
		style := cardStyle
		if c.Type == m.dash.SelectedType {
			style = selectedCardStyle
		}

		reduction := "Reducción: N/D"
		if c.Reduction != nil {
			reduction = fmt.Sprintf("Reducción: %.2f%%", *c.Reduction)
		}

		cards = append(cards, style.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(string(c.Type)),
			"Promedio actual: "+FormatQuantity(c.CurrentAverage, c.Unit),
			"Línea base: "+FormatQuantity(c.BaselineValue, c.Unit),
			"Meta: "+FormatQuantity(c.Target, c.Unit),
			reduction,
			FormatStatus(c.Status),
		)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func generationError(err error) string {
	switch {
	case errors.Is(err, kpi.ErrGenerationInProgress):
		return "Ya hay una generación en curso para este tipo."
	case errors.Is(err, kpi.ErrNoInvoices):
		return "No hay facturas de este tipo para el año seleccionado."
	}

	return fmt.Sprintf("Error: %v", err)
}

func (m DashboardModel) loadCmd(selected invoice.Type) tea.Cmd {
	scope := m.Scope

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.svc.Dashboard(ctx, scope.CompanyID, scope.Year, selected)

		return dashboardLoadedMsg{dash: d, err: err}
	}
}

func (m DashboardModel) generateCmd(t invoice.Type) tea.Cmd {
	scope := m.Scope
	token := m.token

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		d, err := m.svc.Generate(ctx, kpi.GenerateParams{
			CompanyID: scope.CompanyID,
			Type:      t,
			Year:      scope.Year,
			Token:     token,
		})

		return dashboardLoadedMsg{dash: d, err: err}
	}
}

func (m DashboardModel) saveTargetCmd(baselineID uuid.UUID, value float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.svc.UpdateTarget(ctx, baselineID, value)

		return targetSavedMsg{baseline: b, err: err}
	}
}
