package main

import (
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ecokpi/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/ecokpi/internal/config"
	"github.com/MrJamesThe3rd/ecokpi/internal/database"
	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/ecokpi/internal/invoice/store"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
	kpiStore "github.com/MrJamesThe3rd/ecokpi/internal/kpi/store"
	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
	"github.com/MrJamesThe3rd/ecokpi/internal/workflow"
)

type model struct {
	invoiceService *invoice.Service
	kpiService     *kpi.Service
	importService  *importer.Service
	workflowToken  string

	scope       view.Scope
	currentView View

	scopeView     view.ScopeModel
	dashboardView view.DashboardModel
	listView      view.ListModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewScope     View = 0
	ViewMenu      View = 1
	ViewDashboard View = 2
	ViewList      View = 3
	ViewImport    View = 4
	ViewExport    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Server.Timeout)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	workflowClient := workflow.NewClient(workflow.Config{
		BaseURL:      cfg.Workflow.BaseURL,
		ExtractPath:  cfg.Workflow.ExtractPath,
		GeneratePath: cfg.Workflow.GeneratePath,
		Timeout:      cfg.Workflow.Timeout,
	}, metrics.New())

	invSvc := invoice.NewService(invoiceStore.New(db), workflowClient)

	return model{
		invoiceService: invSvc,
		kpiService:     kpi.NewService(kpiStore.New(db), invSvc, workflowClient),
		importService:  importer.NewService(invSvc),
		workflowToken:  cfg.Workflow.ServiceToken,
		currentView:    ViewScope,
		scopeView:      view.NewScopeModel(view.Scope{}),
	}
}

func (m model) Init() tea.Cmd {
	return m.scopeView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.kpiService, m.scope, m.workflowToken)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.invoiceService, m.scope, m.workflowToken)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.invoiceService, m.scope)

				return m, m.exportView.Init()
			case "c":
				m.currentView = ViewScope
				m.scopeView = view.NewScopeModel(m.scope)

				return m, m.scopeView.Init()
			}
		}
	case view.ScopeSelectedMsg:
		m.scope = msg.Scope
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewScope:
		var newModel tea.Model
		newModel, cmd = m.scopeView.Update(msg)
		m.scopeView = newModel.(view.ScopeModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewScope:
		return m.scopeView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"EcoKPI\n" +
				lipgloss.NewStyle().Faint(true).Render(m.scope.CompanyID.String()+" | "+strconv.Itoa(m.scope.Year)) + "\n\n" +
				"1. Indicadores\n" +
				"2. Historial de facturas\n" +
				"3. Importar CSV\n" +
				"4. Matriz de indicadores\n\n" +
				"c. Cambiar empresa o año\n" +
				"q. Salir",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewList:
		return m.listView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Vista desconocida"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
