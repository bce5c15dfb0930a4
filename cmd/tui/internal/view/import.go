package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStatePreview
	importStateImporting
	importStateResult
)

// ImportModel backfills invoices from a spreadsheet export.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	preview    table.Model

	path  string
	batch *importer.Batch

	status string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Sede", Width: 38},
			{Title: "Tipo", Width: 10},
			{Title: "Año", Width: 6},
			{Title: "Campos", Width: 40},
		}),
		table.WithHeight(10),
	)

	return ImportModel{
		importService: svc,
		filePicker:    fp,
		preview:       t,
	}
}

func (m ImportModel) Title() string { return "Importar CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: importar | Esc: cancelar"
	}

	return "Esc: volver | Enter: seleccionar"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			if msg.Type == tea.KeyEnter {
				m.state = importStateImporting
				m.status = fmt.Sprintf("Importando %d facturas...", len(m.batch.Rows))

				return m, m.importCmd()
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)

			return m, cmd
		}

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.batch = msg.batch
		m.refreshPreview()
		m.state = importStatePreview

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Se importaron %d facturas (%s, formato %s).",
			len(msg.result.Invoices), msg.result.Charset, msg.result.Profile)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.batch = nil
		m.err = nil
		m.status = ""

		return m, nil
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m *ImportModel) refreshPreview() {
	rows := make([]table.Row, 0, len(m.batch.Rows))

	for _, p := range m.batch.Rows {
		rows = append(rows, table.Row{
			p.HeadquartersID.String(),
			string(p.Type),
			fmt.Sprint(p.Year),
			fmt.Sprint(len(p.Data)),
		})
	}

	m.preview.SetRows(rows)
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateFilePick:
		return style.Render("Selecciona el archivo a importar:\n\n" + m.filePicker.View())

	case importStatePreview:
		delimiter := string(m.batch.Delimiter)
		if m.batch.Delimiter == '\t' {
			delimiter = "tab"
		}

		info := mutedStyle.Render(strings.Join([]string{
			"Archivo: " + filepath.Base(m.path),
			"Codificación: " + string(m.batch.Charset),
			"Formato: " + m.batch.Profile,
			"Separador: " + delimiter,
		}, "  "))

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(fmt.Sprintf("%d facturas listas para importar", len(m.batch.Rows))),
			info,
			"",
			m.preview.View(),
		))

	case importStateImporting:
		return style.Render(m.status)

	case importStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(m.status) + "\n\n(Esc para volver)")
		}

		return style.Render(successStyle.Render(m.status) + "\n\n(Esc para volver)")
	}

	return ""
}

// Messages

type previewMsg struct {
	batch *importer.Batch
	err   error
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		batch, err := m.importService.Parse(f)
		if err != nil {
			return previewMsg{err: err}
		}

		if len(batch.Rows) == 0 {
			return previewMsg{err: importer.ErrEmptyFile}
		}

		return previewMsg{batch: batch}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	path := m.path

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, f, filepath.Base(path))
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
