package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bye2money/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bye2money/internal/app"
	"github.com/MrJamesThe3rd/bye2money/internal/config"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type model struct {
	app *app.App

	currentView View

	logsView   view.LogsModel
	inputView  view.InputModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewLogs   View = 1
	ViewInput  View = 2
	ViewImport View = 3
	ViewExport View = 4
)

func initialModel(a *app.App) model {
	now := time.Now()

	return model{
		app:         a,
		currentView: ViewMenu,
		logsView:    view.NewLogsModel(a.Ledger, a.Formatter, now),
		inputView:   view.NewInputModel(a.Ledger, a.Factory, a.Formatter, now),
		importView:  view.NewImportModel(a.Importer),
		exportView:  view.NewExportModel(a.Export, a.Formatter, now),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			now := time.Now()

			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewLogs
				return m, m.logsView.Init()
			case "2":
				m.currentView = ViewInput
				m.inputView = view.NewInputModel(m.app.Ledger, m.app.Factory, m.app.Formatter, now)

				return m, m.inputView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Importer)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.app.Formatter, now)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.LedgerChangedMsg:
		// The log screen follows the ledger even while another screen is
		// in front.
		newModel, _ := m.logsView.Update(msg)
		m.logsView = newModel.(view.LogsModel)

		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		var newModel tea.Model
		newModel, cmd = m.logsView.Update(msg)
		m.logsView = newModel.(view.LogsModel)
	case ViewInput:
		var newModel tea.Model
		newModel, cmd = m.inputView.Update(msg)
		m.inputView = newModel.(view.InputModel)
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
	var (
		title string
		help  string
		body  string
	)

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + "\n\n" +
				"1. Month Logs\n" +
				"2. New Entry\n" +
				"3. Import Entries\n" +
				"4. Export Month\n\n" +
				"q. Quit",
		)
	case ViewLogs:
		title, help, body = m.logsView.Title(), m.logsView.ShortHelp(), m.logsView.View()
	case ViewInput:
		title, help, body = m.inputView.Title(), m.inputView.ShortHelp(), m.inputView.View()
	case ViewImport:
		title, help, body = m.importView.Title(), m.importView.ShortHelp(), m.importView.View()
	case ViewExport:
		title, help, body = m.exportView.Title(), m.exportView.ShortHelp(), m.exportView.View()
	default:
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(title),
		body,
		lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help),
	)
}

func main() {
	_ = godotenv.Load()

	// The terminal belongs to the UI; logs go to a file.
	if f, err := os.OpenFile("bye2money-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
		defer f.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start ledger", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a))

	unsubscribe := a.Ledger.Subscribe(func(c ledger.Change) {
		p.Send(view.LedgerChangedMsg{Change: c})
	})
	defer unsubscribe()

	go func() {
		if err := a.Run(ctx); err != nil {
			slog.Error("stopped receiving ledger changes", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
