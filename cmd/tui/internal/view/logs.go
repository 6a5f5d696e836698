package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type logsState int

const (
	logsStateBrowse logsState = iota
	logsStateConfirm
)

// LogsModel is the month log screen: a summary of the selected month and its
// entries grouped by day, newest first.
type LogsModel struct {
	CommonModel
	ledger    *ledger.Service
	formatter *format.Formatter

	state  logsState
	month  aggregate.Month
	view   aggregate.MonthlyView
	table  table.Model
	rowIDs []int64

	form      *huh.Form
	confirmed *bool
	pending   entry.Entry

	status string
}

func NewLogsModel(svc *ledger.Service, f *format.Formatter, now time.Time) LogsModel {
	columns := []table.Column{
		{Title: "Date", Width: 18},
		{Title: "Category", Width: 10},
		{Title: "Content", Width: 34},
		{Title: "Payment", Width: 10},
		{Title: "Amount", Width: 16},
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

	m := LogsModel{
		ledger:    svc,
		formatter: f,
		month:     aggregate.MonthOf(now),
		table:     t,
	}
	m.refresh()

	return m
}

func (m LogsModel) Title() string {
	return m.formatter.Text(format.MsgMonthLogs, m.formatter.MonthTitle(m.month))
}

func (m LogsModel) ShortHelp() string {
	if m.state == logsStateConfirm {
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "h/←: prev month | l/→: next month | t: this month | d: delete | Esc: back"
}

func (m LogsModel) Init() tea.Cmd {
	return nil
}

func (m LogsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LedgerChangedMsg:
		m.refresh()
		return m, nil

	case logsDeletedMsg:
		if msg.removed {
			m.status = fmt.Sprintf("Deleted %q.", msg.content)
		}

		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(5, msg.Height-12))
		return m, nil
	}

	switch m.state {
	case logsStateBrowse:
		return m.updateBrowse(msg)
	case logsStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m LogsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "h", "left":
			m.month = m.month.Prev()
			m.status = ""
			m.refresh()

			return m, nil
		case "l", "right":
			m.month = m.month.Next()
			m.status = ""
			m.refresh()

			return m, nil
		case "t":
			m.month = aggregate.MonthOf(time.Now())
			m.refresh()

			return m, nil
		case "d":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LogsModel) enterConfirm() (tea.Model, tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.pending = e
	m.confirmed = new(false)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q (%s)?", e.Content, m.formatter.SignedAmount(e))).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = logsStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m LogsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveConfirm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		pending := m.pending
		confirmed := *m.confirmed
		m = m.leaveConfirm()

		if !confirmed {
			return m, nil
		}

		return m, m.deleteCmd(pending)
	case huh.StateAborted:
		return m.leaveConfirm(), nil
	}

	return m, cmd
}

func (m LogsModel) leaveConfirm() LogsModel {
	m.state = logsStateBrowse
	m.form = nil
	m.confirmed = nil
	m.table.Focus()

	return m
}

func (m LogsModel) selected() (entry.Entry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rowIDs) || m.rowIDs[idx] == 0 {
		return entry.Entry{}, false
	}

	for _, g := range m.view.Groups {
		for _, e := range g.Entries {
			if e.ID == m.rowIDs[idx] {
				return e, true
			}
		}
	}

	return entry.Entry{}, false
}

func (m *LogsModel) refresh() {
	if m.ledger.Loaded() {
		m.view = aggregate.Aggregate(m.ledger.Entries(), m.month)
	} else {
		m.view = aggregate.NotLoaded(m.month)
	}

	rows, ids := buildRows(m.view, m.formatter)
	m.rowIDs = ids
	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// buildRows flattens the day groups into table rows. Every group starts with
// a heading row carrying the day's totals; its id is 0.
func buildRows(view aggregate.MonthlyView, f *format.Formatter) ([]table.Row, []int64) {
	var (
		rows []table.Row
		ids  []int64
	)

	for _, g := range view.Groups {
		totals := f.Text(format.MsgDailyIncome, f.Currency(g.DailyIncome)) + "  " +
			f.Text(format.MsgDailyExpense, f.Currency(g.DailyExpense))

		rows = append(rows, table.Row{f.DateLong(g.Date), "", totals, "", ""})
		ids = append(ids, 0)

		for _, e := range g.Entries {
			rows = append(rows, table.Row{
				"",
				string(e.Category),
				e.Content,
				string(e.Payment),
				f.SignedAmount(e),
			})
			ids = append(ids, e.ID)
		}
	}

	return rows, ids
}

func (m LogsModel) View() string {
	f := m.formatter

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		lipgloss.NewStyle().Bold(true).Render(f.MonthTitle(m.month)),
		" ",
		faintStyle.Render(format.MonthName(m.month)),
	)

	var body string

	switch m.view.Status {
	case aggregate.StatusNotLoaded:
		body = faintStyle.Render(f.Text(format.MsgNotLoaded))
	case aggregate.StatusEmpty:
		body = faintStyle.Render(f.Text(format.MsgEmptyMonth))
	default:
		summary := fmt.Sprintf("%s %s | %s %s | %s %s",
			f.Text(format.MsgTotalCount), activeStyle(f.Text(format.MsgCount, m.view.Count)),
			f.Text(format.MsgTotalIncome), incomeStyle.Render(f.Currency(m.view.TotalIncome)),
			f.Text(format.MsgTotalExpense), expenseStyle.Render(f.Currency(m.view.TotalExpense)),
		)

		tableView := lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())

		body = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(summary),
			tableView,
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
	)

	if m.state == logsStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	if m.ledger.Dirty() {
		content = errorStyle.Render("Last save failed; changes are only in memory.") + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type logsDeletedMsg struct {
	content string
	removed bool
}

func (m LogsModel) deleteCmd(e entry.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return logsDeletedMsg{content: e.Content, removed: m.ledger.Delete(ctx, e.ID)}
	}
}
