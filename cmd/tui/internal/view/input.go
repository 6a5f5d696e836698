package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

// InputModel is the entry form. After each successful submission the form
// keeps the date and sign and clears the rest; a failed one keeps everything.
type InputModel struct {
	CommonModel
	ledger    *ledger.Service
	factory   *entry.Factory
	formatter *format.Formatter

	// draft is shared with the form fields, which write through it.
	draft  *entry.Draft
	form   *huh.Form
	saving bool

	status string
	err    error
}

func NewInputModel(svc *ledger.Service, factory *entry.Factory, f *format.Formatter, now time.Time) InputModel {
	d := entry.NewDraft(now)

	m := InputModel{
		ledger:    svc,
		factory:   factory,
		formatter: f,
		draft:     &d,
	}
	m.form = m.buildForm()

	return m
}

func (m InputModel) Title() string { return "New Entry" }

func (m InputModel) ShortHelp() string {
	return "Tab/Enter: next field | Esc: back"
}

func (m InputModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case inputSavedMsg:
		m.saving = false

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		m.err = nil
		m.status = fmt.Sprintf("Saved %s %s.", msg.entry.Content, m.formatter.SignedAmount(msg.entry))

		next := m.draft.Reset()
		m.draft = &next
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		d := m.draft.Filtered()
		if !entry.IsValidDraft(d) {
			// Not submittable yet: reopen the form with what was typed.
			m.form = m.buildForm()
			return m, m.form.Init()
		}

		m.saving = true

		return m, m.saveCmd(d)
	case huh.StateAborted:
		return m, Back
	}

	return m, cmd
}

func (m InputModel) buildForm() *huh.Form {
	d := m.draft

	signOptions := []huh.Option[entry.Sign]{
		huh.NewOption("지출 (-)", entry.SignExpense),
		huh.NewOption("수입 (+)", entry.SignIncome),
	}

	paymentOptions := make([]huh.Option[entry.Payment], 0, len(entry.Payments))
	for _, p := range entry.Payments {
		paymentOptions = append(paymentOptions, huh.NewOption(string(p), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(entry.DateLength).
				Value(&d.Date).
				Validate(validateDate),

			huh.NewSelect[entry.Sign]().
				Key("sign").
				Title("Sign").
				Options(signOptions...).
				Value(&d.Sign),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12,000").
				Value(&d.Amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("content").
				Title("Content").
				CharLimit(entry.MaxContentLength).
				Value(&d.Content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("content cannot be empty")
					}

					return nil
				}),

			huh.NewSelect[entry.Payment]().
				Key("payment").
				Title("Payment").
				Options(paymentOptions...).
				Value(&d.Payment),

			huh.NewSelect[entry.Category]().
				Key("category").
				Title("Category").
				OptionsFunc(func() []huh.Option[entry.Category] {
					cats := entry.CategoriesFor(d.Sign)
					opts := make([]huh.Option[entry.Category], 0, len(cats))

					for _, c := range cats {
						opts = append(opts, huh.NewOption(string(c), c))
					}

					return opts
				}, &d.Sign).
				Value(&d.Category),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, entry.FilterDate(s)); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}

	return nil
}

func validateAmount(s string) error {
	digits := entry.FilterAmount(s)
	if len(digits) < len(strings.Map(keepDigit, s)) {
		return fmt.Errorf("at most %d digits", entry.MaxAmountDigits)
	}

	if (entry.Draft{Amount: digits}).ParsedAmount() <= 0 {
		return errors.New("amount must be greater than zero")
	}

	return nil
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}

	return -1
}

func (m InputModel) View() string {
	preview := ""
	if m.draft.Amount != "" {
		preview = faintStyle.Render("= " + entry.FormatDigits(entry.FilterAmount(m.draft.Amount)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.form.View(),
		preview,
	)

	if m.status != "" {
		style := okStyle
		if m.err != nil {
			style = errorStyle
		}

		content = style.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type inputSavedMsg struct {
	entry entry.Entry
	err   error
}

func (m InputModel) saveCmd(d entry.Draft) tea.Cmd {
	return func() tea.Msg {
		e, err := m.factory.Create(d)
		if err != nil {
			return inputSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ledger.Append(ctx, e); err != nil {
			return inputSavedMsg{err: err}
		}

		return inputSavedMsg{entry: e}
	}
}
