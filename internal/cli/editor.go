package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/wizard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive section editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, app)
		},
	}
}

func runEditor(cmd *cobra.Command, app *App) error {
	p := tea.NewProgram(newEditorModel(app), tea.WithOutput(cmd.OutOrStdout()))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(editorModel); ok && m.fatal != nil {
		return m.fatal
	}
	return nil
}

// ── keys ─────────────────────────────────────────────────────────────────────

type editorKeys struct {
	Next, Prev, Edit, Save, Complete, Submit, New, Quit key.Binding
}

var keys = editorKeys{
	Next:     key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next")),
	Prev:     key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev")),
	Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "mark complete")),
	Submit:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "submit")),
	New:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new application")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k editorKeys) short() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Edit, k.Save, k.Complete, k.Submit, k.New, k.Quit}
}

// ── messages ─────────────────────────────────────────────────────────────────

type sessionLoadedMsg struct {
	session *wizard.Session
	err     error
}

// actionDoneMsg reports a persistence call that ran off the update loop.
type actionDoneMsg struct {
	notice string
	err    error
}

// ── model ────────────────────────────────────────────────────────────────────

// editorModel walks the sections of one application. Persistence runs in
// Cmds; while one is pending the model only renders the last snapshot.
type editorModel struct {
	app     *App
	session *wizard.Session

	status formatter.WizardStatus
	busy   string

	form    *huh.Form
	binding *sectionForm

	confirming bool
	notice     string
	warns      []string
	err        error

	// fatal ends the program with an error, e.g. rejected credentials.
	fatal    error
	quitting bool
}

func newEditorModel(app *App) editorModel {
	return editorModel{app: app, busy: "Loading application"}
}

func (m editorModel) Init() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		s := a.newSession()
		return sessionLoadedMsg{session: s, err: s.Resume(context.Background())}
	}
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		m.busy = ""
		m.session = msg.session
		if msg.err != nil {
			if !wizard.IsWarning(msg.err) || errors.Is(msg.err, app.ErrUnauthenticated) {
				m.fatal = msg.err
				m.quitting = true
				return m, tea.Quit
			}
			m.warns = warnings(msg.err)
		}
		m.refresh()
		return m, nil

	case actionDoneMsg:
		m.busy = ""
		m.notice = msg.notice
		m.warns, m.err = nil, nil
		if msg.err != nil {
			if wizard.IsWarning(msg.err) {
				m.warns = warnings(msg.err)
			} else {
				m.notice = ""
				m.err = msg.err
			}
		}
		m.refresh()
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, keys.Quit) && keyMsg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.busy != "" || m.session == nil {
		return m, nil
	}
	if m.confirming {
		return m.updateConfirm(keyMsg)
	}
	return m.updateKeys(keyMsg)
}

func (m editorModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	m.err = nil

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Next):
		return m.run("Saving progress", func(ctx context.Context) (string, error) {
			err := s.GoNext(ctx)
			if err != nil && !wizard.IsWarning(err) {
				return "", err
			}
			return "Moved to " + s.Current().Name(), err
		})

	case key.Matches(msg, keys.Prev):
		s.GoPrevious()
		m.notice = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, keys.Edit):
		if s.Draft().Status == domain.DraftSubmitted {
			m.err = wizard.ErrSubmitted
			return m, nil
		}
		id := s.Current()
		payload, err := s.Sections().Payload(id)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.binding = bindSection(id, payload)
		m.form = m.binding.form()
		return m, m.form.Init()

	case key.Matches(msg, keys.Save):
		return m.save()

	case key.Matches(msg, keys.Complete):
		id := s.Current()
		return m.run("Marking complete", func(ctx context.Context) (string, error) {
			return id.Name() + " marked complete", s.MarkOptionalComplete(ctx, id)
		})

	case key.Matches(msg, keys.Submit):
		if !s.AtLast() {
			m.err = wizard.ErrNotLastStep
			return m, nil
		}
		m.confirming = true
		return m, nil

	case key.Matches(msg, keys.New):
		s.Reset()
		return m.run("Creating application", func(ctx context.Context) (string, error) {
			err := s.Start(ctx)
			return "Started application " + s.Draft().RemoteID, err
		})
	}

	if r := msg.Runes; len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
		id, _ := parseSection(string(r))
		if err := s.GoTo(id); err != nil {
			m.err = err
			return m, nil
		}
		m.notice = ""
		m.refresh()
	}
	return m, nil
}

func (m editorModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirming = false
	if msg.String() != "y" && msg.String() != "Y" {
		m.notice = "Submission cancelled"
		return m, nil
	}
	s := m.session
	return m.run("Submitting", func(ctx context.Context) (string, error) {
		res, err := s.SubmitAll(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	})
}

func (m editorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form, m.binding = nil, nil
		m.notice = "Edit cancelled"
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.form, m.binding = nil, nil
		m.notice = "Edit cancelled"
		return m, nil
	case huh.StateCompleted:
		binding := m.binding
		m.form, m.binding = nil, nil
		var applyErr error
		err := m.session.Edit(binding.id, func(sections *domain.Sections) {
			payload, err := sections.Payload(binding.id)
			if err != nil {
				applyErr = err
				return
			}
			applyErr = binding.apply(payload)
		})
		if err == nil {
			err = applyErr
		}
		if err != nil {
			m.err = err
			m.refresh()
			return m, nil
		}
		return m.save()
	}
	return m, cmd
}

func (m editorModel) save() (tea.Model, tea.Cmd) {
	s := m.session
	return m.run("Saving", func(ctx context.Context) (string, error) {
		err := s.Save(ctx)
		return "Saved " + s.Current().Name(), err
	})
}

// run marks the model busy and performs fn in a Cmd.
func (m editorModel) run(label string, fn func(ctx context.Context) (string, error)) (tea.Model, tea.Cmd) {
	m.busy = label
	m.notice = ""
	return m, func() tea.Msg {
		notice, err := fn(context.Background())
		return actionDoneMsg{notice: notice, err: err}
	}
}

func (m *editorModel) refresh() {
	if m.session != nil {
		m.status = wizardStatus(m.session)
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Header("grantdesk"))
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.form.View())
		if len(m.binding.lists) > 0 {
			fmt.Fprintf(&b, "\n%s\n", formatter.Dim("Lists ("+strings.Join(m.binding.lists, ", ")+") are edited with 'grantdesk section set'."))
		}
		b.WriteString("\n" + formatter.Dim("esc cancel"))
		return b.String()
	}

	if m.session != nil {
		b.WriteString(formatter.FormatWizardStatus(m.status))
		b.WriteString("\n")
	}
	switch {
	case m.busy != "":
		fmt.Fprintf(&b, "%s %s…\n", formatter.StyleYellow.Render("⟳"), m.busy)
	case m.confirming:
		fmt.Fprintf(&b, "%s\n", formatter.StyleHeader.Render("Submit this application? It cannot be edited afterwards. (y/N)"))
	case m.err != nil:
		fmt.Fprintf(&b, "%s %s\n", formatter.StyleRed.Render("✗"), FormatError(m.err))
	case m.notice != "":
		fmt.Fprintf(&b, "%s %s\n", formatter.StyleGreen.Render("✔"), m.notice)
	}
	if len(m.warns) > 0 {
		b.WriteString(formatter.FormatWarnings(m.warns))
	}

	help := make([]string, 0, len(keys.short()))
	for _, k := range keys.short() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n" + formatter.Dim(strings.Join(help, " · ")))
	return b.String()
}
