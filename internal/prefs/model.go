package prefs

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/capture"
	"github.com/1broseidon/screenhop/internal/settings"
)

// Store is the settings API the preferences UI edits.
type Store interface {
	Path() string
	Keys() []string
	Summary(key string) string
	Accelerator(key string) (string, error)
	IsDefault(key string) bool
	SetStringList(key string, values []string) error
	SetAccelerator(key, a string) error
	Reset(key string) error
	Reload() error
}

// Daemon is the running daemon, if any.
type Daemon interface {
	Ping() error
	Reload() error
}

type settingChangedMsg struct{ key string }

type reloadedMsg struct{ err error }

type editorDoneMsg struct{ err error }

type row struct {
	key       string
	summary   string
	accel     string
	isDefault bool
	err       error
}

// model is the root bubbletea model for the shortcut editor.
type model struct {
	store  Store
	daemon Daemon
	keys   keyMap
	help   help.Model

	rows   []row
	cursor int

	// Capture overlay; nil when closed.
	overlay *captureOverlay

	// Manual entry form; nil when closed.
	form      *huh.Form
	formKey   string
	formValue *string

	daemonRunning bool
	status        string
	statusErr     bool

	width  int
	height int
}

func newModel(store Store, daemon Daemon) model {
	m := model{
		store:  store,
		daemon: daemon,
		keys:   rootKeyMap,
		help:   help.New(),
	}
	m.refreshRows()
	if daemon != nil && daemon.Ping() == nil {
		m.daemonRunning = true
	}
	return m
}

func (m *model) refreshRows() {
	keys := m.store.Keys()
	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		a, err := m.store.Accelerator(k)
		rows = append(rows, row{
			key:       k,
			summary:   m.store.Summary(k),
			accel:     a,
			isDefault: m.store.IsDefault(k),
			err:       err,
		})
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.form != nil {
			m.form = m.form.WithWidth(boxWidth(m.width, 64) - 6)
		}
		return m, nil
	case settingChangedMsg:
		m.refreshRows()
		return m, nil
	case reloadedMsg:
		if msg.err != nil {
			m.daemonRunning = false
			return m, nil
		}
		m.daemonRunning = true
		if !m.statusErr && m.status != "" {
			m.status += " (daemon reloaded)"
		}
		return m, nil
	case editorDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("editor failed: %v", msg.err), true)
			return m, nil
		}
		if err := m.store.Reload(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.refreshRows()
		m.setStatus("settings file reloaded", false)
		return m, m.reloadDaemon()
	}

	if m.overlay != nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.updateCapture(k)
		}
		return m, nil
	}
	if m.form != nil {
		return m.updateForm(msg)
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		return m.updateList(k)
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Capture):
		if r, ok := m.selected(); ok {
			m.overlay = newCaptureOverlay(r.key, r.summary)
			m.setStatus("", false)
		}
	case key.Matches(msg, m.keys.Edit):
		if r, ok := m.selected(); ok {
			return m.startForm(r)
		}
	case key.Matches(msg, m.keys.Disable):
		if r, ok := m.selected(); ok {
			if err := m.store.SetAccelerator(r.key, ""); err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			cmd := m.saved(r.key)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Reset):
		if r, ok := m.selected(); ok {
			if err := m.store.Reset(r.key); err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			cmd := m.saved(r.key)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Open):
		return m, openEditor(m.store.Path())
	}
	return m, nil
}

// updateCapture feeds key presses to the open capture session. Only ctrl+c
// escapes it; everything else is a candidate shortcut.
func (m model) updateCapture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	ev, ok := keyEventFromMsg(msg)
	if !ok {
		return m, nil
	}

	session := m.overlay.session
	out := session.Handle(ev)
	if !out.Closes() {
		return m, nil
	}
	m.overlay = nil

	if out.Action == capture.Cancel {
		m.setStatus("unchanged", false)
		return m, nil
	}
	if err := session.Commit(m.store, out); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	cmd := m.saved(session.Binding())
	return m, cmd
}

func (m model) startForm(r row) (tea.Model, tea.Cmd) {
	value := r.accel
	m.formKey = r.key
	m.formValue = &value
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("accelerator").
				Title(r.summary).
				Description("Accelerator such as <Alt><Super>Right. Leave empty to disable.").
				Value(m.formValue).
				Validate(validateAccelerator),
		),
	).WithWidth(boxWidth(m.width, 64) - 6).WithShowHelp(true).WithShowErrors(true)
	m.setStatus("", false)
	return m, m.form.Init()
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.form = nil
			m.setStatus("unchanged", false)
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		value := strings.TrimSpace(*m.formValue)
		binding := m.formKey
		m.form = nil
		if value != "" {
			a, err := accel.Parse(value)
			if err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			value = a.Name()
		}
		if err := m.store.SetAccelerator(binding, value); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		cmd := m.saved(binding)
		return m, cmd
	case huh.StateAborted:
		m.form = nil
		m.setStatus("unchanged", false)
		return m, nil
	}
	return m, cmd
}

func validateAccelerator(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := accel.Parse(s)
	return err
}

func (m model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// saved refreshes the rows after a write to binding and asks the daemon to
// pick the change up.
func (m *model) saved(binding string) tea.Cmd {
	m.refreshRows()
	label := ""
	for _, r := range m.rows {
		if r.key == binding {
			label = fmt.Sprintf("%s: %s", r.summary, settings.DisplayLabel(r.accel))
		}
	}
	m.setStatus(label, false)
	return m.reloadDaemon()
}

func (m model) reloadDaemon() tea.Cmd {
	if m.daemon == nil {
		return nil
	}
	d := m.daemon
	return func() tea.Msg {
		return reloadedMsg{err: d.Reload()}
	}
}

func openEditor(path string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonRunning, m.store.Path(), m.width)
	title := titleStyle.Render("Shortcuts")
	helpBar := m.renderFooter()

	used := lipgloss.Height(statusBar) + lipgloss.Height(title) + lipgloss.Height(helpBar)
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.overlay != nil:
		content = m.overlay.View(m.width, contentHeight)
	case m.form != nil:
		box := overlayStyle.Width(boxWidth(m.width, 64)).Render(m.form.View())
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, box)
	default:
		content = lipgloss.NewStyle().Height(contentHeight).Render(m.renderRows())
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, title, content, helpBar)
}

func (m model) renderRows() string {
	var lines []string
	for i, r := range m.rows {
		var label string
		switch {
		case r.err != nil:
			label = errStyle.Render("invalid: " + r.err.Error())
		case r.accel == "":
			label = disabledStyle.Render(settings.DisplayLabel(r.accel))
		default:
			label = labelStyle.Render(settings.DisplayLabel(r.accel))
		}
		if r.isDefault {
			label += " " + defaultStyle.Render("(default)")
		}

		style := rowStyle
		cursor := "  "
		if i == m.cursor {
			style = selectedRowStyle
			cursor = "> "
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%-42s", cursor, r.summary))+" "+label)
	}
	return strings.Join(lines, "\n")
}

func (m model) renderFooter() string {
	var status string
	if m.status != "" {
		if m.statusErr {
			status = errStyle.Render("Error: "+m.status) + "\n"
		} else {
			status = okStyle.Render(m.status) + "\n"
		}
	}
	return status + m.help.View(m.keys)
}
