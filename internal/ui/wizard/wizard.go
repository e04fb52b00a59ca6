// Package wizard provides the Bubble Tea view for the draft-registration
// wizard: one page of question groups at a time, with debounced autosave
// and a validity status bar driven by the draft manager's event stream.
package wizard

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"regdraft/internal/pubsub"
	"regdraft/internal/registration"
	"regdraft/internal/schema"
	"regdraft/internal/ui/markdown"
	"regdraft/internal/ui/styles"
	wiz "regdraft/internal/wizard"
)

// saveStatus tracks what the status bar says about persistence.
type saveStatus int

const (
	saveIdle saveStatus = iota
	savePending
	saveInFlight
	saveDone
	saveFailed
)

// field is one interactive question group on the current page.
type field struct {
	group *schema.Group
	input textinput.Model // text-style inputs
	opt   int             // selected option index, -1 when none
}

func (f *field) isSelect() bool {
	return len(f.group.Options) > 0
}

// submitResultMsg reports the outcome of a submission attempt.
type submitResultMsg struct{ err error }

// Options configures the wizard view.
type Options struct {
	// MarkdownStyle selects the help text rendering style.
	MarkdownStyle string
	// ShowStatusBar toggles the bottom status bar.
	ShowStatusBar bool
	// ShowHelpText toggles rendering of block help text under questions.
	ShowHelpText bool
}

// Model is the wizard's Bubble Tea model.
type Model struct {
	mgr  *wiz.Manager
	opts Options

	listener *pubsub.ContinuousListener[wiz.Event]
	ctx      context.Context
	cancel   context.CancelFunc

	fields []field
	focus  int

	md *markdown.Renderer

	width  int
	height int

	status    saveStatus
	statusErr string
	submitted bool
	valid     bool
}

var _ tea.Model = (*Model)(nil)

// New builds the wizard view over an initialized manager.
func New(mgr *wiz.Manager, opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		mgr:      mgr,
		opts:     opts,
		listener: pubsub.NewContinuousListener(ctx, mgr.Broker()),
		ctx:      ctx,
		cancel:   cancel,
		width:    80,
		valid:    mgr.IsValid(),
	}
	m.md, _ = markdown.NewWithStyle(m.width-4, opts.MarkdownStyle)
	m.buildFields()
	return m
}

// Close releases the event subscription. The manager itself is owned by
// the caller.
func (m *Model) Close() {
	m.cancel()
}

// Init starts the manager event listener.
func (m *Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// buildFields rebuilds the interactive fields for the current page,
// seeding each one from the page manager's staged values.
func (m *Model) buildFields() {
	m.fields = nil
	m.focus = 0

	pm := m.mgr.CurrentPageManager()
	if pm == nil {
		return
	}

	for _, group := range pm.Groups() {
		if group.Input == nil {
			// Label-only groups carry no response; nothing to edit.
			continue
		}
		key := group.ResponseKey()
		f := field{group: group, opt: -1}

		if f.isSelect() {
			if key != "" {
				if v, ok := pm.Response(key).(string); ok {
					for i, opt := range group.OptionValues() {
						if opt == v {
							f.opt = i
							break
						}
					}
				}
			}
		} else {
			ti := textinput.New()
			ti.Placeholder = group.Input.ExampleText
			ti.Prompt = ""
			ti.Width = max(m.width-10, 10)
			if key != "" {
				if v, ok := pm.Response(key).(string); ok {
					ti.SetValue(v)
				}
			}
			f.input = ti
		}
		m.fields = append(m.fields, f)
	}

	m.focusField(0)
}

func (m *Model) focusField(i int) {
	for j := range m.fields {
		m.fields[j].input.Blur()
	}
	if len(m.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(m.fields) - 1
	}
	m.focus = i % len(m.fields)
	if !m.fields[m.focus].isSelect() {
		m.fields[m.focus].input.Focus()
	}
}

// stage pushes a field's value into the page manager and arms autosave.
func (m *Model) stage(f *field, value registration.Value) {
	pm := m.mgr.CurrentPageManager()
	if pm == nil {
		return
	}
	key := f.group.ResponseKey()
	if key == "" {
		return
	}
	pm.SetResponse(key, value)
	m.mgr.OnInput()
	m.valid = m.mgr.IsValid()
	if m.status == saveIdle || m.status == saveDone {
		m.status = savePending
	}
}

func (m *Model) gotoPage(n int) {
	if n < 1 || n > m.mgr.LastPage() {
		return
	}
	m.mgr.SetCurrentPage(n)
	m.buildFields()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.md, _ = markdown.NewWithStyle(max(msg.Width-4, 20), m.opts.MarkdownStyle)
		for i := range m.fields {
			m.fields[i].input.Width = max(msg.Width-10, 10)
		}
		return m, nil

	case pubsub.Event[wiz.Event]:
		m.applyEvent(msg)
		return m, m.listener.Listen()

	case submitResultMsg:
		if msg.err != nil {
			m.status = saveFailed
			m.statusErr = msg.err.Error()
		} else {
			m.submitted = true
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applyEvent(ev pubsub.Event[wiz.Event]) {
	switch ev.Type {
	case wiz.EventSaveScheduled:
		m.status = savePending
	case wiz.EventSaveStarted:
		m.status = saveInFlight
	case wiz.EventSaveCompleted:
		m.status = saveDone
		m.statusErr = ""
	case wiz.EventSaveFailed:
		m.status = saveFailed
		m.statusErr = ev.Payload.Err
	case wiz.EventValidityChange:
		m.valid = ev.Payload.Valid
	case wiz.EventSubmitted:
		m.submitted = true
	case wiz.EventSubmitFailed:
		m.status = saveFailed
		m.statusErr = ev.Payload.Err
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "down":
		m.focusField(m.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return m, nil

	case "pgdown", "ctrl+n":
		m.gotoPage(m.mgr.CurrentPage() + 1)
		return m, nil

	case "pgup", "ctrl+p":
		m.gotoPage(m.mgr.CurrentPage() - 1)
		return m, nil

	case "ctrl+s":
		mgr := m.mgr
		ctx := m.ctx
		return m, func() tea.Msg {
			return submitResultMsg{err: mgr.SubmitDraftRegistration(ctx)}
		}

	case "left", "right", "enter", " ":
		if f := m.focusedField(); f != nil && f.isSelect() {
			m.cycleOption(f, msg.String() != "left")
			return m, nil
		}
	}

	// Forward everything else to the focused text input.
	f := m.focusedField()
	if f == nil || f.isSelect() {
		return m, nil
	}
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		m.stage(f, f.input.Value())
	}
	return m, cmd
}

func (m *Model) focusedField() *field {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focus]
}

// cycleOption advances (or rewinds) a select group's choice and stages it.
func (m *Model) cycleOption(f *field, forward bool) {
	opts := f.group.OptionValues()
	if len(opts) == 0 {
		return
	}
	if forward {
		f.opt = (f.opt + 1) % len(opts)
	} else {
		f.opt--
		if f.opt < 0 {
			f.opt = len(opts) - 1
		}
	}
	m.stage(f, opts[f.opt])
}

// View renders the current page.
func (m *Model) View() string {
	if m.submitted {
		return styles.PageHeadingStyle.Render("Registration submitted") + "\n\n" +
			styles.StatusBarStyle.Render("This draft has been submitted and can no longer be edited.") + "\n"
	}

	pm := m.mgr.CurrentPageManager()
	if pm == nil {
		return styles.ErrorStyle.Render("No pages to display")
	}

	var b strings.Builder
	b.WriteString(styles.PageHeadingStyle.Render(pm.PageHeadingText()))
	b.WriteString("\n\n")

	sectionWidth := max(m.width-4, 24)
	for i := range m.fields {
		b.WriteString(m.renderField(i, sectionWidth))
		b.WriteString("\n")
	}

	if m.opts.ShowStatusBar {
		b.WriteString("\n")
		b.WriteString(m.statusBar())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderField(i, width int) string {
	f := &m.fields[i]
	focused := i == m.focus

	title := f.group.LabelText()
	hint := ""
	if f.group.Required() {
		hint = "required"
	}

	var rows []string
	if f.isSelect() {
		for j, opt := range f.group.OptionValues() {
			prefix := "  "
			if focused && j == f.opt {
				prefix = styles.SelectionIndicatorStyle.Render("> ")
			} else if j == f.opt {
				prefix = "* "
			}
			rows = append(rows, " "+prefix+opt)
		}
	} else {
		rows = append(rows, " "+f.input.View())
	}

	section := styles.RenderFormSection(rows, title, hint, width, focused, styles.BorderHighlightFocusColor)

	if m.opts.ShowHelpText && f.group.Input != nil && f.group.Input.HelpText != "" && m.md != nil {
		if help, err := m.md.Render(f.group.Input.HelpText); err == nil {
			help = strings.TrimRight(help, "\n")
			section += "\n" + lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(help)
		}
	}
	return section
}

func (m *Model) statusBar() string {
	parts := []string{
		styles.FormatPageIndicator(m.mgr.CurrentPage()-1, m.mgr.LastPage()),
	}

	if m.valid {
		parts = append(parts, styles.SaveOKStyle.Render(styles.FormatValidity(true)+" complete"))
	} else {
		parts = append(parts, styles.SaveFailedStyle.Render(styles.FormatValidity(false)+" incomplete"))
	}

	switch m.status {
	case savePending:
		parts = append(parts, styles.SavePendingStyle.Render("unsaved edits"))
	case saveInFlight:
		parts = append(parts, styles.SavePendingStyle.Render("saving..."))
	case saveDone:
		parts = append(parts, styles.SaveOKStyle.Render("saved"))
	case saveFailed:
		msg := "save failed"
		if m.statusErr != "" {
			msg += ": " + styles.TruncateString(m.statusErr, 40)
		}
		parts = append(parts, styles.SaveFailedStyle.Render(msg))
	}

	parts = append(parts, styles.StatusBarStyle.Render("pgup/pgdn pages · tab fields · ctrl+s submit"))
	return styles.StatusBarStyle.Render(strings.Join(parts, "  "))
}
