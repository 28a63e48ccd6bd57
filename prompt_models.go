package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Yes    key.Binding
	No     key.Binding
	Submit key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("space", " ", "x"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark all"),
		),
		None: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "clear"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// bindings adapts a list of key bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func answeredView(title, answer string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, ui.title.Render("? "+title), " ", ui.accent.Render(answer)) + "\n"
}

type selectModel struct {
	title   string
	options []string
	cursor  int
	state   promptOutcome
	keys    keyMap
	help    help.Model
}

func newSelectModel(title string, options []string) selectModel {
	return selectModel{title: title, options: options, keys: newKeyMap(), help: help.New()}
}

func (m selectModel) outcome() promptOutcome { return m.state }

func (m selectModel) chosen() string {
	if m.cursor < 0 || m.cursor >= len(m.options) {
		return ""
	}
	return m.options[m.cursor]
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.state = promptInterrupted
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.state = promptCancelled
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Submit):
		if len(m.options) > 0 {
			m.state = promptDone
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	switch m.state {
	case promptDone:
		return answeredView(m.title, m.chosen())
	case promptCancelled, promptInterrupted:
		return answeredView(m.title, ui.muted.Render("cancelled"))
	}

	var b strings.Builder
	b.WriteString(ui.title.Render("? "+m.title) + "\n")
	for i, option := range m.options {
		if i == m.cursor {
			b.WriteString(ui.cursor.Render("› "+option) + "\n")
			continue
		}
		b.WriteString("  " + option + "\n")
	}
	b.WriteString(m.help.View(bindings{m.keys.Up, m.keys.Down, m.keys.Submit, m.keys.Back, m.keys.Quit}))
	return b.String()
}

type inputModel struct {
	title string
	input textinput.Model
	state promptOutcome
	keys  keyMap
}

func newInputModel(title string) inputModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Focus()
	return inputModel{title: title, input: ti, keys: newKeyMap()}
}

func (m inputModel) outcome() promptOutcome { return m.state }

func (m inputModel) value() string { return strings.TrimSpace(m.input.Value()) }

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.state = promptInterrupted
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Back):
			m.state = promptCancelled
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Submit):
			m.state = promptDone
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	switch m.state {
	case promptDone:
		return answeredView(m.title, m.value())
	case promptCancelled, promptInterrupted:
		return answeredView(m.title, ui.muted.Render("cancelled"))
	}
	return ui.title.Render("? "+m.title) + "\n" + m.input.View() + "\n"
}

type checkboxModel struct {
	title   string
	options []string
	checked []bool
	cursor  int
	state   promptOutcome
	keys    keyMap
	help    help.Model
}

func newCheckboxModel(title string, options []string) checkboxModel {
	return checkboxModel{
		title:   title,
		options: options,
		checked: make([]bool, len(options)),
		keys:    newKeyMap(),
		help:    help.New(),
	}
}

func (m checkboxModel) outcome() promptOutcome { return m.state }

func (m checkboxModel) selected() []string {
	out := []string{}
	for i, option := range m.options {
		if m.checked[i] {
			out = append(out, option)
		}
	}
	return out
}

func (m checkboxModel) Init() tea.Cmd { return nil }

func (m checkboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.state = promptInterrupted
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.state = promptCancelled
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.options) > 0 {
			m.checked = append([]bool(nil), m.checked...)
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case key.Matches(keyMsg, m.keys.All):
		m.checked = fillBools(len(m.options), true)
	case key.Matches(keyMsg, m.keys.None):
		m.checked = fillBools(len(m.options), false)
	case key.Matches(keyMsg, m.keys.Submit):
		m.state = promptDone
		return m, tea.Quit
	}
	return m, nil
}

func (m checkboxModel) View() string {
	switch m.state {
	case promptDone:
		return answeredView(m.title, fmt.Sprintf("%d selected", len(m.selected())))
	case promptCancelled, promptInterrupted:
		return answeredView(m.title, ui.muted.Render("skipped"))
	}

	var b strings.Builder
	b.WriteString(ui.title.Render("? "+m.title) + "\n")
	for i, option := range m.options {
		box := "[ ]"
		if m.checked[i] {
			box = ui.danger.Render("[x]")
		}
		line := box + " " + option
		if i == m.cursor {
			line = ui.cursor.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(m.help.View(bindings{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.All, m.keys.None, m.keys.Submit, m.keys.Back}))
	return b.String()
}

func fillBools(n int, v bool) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type confirmModel struct {
	title  string
	answer bool
	state  promptOutcome
	keys   keyMap
}

// newConfirmModel defaults to "no": enter alone never confirms a deletion.
func newConfirmModel(title string) confirmModel {
	return confirmModel{title: title, keys: newKeyMap()}
}

func (m confirmModel) outcome() promptOutcome { return m.state }

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.state = promptInterrupted
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Yes):
		m.answer = true
		m.state = promptDone
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No), key.Matches(keyMsg, m.keys.Submit):
		m.answer = false
		m.state = promptDone
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.state == promptDone {
		return answeredView(m.title, boolAnswer(m.answer))
	}
	if m.state != promptPending {
		return answeredView(m.title, ui.muted.Render("cancelled"))
	}
	return ui.confirm.Render(m.title+" (y/N)") + "\n"
}

func boolAnswer(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
