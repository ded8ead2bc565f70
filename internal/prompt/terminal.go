package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Terminal draws every question as a bubbletea widget. All answers are read
// by bubbletea so no input is buffered elsewhere.
type Terminal struct {
	ctx context.Context
	in  io.Reader
	out io.Writer
}

// NewTerminal returns a Terminal prompter bound to an interactive terminal.
func NewTerminal(ctx context.Context, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{ctx: ctx, in: in, out: out}
}

// Text shows a single-line editor.
func (t *Terminal) Text(q TextQuestion) (string, error) {
	final, err := t.run(textModel{question: q})
	if err != nil {
		return "", err
	}
	m, ok := final.(textModel)
	if !ok || m.aborted {
		return "", ErrAborted
	}
	return m.answer, nil
}

// Confirm waits for y, n or enter.
func (t *Terminal) Confirm(q ConfirmQuestion) (bool, error) {
	final, err := t.run(confirmModel{question: q})
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	if !ok || m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}

// Select shows a single-choice list.
func (t *Terminal) Select(q SelectQuestion) (string, error) {
	if len(q.Choices) == 0 {
		return "", fmt.Errorf("select %q has no choices", q.Message)
	}
	m := newListModel(q.Message, q.Choices, false, []string{q.Default})
	if cur := indexOf(q.Choices, q.Default); cur >= 0 {
		m.cursor = cur
	}

	final, err := t.runList(m)
	if err != nil {
		return "", err
	}
	return final.values()[0], nil
}

// MultiSelect shows a checklist.
func (t *Terminal) MultiSelect(q MultiSelectQuestion) ([]string, error) {
	m := newListModel(q.Message, q.Choices, true, q.Defaults)
	final, err := t.runList(m)
	if err != nil {
		return nil, err
	}
	return final.values(), nil
}

func (t *Terminal) runList(m listModel) (listModel, error) {
	res, err := t.run(m)
	if err != nil {
		return listModel{}, err
	}
	final, ok := res.(listModel)
	if !ok || final.aborted {
		return listModel{}, ErrAborted
	}
	return final, nil
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	if t.ctx.Err() != nil {
		return nil, ErrAborted
	}
	p := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out), tea.WithContext(t.ctx))
	res, err := p.Run()
	if t.ctx.Err() != nil {
		return nil, ErrAborted
	}
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return res, nil
}

// textModel edits one line of text and validates it on enter.
type textModel struct {
	question TextQuestion
	value    []rune
	err      error
	answer   string
	done     bool
	aborted  bool
}

func (m textModel) Init() tea.Cmd { return nil }

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		answer := strings.TrimSpace(string(m.value))
		if answer == "" {
			answer = m.question.Default
		}
		if m.question.Validate != nil {
			if err := m.question.Validate(answer); err != nil {
				m.err = err
				return m, nil
			}
		}
		m.answer, m.done = answer, true
		return m, tea.Quit
	case tea.KeyBackspace:
		if n := len(m.value); n > 0 {
			m.value = append([]rune(nil), m.value[:n-1]...)
		}
	case tea.KeyRunes, tea.KeySpace:
		m.value = append(append([]rune(nil), m.value...), key.Runes...)
		m.err = nil
	}
	return m, nil
}

func (m textModel) View() string {
	if m.aborted {
		return ""
	}
	label := "? " + m.question.Message
	if m.done {
		return fmt.Sprintf("%s %s\n", questionStyle.Render(label), answerStyle.Render(m.answer))
	}

	var b strings.Builder
	if m.question.Default != "" {
		label += " [" + m.question.Default + "]"
	}
	fmt.Fprintf(&b, "%s %s%s\n", questionStyle.Render(label+":"), string(m.value), cursorStyle.Render("_"))
	if m.err != nil {
		fmt.Fprintf(&b, "  ! %v\n", m.err)
	}
	return b.String()
}

// confirmModel answers a yes/no question with a single key.
type confirmModel struct {
	question ConfirmQuestion
	answer   bool
	done     bool
	aborted  bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "enter":
		m.answer, m.done = m.question.Default, true
		return m, tea.Quit
	case "y":
		m.answer, m.done = true, true
		return m, tea.Quit
	case "n":
		m.answer, m.done = false, true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.aborted {
		return ""
	}
	label := "? " + m.question.Message
	if m.done {
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return fmt.Sprintf("%s %s\n", questionStyle.Render(label), answerStyle.Render(answer))
	}
	hint := "y/N"
	if m.question.Default {
		hint = "Y/n"
	}
	return fmt.Sprintf("%s %s\n", questionStyle.Render(label), helpStyle.Render("["+hint+"]"))
}

// listModel is a bubbletea model for single and multi choice lists.
type listModel struct {
	message string
	choices []Choice
	multi   bool
	cursor  int
	checked map[int]bool
	done    bool
	aborted bool
}

func newListModel(message string, choices []Choice, multi bool, preset []string) listModel {
	checked := make(map[int]bool)
	for _, v := range preset {
		if i := indexOf(choices, v); i >= 0 {
			checked[i] = true
		}
	}
	return listModel{
		message: message,
		choices: choices,
		multi:   multi,
		checked: checked,
	}
}

func (m listModel) Init() tea.Cmd { return nil }

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case " ", "x":
		if m.multi {
			m.checked = toggle(m.checked, m.cursor)
		}
	case "a":
		if m.multi {
			m.checked = toggleAll(m.checked, len(m.choices))
		}
	case "enter":
		if !m.multi {
			m.checked = map[int]bool{m.cursor: true}
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m listModel) View() string {
	var b strings.Builder

	if m.done {
		fmt.Fprintf(&b, "%s %s\n", questionStyle.Render("? "+m.message), answerStyle.Render(strings.Join(m.values(), ", ")))
		return b.String()
	}
	if m.aborted {
		return ""
	}

	fmt.Fprintln(&b, questionStyle.Render("? "+m.message))
	for i, c := range m.choices {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		mark := ""
		if m.multi {
			mark = "[ ] "
			if m.checked[i] {
				mark = "[x] "
			}
		}
		fmt.Fprintf(&b, "%s%s%s\n", pointer, mark, c.display())
	}

	help := "↑/↓ move • enter select • esc cancel"
	if m.multi {
		help = "↑/↓ move • space toggle • a all • enter accept • esc cancel"
	}
	fmt.Fprintln(&b, helpStyle.Render(help))
	return b.String()
}

// values returns the selected choice values in display order.
func (m listModel) values() []string {
	out := []string{}
	for i, c := range m.choices {
		if m.checked[i] {
			out = append(out, c.Value)
		}
	}
	return out
}

func toggle(set map[int]bool, i int) map[int]bool {
	next := make(map[int]bool, len(set)+1)
	for k, v := range set {
		next[k] = v
	}
	next[i] = !next[i]
	return next
}

func toggleAll(set map[int]bool, n int) map[int]bool {
	all := true
	for i := 0; i < n; i++ {
		if !set[i] {
			all = false
			break
		}
	}
	next := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		next[i] = !all
	}
	return next
}
