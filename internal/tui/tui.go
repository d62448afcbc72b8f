// Package tui is the interactive terminal board.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amterp/kanpad/internal/editform"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/service"
)

const reloadInterval = 2 * time.Second

const (
	fieldTitle = iota
	fieldWeight
)

// Run starts the board UI and blocks until the user quits.
func Run(ctx context.Context, board *service.BoardService, theme *service.ThemeService) error {
	program := tea.NewProgram(New(ctx, board, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Model is the bubbletea model for the board.
type Model struct {
	ctx   context.Context
	board *service.BoardService
	theme *service.ThemeService
	form  *editform.Controller

	snapshot model.Board
	styles   styles
	listIdx  int
	cardIdx  int

	inputs   []textinput.Model
	focus    int
	showHelp bool
	status   string
	err      error
	width    int
}

type tickMsg time.Time

// New creates a board model over the given services.
func New(ctx context.Context, board *service.BoardService, theme *service.ThemeService) *Model {
	m := &Model{
		ctx:   ctx,
		board: board,
		theme: theme,
		form:  editform.New(board),
	}
	m.inputs = []textinput.Model{newInput("Title", 200), newInput("0-10", 2)}
	m.refresh()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	return in
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd(reloadInterval)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		// Pick up writes from other processes.
		if _, err := m.board.Reload(m.ctx); err != nil {
			m.err = err
		}
		if _, err := m.theme.Reload(m.ctx); err != nil {
			m.err = err
		}
		m.refresh()
		return m, tickCmd(reloadInterval)
	case tea.KeyMsg:
		if m.form.IsOpen() {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "h", "left":
		m.focusList(m.listIdx - 1)
	case "l", "right":
		m.focusList(m.listIdx + 1)
	case "k", "up":
		m.selectCard(m.cardIdx - 1)
	case "j", "down":
		m.selectCard(m.cardIdx + 1)
	case "a":
		m.addCard()
	case "d", "x":
		m.deleteCard()
	case "H", "shift+left":
		m.moveAcross(-1)
	case "L", "shift+right":
		m.moveAcross(1)
	case "K", "shift+up":
		m.moveWithin(-1)
	case "J", "shift+down":
		m.moveWithin(1)
	case "e", "enter":
		return m, m.openForm()
	case "t":
		if _, err := m.theme.Toggle(m.ctx); err != nil {
			m.err = err
		}
		m.refresh()
	case "r":
		if _, err := m.board.Reload(m.ctx); err != nil {
			m.err = err
		}
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.form.Cancel()
		m.err = nil
		m.status = "edit cancelled"
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.focusField(1 - m.focus)
	case "enter":
		m.saveForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// refresh copies the service state and clamps the selection to it.
func (m *Model) refresh() {
	m.snapshot = m.board.Snapshot()
	m.styles = newStyles(m.theme.Dark())
	m.focusList(m.listIdx)
}

func (m *Model) focusList(idx int) {
	n := len(m.snapshot.Lists)
	if n == 0 {
		m.listIdx, m.cardIdx = 0, 0
		return
	}
	m.listIdx = max(0, min(idx, n-1))
	m.selectCard(m.cardIdx)
}

func (m *Model) selectCard(idx int) {
	n := m.currentLen()
	m.cardIdx = max(0, min(idx, n-1))
}

func (m *Model) currentList() (model.List, bool) {
	if m.listIdx >= len(m.snapshot.Lists) {
		return model.List{}, false
	}
	return m.snapshot.Lists[m.listIdx], true
}

func (m *Model) currentLen() int {
	l, ok := m.currentList()
	if !ok {
		return 0
	}
	return len(l.Cards)
}

func (m *Model) selectedCard() (model.Card, bool) {
	l, ok := m.currentList()
	if !ok || m.cardIdx >= len(l.Cards) {
		return model.Card{}, false
	}
	return l.Cards[m.cardIdx], true
}

func (m *Model) addCard() {
	l, ok := m.currentList()
	if !ok {
		return
	}
	_, err := m.board.AddCard(m.ctx, l.ID)
	m.err = err
	m.refresh()
	m.selectCard(m.currentLen() - 1)
}

func (m *Model) deleteCard() {
	card, ok := m.selectedCard()
	if !ok {
		return
	}
	_, err := m.board.DeleteCard(m.ctx, card.ID)
	m.err = err
	m.status = fmt.Sprintf("deleted %q", card.Title)
	m.refresh()
}

// moveAcross moves the selected card to the end of the neighbouring list.
func (m *Model) moveAcross(dir int) {
	src, ok := m.currentList()
	dst := m.listIdx + dir
	if !ok || m.cardIdx >= len(src.Cards) || dst < 0 || dst >= len(m.snapshot.Lists) {
		return
	}
	dstList := m.snapshot.Lists[dst]
	mut, err := m.board.MoveCard(m.ctx, src.ID, m.cardIdx, dstList.ID, len(dstList.Cards))
	m.err = err
	m.refresh()
	if mut.Changed {
		m.listIdx = dst
		m.selectCard(len(dstList.Cards))
	}
}

// moveWithin reorders the selected card one step within its list.
func (m *Model) moveWithin(dir int) {
	l, ok := m.currentList()
	dst := m.cardIdx + dir
	if !ok || m.cardIdx >= len(l.Cards) || dst < 0 || dst >= len(l.Cards) {
		return
	}
	mut, err := m.board.MoveCard(m.ctx, l.ID, m.cardIdx, l.ID, dst)
	m.err = err
	m.refresh()
	if mut.Changed {
		m.selectCard(dst)
	}
}

func (m *Model) openForm() tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		return nil
	}
	m.form.Open(card)
	m.inputs[fieldTitle].SetValue(card.Title)
	m.inputs[fieldWeight].SetValue(strconv.Itoa(card.Weight))
	return m.focusField(fieldTitle)
}

func (m *Model) focusField(field int) tea.Cmd {
	m.focus = field
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.inputs[field].Focus()
}

func (m *Model) saveForm() {
	weight, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldWeight].Value()))
	if err != nil {
		m.err = fmt.Errorf("weight must be a whole number between %d and %d", model.MinWeight, model.MaxWeight)
		return
	}
	m.form.SetTitle(m.inputs[fieldTitle].Value())
	m.form.SetWeight(weight)

	card, err := m.form.Save(m.ctx)
	m.err = err
	if err != nil && editform.IsValidationError(err) {
		return
	}
	m.status = fmt.Sprintf("saved %q", card.Title)
	m.refresh()
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.title.Render("kanpad"))
	b.WriteString("\n\n")

	columns := make([]string, 0, len(m.snapshot.Lists))
	for i, l := range m.snapshot.Lists {
		columns = append(columns, m.renderList(i, l))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	if m.form.IsOpen() {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(s.err.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(s.status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(s.help.Render(m.helpText()))
	return b.String()
}

func (m *Model) renderList(idx int, l model.List) string {
	s := m.styles
	lines := []string{s.columnTitle.Render(fmt.Sprintf("%s (%d)", l.Title, len(l.Cards))), ""}

	for j, c := range l.Cards {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		line := truncate(title, columnWidth-6) + " " + s.weight.Render(fmt.Sprintf("[%d]", c.Weight))
		if idx == m.listIdx && j == m.cardIdx && !m.form.IsOpen() {
			line = s.selectedCard.Render(line)
		} else {
			line = s.card.Render(line)
		}
		lines = append(lines, line)
	}
	if len(l.Cards) == 0 {
		lines = append(lines, s.help.Render("empty"))
	}

	style := s.column
	if idx == m.listIdx {
		style = s.focusedColumn
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderForm() string {
	s := m.styles
	rows := []string{
		s.columnTitle.Render("Edit card"),
		s.label.Render("Title") + m.inputs[fieldTitle].View(),
		s.label.Render("Weight") + m.inputs[fieldWeight].View(),
	}
	return s.form.Render(strings.Join(rows, "\n"))
}

func (m *Model) helpText() string {
	if m.form.IsOpen() {
		return "tab switch field • enter save • esc cancel"
	}
	if !m.showHelp {
		return "h/l list • j/k card • a add • e edit • d delete • ? more • q quit"
	}
	return strings.Join([]string{
		"h/l focus list    j/k select card",
		"H/L move card     J/K reorder card",
		"a add   e edit   d delete",
		"t toggle theme   r reload   q quit",
	}, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
