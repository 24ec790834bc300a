package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kinetic/internal/adapters/tui/styles"
	"kinetic/internal/domain"
	"kinetic/internal/ports"
)

// BrowserKeyMap defines key bindings for the ledger browser
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Filter key.Binding
	Cycle  key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "type"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// typeCycle is the tab order of the type filter; TypeUnknown means all
var typeCycle = []domain.ObjectType{
	domain.TypeUnknown,
	domain.TypeTask,
	domain.TypeProject,
	domain.TypeAOR,
	domain.TypeGoal,
	domain.TypeRelationship,
}

// BrowserModel is a read-only browser over the ledger table
type BrowserModel struct {
	repo ports.LedgerRepository

	objects  []*domain.LedgerObject
	visible  []*domain.LedgerObject
	cursor   int
	typeIdx  int
	filter   textinput.Model
	filtered bool // filter input focused
	detail   bool

	width   int
	height  int
	message string
}

// NewBrowserModel creates a browser over the given repository
func NewBrowserModel(repo ports.LedgerRepository) *BrowserModel {
	input := textinput.New()
	input.Placeholder = "filter by name, tag, or person"
	input.CharLimit = 80
	return &BrowserModel{repo: repo, filter: input}
}

// Init loads the ledger
func (m *BrowserModel) Init() tea.Cmd {
	return m.load
}

// SetSize updates the layout bounds
func (m *BrowserModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

type ledgerLoadedMsg struct {
	objects []*domain.LedgerObject
}

type errMsg struct {
	err error
}

func (m *BrowserModel) load() tea.Msg {
	objects, err := m.repo.Load()
	if err != nil {
		return errMsg{err}
	}
	return ledgerLoadedMsg{objects}
}

// Update handles messages
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerLoadedMsg:
		m.objects = msg.objects
		m.refresh()
		return m, nil

	case errMsg:
		m.message = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.filtered {
			switch msg.String() {
			case "enter", "esc":
				m.filtered = false
				m.filter.Blur()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.refresh()
				return m, cmd
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}

		case key.Matches(msg, BrowserKeys.Enter):
			m.detail = !m.detail

		case key.Matches(msg, BrowserKeys.Filter):
			m.filtered = true
			return m, m.filter.Focus()

		case key.Matches(msg, BrowserKeys.Cycle):
			m.typeIdx = (m.typeIdx + 1) % len(typeCycle)
			m.refresh()

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.load
		}
	}
	return m, nil
}

// refresh recomputes the visible rows from the filters
func (m *BrowserModel) refresh() {
	want := typeCycle[m.typeIdx]
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	m.visible = m.visible[:0]
	for _, obj := range m.objects {
		if want != domain.TypeUnknown && obj.Type != want {
			continue
		}
		if query != "" && !matches(obj, query) {
			continue
		}
		m.visible = append(m.visible, obj)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func matches(obj *domain.LedgerObject, query string) bool {
	if strings.Contains(strings.ToLower(obj.DisplayName), query) {
		return true
	}
	for _, tag := range obj.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, person := range obj.People {
		if strings.Contains(strings.ToLower(person), query) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(obj.SourceLocation), query)
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	title := "Ledger"
	if want := typeCycle[m.typeIdx]; want != domain.TypeUnknown {
		title = fmt.Sprintf("Ledger · %ss", want)
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	if m.filtered || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(styles.MutedText.Render("No objects."))
		b.WriteString("\n")
	}

	visibleRows := m.rowBudget()
	start := 0
	if m.cursor >= visibleRows {
		start = m.cursor - visibleRows + 1
	}
	for i := start; i < len(m.visible) && i < start+visibleRows; i++ {
		b.WriteString(m.renderRow(m.visible[i], i == m.cursor))
		b.WriteString("\n")
	}

	if m.detail && m.cursor < len(m.visible) {
		b.WriteString(m.renderDetail(m.visible[m.cursor]))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString(styles.ErrorMsg.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	return styles.App.Render(b.String())
}

func (m *BrowserModel) rowBudget() int {
	budget := m.height - 8
	if m.detail {
		budget -= 10
	}
	if budget < 5 {
		budget = 5
	}
	return budget
}

func (m *BrowserModel) renderRow(obj *domain.LedgerObject, selected bool) string {
	idStyle := lipgloss.NewStyle().Foreground(styles.TypeColor(obj.Type))
	line := fmt.Sprintf("%s  %s", idStyle.Render(fmt.Sprintf("%-6s", obj.ID)), obj.DisplayName)

	var badges []string
	for _, tag := range obj.Tags {
		badges = append(badges, styles.TagBadge.Render("#"+tag))
	}
	for _, person := range obj.People {
		badges = append(badges, styles.PersonBadge.Render(person))
	}
	if len(badges) > 0 {
		line += "  " + strings.Join(badges, " ")
	}

	switch {
	case selected:
		return styles.RowSelected.Render("> " + line)
	case obj.IsComplete():
		return "  " + styles.RowComplete.Render(line)
	default:
		return "  " + line
	}
}

func (m *BrowserModel) renderDetail(obj *domain.LedgerObject) string {
	row := func(label, value string) string {
		if value == "" {
			value = styles.MutedText.Render("—")
		}
		return styles.DetailLabel.Render(label+": ") + value
	}
	lines := []string{
		row("Type", obj.Type.String()),
		row("State", obj.State),
		row("Source", obj.SourceLocation),
		row("Parent", obj.ParentID),
		row("Children", strings.Join(obj.ChildIDs, ", ")),
	}
	if obj.Notes != "" {
		lines = append(lines, row("Notes", obj.Notes))
	}
	return styles.DetailBorder.Render(strings.Join(lines, "\n"))
}

func (m *BrowserModel) renderStatus() string {
	help := []string{
		styles.HelpKey.Render("/") + styles.HelpDesc.Render(" filter"),
		styles.HelpKey.Render("tab") + styles.HelpDesc.Render(" type"),
		styles.HelpKey.Render("enter") + styles.HelpDesc.Render(" details"),
		styles.HelpKey.Render("r") + styles.HelpDesc.Render(" reload"),
		styles.HelpKey.Render("q") + styles.HelpDesc.Render(" quit"),
	}
	count := styles.StatusKey.Render(fmt.Sprintf("%d", len(m.visible)))
	return styles.StatusBar.Render(count + strings.Join(help, styles.HelpDesc.Render(" · ")))
}
