package categories

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/gradecalc/internal/grading"
)

type AddCategoryMsg struct{}

type EditCategoryMsg struct {
	ID string
}

type DeleteCategoryMsg struct {
	ID   string
	Name string
}

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add category"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit category"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete category"),
		),
	}
}

// Model is the category table: name, weight and average per row.
type Model struct {
	table table.Model
	keys  KeyMap
	ids   []string
	names []string
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	return Model{table: t, keys: DefaultKeyMap()}
}

func columns(width int) []table.Column {
	name := width - 30
	if name < 16 {
		name = 16
	}
	return []table.Column{
		{Title: "Category", Width: name},
		{Title: "Weight", Width: 8},
		{Title: "Average", Width: 10},
		{Title: "Grades", Width: 6},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	return s
}

// SetSummary replaces the rows, keeping the cursor on the same category
// when it still exists.
func (m *Model) SetSummary(summary grading.Summary) {
	selected := m.SelectedID()

	rows := make([]table.Row, len(summary.Categories))
	m.ids = make([]string, len(summary.Categories))
	m.names = make([]string, len(summary.Categories))
	cursor := m.table.Cursor()
	for i, c := range summary.Categories {
		rows[i] = table.Row{
			c.Name,
			strconv.FormatFloat(c.Weight, 'f', -1, 64),
			c.Display,
			strconv.Itoa(c.GradeCount),
		}
		m.ids[i] = c.ID
		m.names[i] = c.Name
		if c.ID == selected {
			cursor = i
		}
	}
	m.table.SetRows(rows)

	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

// SelectedID returns the category under the cursor, or "".
func (m Model) SelectedID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.ids) {
		return ""
	}
	return m.ids[i]
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) Focus() { m.table.Focus() }
func (m *Model) Blur()  { m.table.Blur() }

func (m Model) Focused() bool {
	return m.table.Focused()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.table.Focused() {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddCategoryMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return EditCategoryMsg{ID: id} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if id := m.SelectedID(); id != "" {
				name := m.names[m.table.Cursor()]
				return m, func() tea.Msg { return DeleteCategoryMsg{ID: id, Name: name} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.ids) == 0 {
		return "\n  No categories yet.\n  Press 'a' to add one."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
