package grades

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/models"
)

type AddGradeMsg struct {
	CategoryID string
}

type EditGradeMsg struct {
	CategoryID string
	GradeID    string
}

type DeleteGradeMsg struct {
	CategoryID string
	GradeID    string
	Name       string
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
			key.WithHelp("a", "add grade"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit grade"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete grade"),
		),
	}
}

// Model lists the grades of one category.
type Model struct {
	table      table.Model
	keys       KeyMap
	categoryID string
	title      string
	items      []models.GradeItem
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	t.SetStyles(s)
	return Model{table: t, keys: DefaultKeyMap()}
}

func columns(width int) []table.Column {
	name := width - 32
	if name < 16 {
		name = 16
	}
	return []table.Column{
		{Title: "Grade", Width: name},
		{Title: "Score", Width: 8},
		{Title: "Max", Width: 8},
		{Title: "Percent", Width: 10},
	}
}

func optional(v *float64) string {
	if v == nil {
		return constants.Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// SetCategory shows c. The cursor is kept on the same grade when the
// category did not change.
func (m *Model) SetCategory(c models.Category, ok bool) {
	if !ok {
		m.categoryID, m.title, m.items = "", "", nil
		m.table.SetRows(nil)
		return
	}

	selected := ""
	if c.ID == m.categoryID {
		selected = m.SelectedID()
	}
	cursor := 0

	rows := make([]table.Row, len(c.Grades))
	for i, g := range c.Grades {
		percent := constants.Placeholder
		if g.Valid() {
			percent = fmt.Sprintf("%.2f%%", *g.Score / *g.Max * 100)
		}
		rows[i] = table.Row{g.Name, optional(g.Score), optional(g.Max), percent}
		if g.ID == selected {
			cursor = i
		}
	}

	m.categoryID = c.ID
	m.title = c.Name
	m.items = c.Grades
	m.table.SetRows(rows)
	m.table.SetCursor(cursor)
}

// CategoryID is the category currently shown.
func (m Model) CategoryID() string {
	return m.categoryID
}

// SelectedID returns the grade under the cursor, or "".
func (m Model) SelectedID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return ""
	}
	return m.items[i].ID
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
	if !m.table.Focused() || m.categoryID == "" {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		catID := m.categoryID
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddGradeMsg{CategoryID: catID} }
		case key.Matches(msg, m.keys.Edit):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return EditGradeMsg{CategoryID: catID, GradeID: id} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if id := m.SelectedID(); id != "" {
				name := m.items[m.table.Cursor()].Name
				return m, func() tea.Msg { return DeleteGradeMsg{CategoryID: catID, GradeID: id, Name: name} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.categoryID == "" {
		return "\n  Select a category."
	}
	if len(m.items) == 0 {
		return fmt.Sprintf("\n  No grades in %s yet.\n  Press 'a' to add one.", m.title)
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
