package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/logger"
	"github.com/julianstephens/gradecalc/internal/tui/components/categories"
	"github.com/julianstephens/gradecalc/internal/tui/components/grades"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case storeEventMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case statusMsg:
		m.status = msg
		return m, nil

	case tea.BlurMsg:
		m.flush()
		return m, nil
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirm:
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case categories.AddCategoryMsg:
		return m.openCategoryForm("")
	case categories.EditCategoryMsg:
		return m.openCategoryForm(msg.ID)
	case categories.DeleteCategoryMsg:
		store, id := m.store, msg.ID
		return m.openConfirm(
			fmt.Sprintf("Delete category %q?", msg.Name),
			"Its grades are deleted with it.",
			func() tea.Cmd {
				store.RemoveCategory(id)
				return nil
			})

	case grades.AddGradeMsg:
		return m.openGradeForm(msg.CategoryID, "")
	case grades.EditGradeMsg:
		return m.openGradeForm(msg.CategoryID, msg.GradeID)
	case grades.DeleteGradeMsg:
		store, catID, gradeID := m.store, msg.CategoryID, msg.GradeID
		return m.openConfirm(
			fmt.Sprintf("Delete grade %q?", msg.Name),
			"",
			func() tea.Cmd {
				store.RemoveGrade(catID, gradeID)
				return nil
			})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.flush()
			m.unsubscribe()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextPane), key.Matches(msg, m.keys.PrevPane):
			m.togglePane()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Weighted):
			m.store.SetWeighted(!m.store.IsWeighted())
			return m, nil
		case key.Matches(msg, m.keys.ClearAll):
			return m.openConfirm(
				"Clear all categories and grades?",
				"This cannot be undone from here.",
				m.resetAction())
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateCategories:
		m.categories, cmd = m.categories.Update(msg)
		m.syncGrades()
	case StateGrades:
		m.grades, cmd = m.grades.Update(msg)
	}
	return m, cmd
}

func (m *Model) togglePane() {
	if m.state == StateCategories {
		if m.grades.CategoryID() == "" {
			return
		}
		m.state = StateGrades
		m.categories.Blur()
		m.grades.Focus()
		return
	}
	m.state = StateCategories
	m.grades.Blur()
	m.categories.Focus()
}

func (m *Model) resize() {
	paneWidth := m.width/2 - 4
	paneHeight := m.height - 14
	if paneHeight < 3 {
		paneHeight = 3
	}
	m.categories.SetSize(paneWidth, paneHeight)
	m.grades.SetSize(paneWidth, paneHeight)
}

func (m Model) resetAction() func() tea.Cmd {
	store, before := m.store, m.beforeReset
	return func() tea.Cmd {
		if before != nil {
			if err := before(); err != nil {
				logger.Warn("pre-reset hook failed", "error", err)
			}
		}
		if err := store.Reset(); err != nil {
			return failure("Reset, but could not save: " + err.Error())
		}
		return notice("All categories cleared.")
	}
}

func (m Model) openCategoryForm(id string) (tea.Model, tea.Cmd) {
	fm := &CategoryFormModel{}
	if c, ok := m.store.Category(id); ok {
		fm.Name = c.Name
		fm.Weight = strconv.FormatFloat(c.Weight, 'f', -1, 64)
	} else {
		id = ""
	}

	store := m.store
	m.categoryForm = fm
	m.onSubmit = func() tea.Cmd {
		weight := calculator.ParseWeight(fm.Weight)
		if id == "" {
			store.CreateCategory(fm.Name, weight)
			return nil
		}
		store.RenameCategory(id, fm.Name)
		store.SetCategoryWeight(id, weight)
		return nil
	}
	m.form = newCategoryForm(fm)
	m.previousState = m.state
	m.state = StateForm
	return m, m.form.Init()
}

func (m Model) openGradeForm(categoryID, gradeID string) (tea.Model, tea.Cmd) {
	fm := &GradeFormModel{}
	g, editing := m.store.Grade(categoryID, gradeID)
	if editing {
		fm.Name = g.Name
		if g.Score != nil {
			fm.Score = strconv.FormatFloat(*g.Score, 'f', -1, 64)
		}
		if g.Max != nil {
			fm.Max = strconv.FormatFloat(*g.Max, 'f', -1, 64)
		}
	}

	store := m.store
	m.gradeForm = fm
	m.onSubmit = func() tea.Cmd {
		score, maxPoints := calculator.ParseScore(fm.Score), calculator.ParseScore(fm.Max)
		if !editing {
			if _, ok := store.CreateGrade(categoryID, fm.Name, score, maxPoints); !ok {
				return failure("That category no longer exists.")
			}
			return nil
		}
		store.RenameGrade(categoryID, gradeID, fm.Name)
		store.SetGradeScore(categoryID, gradeID, score)
		store.SetGradeMax(categoryID, gradeID, maxPoints)
		return nil
	}
	m.form = newGradeForm(fm)
	m.previousState = m.state
	m.state = StateForm
	return m, m.form.Init()
}

func (m Model) openConfirm(title, description string, action func() tea.Cmd) (tea.Model, tea.Cmd) {
	m.confirmForm = &ConfirmationFormModel{}
	m.pendingAction = action
	m.form = newConfirmForm(title, description, m.confirmForm)
	m.previousState = m.state
	m.state = StateConfirm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.onSubmit != nil {
			cmds = append(cmds, m.onSubmit())
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed && m.pendingAction != nil {
			cmds = append(cmds, m.pendingAction())
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) closeForm() {
	m.form = nil
	m.onSubmit = nil
	m.pendingAction = nil
	m.categoryForm = nil
	m.gradeForm = nil
	m.confirmForm = nil
	m.state = m.previousState
	if m.state == StateGrades && m.grades.CategoryID() == "" {
		m.state = StateCategories
		m.grades.Blur()
		m.categories.Focus()
	}
}
