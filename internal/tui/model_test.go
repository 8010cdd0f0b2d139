package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/models"
	"github.com/julianstephens/gradecalc/internal/storage"
	"github.com/julianstephens/gradecalc/internal/tui/components/categories"
	"github.com/julianstephens/gradecalc/internal/tui/components/grades"
)

func newTestModel(t *testing.T, opts ...Option) (Model, *calculator.Store, *storage.MemoryStore) {
	t.Helper()
	p := storage.NewMemoryStore()
	require.NoError(t, p.Init())
	store := calculator.Open(p, calculator.WithDebounce(time.Hour))
	t.Cleanup(func() { _ = store.Close() })

	m := NewModel(store, opts...)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), store, p
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain feeds every queued store event back into the model.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for len(m.events) > 0 {
		msg := waitForEvent(m.events)()
		m, _ = update(t, m, msg)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialView(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Assignments")
	assert.Contains(t, view, "Final grade")
	assert.Contains(t, view, "--")
	assert.Contains(t, view, "weighted")
}

func TestStoreEventsRedraw(t *testing.T) {
	m, store, _ := newTestModel(t)

	c := store.CreateCategory("Exams", 50)
	store.CreateGrade(c.ID, "Midterm", models.Ptr(45), models.Ptr(50))
	assert.NotContains(t, m.View(), "Exams")

	m = drain(t, m)
	view := m.View()
	assert.Contains(t, view, "Exams")
	assert.Contains(t, view, "90.00%")
	assert.Contains(t, view, "A-")
}

func TestToggleMode(t *testing.T) {
	m, store, _ := newTestModel(t)
	require.True(t, store.IsWeighted())

	m, _ = update(t, m, runes("w"))
	assert.False(t, store.IsWeighted())

	m = drain(t, m)
	assert.Contains(t, m.View(), "unweighted")
}

func TestQuitFlushes(t *testing.T) {
	m, store, p := newTestModel(t)
	store.SetWeighted(false)
	require.True(t, store.Pending())

	m, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, store.Pending())
	assert.Equal(t, 1, p.Writes())
	assert.Empty(t, m.View())
}

func TestBlurFlushes(t *testing.T) {
	m, store, p := newTestModel(t)
	store.CreateCategory("Labs", 10)

	_, _ = update(t, m, tea.BlurMsg{})
	assert.False(t, store.Pending())
	assert.Equal(t, 1, p.Writes())
}

func TestBlurReportsSaveFailure(t *testing.T) {
	m, store, p := newTestModel(t)
	store.CreateCategory("Labs", 10)
	p.FailWith(errors.New("disk full"))

	m, _ = update(t, m, tea.BlurMsg{})
	assert.Contains(t, m.View(), "Could not save")
}

func TestTabSwitchesPanes(t *testing.T) {
	m, _, _ := newTestModel(t)
	require.Equal(t, StateCategories, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateGrades, m.state)
	assert.True(t, m.grades.Focused())
	assert.False(t, m.categories.Focused())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StateCategories, m.state)
}

func TestAddCategoryForm(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = update(t, m, categories.AddCategoryMsg{})
	require.Equal(t, StateForm, m.state)
	require.NotNil(t, m.categoryForm)

	m.categoryForm.Name = "Labs"
	m.categoryForm.Weight = "not a number"
	m.onSubmit()
	m.closeForm()

	assert.Equal(t, StateCategories, m.state)
	state := store.Snapshot()
	require.Len(t, state.Categories, 2)
	assert.Equal(t, "Labs", state.Categories[1].Name)
	assert.Equal(t, 0.0, state.Categories[1].Weight)
}

func TestEditGradeForm(t *testing.T) {
	m, store, _ := newTestModel(t)
	catID := store.Snapshot().Categories[0].ID
	g, ok := store.CreateGrade(catID, "Quiz", models.Ptr(7), nil)
	require.True(t, ok)

	m, _ = update(t, m, grades.EditGradeMsg{CategoryID: catID, GradeID: g.ID})
	require.Equal(t, StateForm, m.state)
	assert.Equal(t, "Quiz", m.gradeForm.Name)
	assert.Equal(t, "7", m.gradeForm.Score)
	assert.Equal(t, "", m.gradeForm.Max)

	m.gradeForm.Max = "10"
	m.gradeForm.Score = ""
	m.onSubmit()

	got, ok := store.Grade(catID, g.ID)
	require.True(t, ok)
	assert.Nil(t, got.Score)
	require.NotNil(t, got.Max)
	assert.Equal(t, 10.0, *got.Max)
}

func TestAddGradeToRemovedCategory(t *testing.T) {
	m, store, _ := newTestModel(t)
	catID := store.Snapshot().Categories[0].ID

	m, _ = update(t, m, grades.AddGradeMsg{CategoryID: catID})
	store.RemoveCategory(catID)
	m.gradeForm.Name = "Late"

	cmd := m.onSubmit()
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "That category no longer exists.", failed: true}, cmd())
}

func TestDeleteCategoryNeedsConfirmation(t *testing.T) {
	m, store, _ := newTestModel(t)
	catID := store.Snapshot().Categories[0].ID

	m, _ = update(t, m, categories.DeleteCategoryMsg{ID: catID, Name: "Assignments"})
	require.Equal(t, StateConfirm, m.state)
	assert.Len(t, store.Snapshot().Categories, 1)

	m.pendingAction()
	assert.Empty(t, store.Snapshot().Categories)
}

func TestEscCancelsConfirmation(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = update(t, m, runes("R"))
	require.Equal(t, StateConfirm, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateCategories, m.state)
	assert.Nil(t, m.pendingAction)
	assert.Len(t, store.Snapshot().Categories, 1)
}

func TestResetActionRunsHookFirst(t *testing.T) {
	var hookSawCategories int
	var store *calculator.Store
	m, store, p := newTestModel(t, WithBeforeReset(func() error {
		hookSawCategories = len(store.Snapshot().Categories)
		return errors.New("backup failed")
	}))
	store.CreateCategory("Exams", 50)

	cmd := m.resetAction()()
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "All categories cleared."}, cmd())
	assert.Equal(t, 2, hookSawCategories)

	state := store.Snapshot()
	require.Len(t, state.Categories, 1)
	assert.Equal(t, "Assignments", state.Categories[0].Name)
	assert.GreaterOrEqual(t, p.Writes(), 1)
}
