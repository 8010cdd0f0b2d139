package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gradecalc/internal/calculator"
	"github.com/julianstephens/gradecalc/internal/grading"
	"github.com/julianstephens/gradecalc/internal/logger"
	"github.com/julianstephens/gradecalc/internal/tui/components/categories"
	"github.com/julianstephens/gradecalc/internal/tui/components/grades"
	"github.com/julianstephens/gradecalc/internal/validation"
)

type SessionState int

const (
	StateCategories SessionState = iota
	StateGrades
	StateForm
	StateConfirm
)

type CategoryFormModel struct {
	Name   string
	Weight string
}

type GradeFormModel struct {
	Name  string
	Score string
	Max   string
}

type ConfirmationFormModel struct {
	Confirmed bool
}

// storeEventMsg carries a store change into the update loop.
type storeEventMsg calculator.Event

// statusMsg replaces the status line.
type statusMsg struct {
	text   string
	failed bool
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func failure(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, failed: true} }
}

// Option configures a Model.
type Option func(*Model)

// WithBeforeReset runs fn before a confirmed reset, typically a backup.
// A failing hook is logged and does not block the reset.
func WithBeforeReset(fn func() error) Option {
	return func(m *Model) { m.beforeReset = fn }
}

type Model struct {
	store         *calculator.Store
	state         SessionState
	previousState SessionState
	keys          globalKeys
	help          help.Model
	categories    categories.Model
	grades        grades.Model
	summary       grading.Summary

	form          *huh.Form
	categoryForm  *CategoryFormModel
	gradeForm     *GradeFormModel
	confirmForm   *ConfirmationFormModel
	onSubmit      func() tea.Cmd
	pendingAction func() tea.Cmd

	events      chan calculator.Event
	unsubscribe func()
	beforeReset func() error

	validationWarning string
	status            statusMsg
	quitting          bool
	width             int
	height            int
}

// NewModel builds the display for a store that has already been loaded.
func NewModel(store *calculator.Store, opts ...Option) Model {
	events := make(chan calculator.Event, 64)
	unsubscribe := store.Subscribe(func(ev calculator.Event) {
		// The model redraws from a full snapshot, so a dropped event only
		// delays the redraw until the next one.
		select {
		case events <- ev:
		default:
		}
	})

	m := Model{
		store:       store,
		state:       StateCategories,
		keys:        newGlobalKeys(),
		help:        help.New(),
		categories:  categories.New(0, 0),
		grades:      grades.New(0, 0),
		events:      events,
		unsubscribe: unsubscribe,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.categories.Focus()
	m.grades.Blur()
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan calculator.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}

// refresh redraws every pane from the store.
func (m *Model) refresh() {
	m.summary = m.store.Summary()
	m.categories.SetSummary(m.summary)
	m.syncGrades()
	m.updateValidationStatus()
}

// syncGrades points the grade pane at the selected category.
func (m *Model) syncGrades() {
	c, ok := m.store.Category(m.categories.SelectedID())
	m.grades.SetCategory(c, ok)
}

func (m *Model) updateValidationStatus() {
	result := validation.New().Validate(m.store.Snapshot())
	n := 0
	for _, c := range result.Conflicts {
		if c.Severity >= validation.SeverityWarning {
			n++
		}
	}
	if n > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'gradecalc validate'", n)
	} else {
		m.validationWarning = ""
	}
}

// flush persists pending edits now.
func (m *Model) flush() {
	if err := m.store.Flush(); err != nil {
		logger.Warn("failed to save grade data", "error", err)
		m.status = statusMsg{text: "Could not save: " + err.Error(), failed: true}
	}
}

// paneActions returns the add/edit/delete bindings of the focused pane.
func (m Model) paneActions() []key.Binding {
	switch m.state {
	case StateCategories:
		k := m.categories.Keys()
		return []key.Binding{k.Add, k.Edit, k.Delete}
	case StateGrades:
		k := m.grades.Keys()
		return []key.Binding{k.Add, k.Edit, k.Delete}
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return append(m.paneActions(), m.keys.NextPane, m.keys.Help, m.keys.Quit)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		m.paneActions(),
		{m.keys.Weighted, m.keys.ClearAll},
		{m.keys.NextPane, m.keys.PrevPane, m.keys.Help, m.keys.Quit},
	}
}
