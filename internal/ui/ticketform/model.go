// Package ticketform renders the ticket create/edit form. The required
// title check lives here so the ticket store can stay a thin data
// structure.
package ticketform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/theme"
)

// SubmitMsg is dispatched when the form is submitted. EditID is empty for
// a create and carries the ticket id for an edit.
type SubmitMsg struct {
	EditID string
	Draft  model.TicketDraft
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	priority    string
}

// Model is the Bubble Tea model for the ticket create/edit form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	editID string
	width  int
	height int
}

// New creates a new ticket form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.StatusOpen, priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new ticket.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = model.StatusOpen
	m.fb.priority = model.PriorityMedium
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing ticket's fields.
func (m *Model) StartEdit(t model.Ticket) tea.Cmd {
	m.editID = t.ID
	m.fb.title = t.Title
	m.fb.description = t.Description
	m.fb.status = t.Status
	m.fb.priority = t.Priority
	if m.fb.priority == "" {
		m.fb.priority = model.PriorityMedium
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the ticket form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the ticket form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Ticket"
	if m.editID != "" {
		titleText = "Edit Ticket"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Short summary of the issue").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Open", model.StatusOpen),
					huh.NewOption("In Progress", model.StatusInProgress),
					huh.NewOption("Closed", model.StatusClosed),
				).
				Value(&m.fb.status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("High", model.PriorityHigh),
				).
				Value(&m.fb.priority),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) handleSubmit() tea.Cmd {
	editID := m.editID
	draft := model.TicketDraft{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Status:      m.fb.status,
		Priority:    m.fb.priority,
	}
	return func() tea.Msg {
		return SubmitMsg{EditID: editID, Draft: draft}
	}
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Title is required")
	}
	return nil
}
