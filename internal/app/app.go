// Package app hosts the root Bubble Tea model and the application state
// container it renders.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/internal/keys"
	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/theme"
	"github.com/ticketdesk/ticketdesk/internal/ui"
	"github.com/ticketdesk/ticketdesk/internal/ui/authform"
	"github.com/ticketdesk/ticketdesk/internal/ui/dashboard"
	"github.com/ticketdesk/ticketdesk/internal/ui/ticketform"
	"github.com/ticketdesk/ticketdesk/internal/ui/ticketlist"
)

// ToastChangedMsg is sent (via Program.Send) when the toast slot changes
// from outside the update loop, i.e. when the auto-clear timer fires.
type ToastChangedMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewSignup
	ViewDashboard
	ViewTickets
	ViewTicketCreate
	ViewTicketEdit
	ViewConfirmDelete
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the state container.
type Model struct {
	state        *State
	currentView  ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	help         help.Model
	authView     authform.Model
	listView     ticketlist.Model
	formView     ticketform.Model
	dashView     dashboard.Model
	deleteTarget model.Ticket
	ready        bool
	initCmd      tea.Cmd
}

// New creates the root model. With an active session it opens on the
// dashboard; otherwise it routes to the login form.
func New(state *State) Model {
	m := Model{
		state:    state,
		keys:     keys.DefaultKeyMap(),
		help:     help.New(),
		authView: authform.New(80, 24),
		listView: ticketlist.New(80, 24),
		formView: ticketform.New(80, 24),
		dashView: dashboard.New(80, 24),
	}

	if state.Session.Current() != nil {
		m.currentView = ViewDashboard
		m.refreshTickets()
	} else {
		m.currentView = ViewLogin
		m.initCmd = m.authView.Start(false)
	}

	return m
}

// Init returns the initial command for the starting view.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.help.Width = contentWidth
		m.authView.SetSize(contentWidth, contentHeight)
		m.listView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.dashView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case ToastChangedMsg:
		// The toast slot changed outside the update loop; repaint.
		return m, nil

	case authform.SubmitMsg:
		return m.handleAuthSubmit(msg)

	case authform.CancelMsg:
		return m, tea.Quit

	case ticketform.SubmitMsg:
		return m.handleTicketSubmit(msg)

	case ticketform.CancelMsg:
		m.currentView = ViewTickets
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleAuthSubmit establishes a session from validated credentials.
func (m Model) handleAuthSubmit(msg authform.SubmitMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	var ok bool
	if msg.Signup {
		ok = m.state.Session.Signup(ctx, msg.Email, msg.Password)
	} else {
		ok = m.state.Session.Login(ctx, msg.Email, msg.Password)
	}
	if !ok {
		// The form validates before submitting, so this only happens if a
		// view bypasses validation.
		m.state.Toasts.Push("Invalid email or password", model.ToastError)
		return m, nil
	}

	m.currentView = ViewDashboard
	m.refreshTickets()
	return m, nil
}

// handleTicketSubmit applies a create or edit from the ticket form.
func (m Model) handleTicketSubmit(msg ticketform.SubmitMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	if msg.EditID == "" {
		if _, err := m.state.Tickets.Create(ctx, msg.Draft); err != nil {
			m.state.Toasts.Push("Failed to save ticket", model.ToastError)
		} else {
			m.state.Toasts.Push("Ticket created successfully", model.ToastSuccess)
		}
	} else {
		patch := model.TicketPatch{
			Title:       &msg.Draft.Title,
			Description: &msg.Draft.Description,
			Status:      &msg.Draft.Status,
			Priority:    &msg.Draft.Priority,
		}
		found, err := m.state.Tickets.Update(ctx, msg.EditID, patch)
		switch {
		case err != nil:
			m.state.Toasts.Push("Failed to save ticket", model.ToastError)
		case !found:
			m.state.Toasts.Push("Ticket no longer exists", model.ToastError)
		default:
			m.state.Toasts.Push("Ticket updated successfully", model.ToastSuccess)
		}
	}

	m.currentView = ViewTickets
	m.refreshTickets()
	return m, nil
}

// handleGlobalKeys processes keybindings that operate outside the huh
// forms. It reports whether the key was consumed.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// The forms own almost all keys while focused.
	switch m.currentView {
	case ViewLogin, ViewSignup:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit, true
		case "ctrl+s":
			return m.switchAuthMode()
		}
		return m, nil, false

	case ViewTicketCreate, ViewTicketEdit:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit, true
		}
		return m, nil, false

	case ViewConfirmDelete:
		return m.handleConfirmKeys(msg)
	}

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Dashboard):
		if m.currentView == ViewDashboard {
			m.currentView = ViewTickets
		} else {
			m.currentView = ViewDashboard
		}
		m.refreshTickets()
		return m, nil, true

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.DismissToast):
		m.state.Toasts.Dismiss()
		return m, nil, true

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil, true

	case key.Matches(msg, m.keys.New):
		if m.currentView == ViewTickets {
			m.currentView = ViewTicketCreate
			return m, m.formView.StartCreate(), true
		}

	case key.Matches(msg, m.keys.Edit):
		if m.currentView == ViewTickets {
			t, ok := m.listView.SelectedTicket()
			if ok {
				m.currentView = ViewTicketEdit
				return m, m.formView.StartEdit(t), true
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if m.currentView == ViewTickets {
			t, ok := m.listView.SelectedTicket()
			if ok {
				m.deleteTarget = t
				m.currentView = ViewConfirmDelete
				return m, nil, true
			}
		}

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewDashboard {
			m.currentView = ViewTickets
			m.refreshTickets()
			return m, nil, true
		}
	}

	return m, nil, false
}

// handleConfirmKeys processes the delete confirmation prompt.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "y", "enter":
		found, err := m.state.Tickets.Delete(context.Background(), m.deleteTarget.ID)
		switch {
		case err != nil:
			m.state.Toasts.Push("Failed to delete ticket", model.ToastError)
		case found:
			m.state.Toasts.Push("Ticket deleted successfully", model.ToastSuccess)
		}
		m.currentView = ViewTickets
		m.deleteTarget = model.Ticket{}
		m.refreshTickets()
		return m, nil, true

	case "n", "esc":
		m.currentView = ViewTickets
		m.deleteTarget = model.Ticket{}
		return m, nil, true

	case "ctrl+c":
		return m, tea.Quit, true
	}
	return m, nil, true
}

// switchAuthMode toggles between the login and signup forms.
func (m Model) switchAuthMode() (tea.Model, tea.Cmd, bool) {
	if m.currentView == ViewLogin {
		m.currentView = ViewSignup
		return m, m.authView.Start(true), true
	}
	m.currentView = ViewLogin
	return m, m.authView.Start(false), true
}

// logout clears the session and routes back to the login form.
func (m Model) logout() (tea.Model, tea.Cmd, bool) {
	m.state.Session.Logout(context.Background())
	m.state.Toasts.Push("Logged out successfully", model.ToastSuccess)
	m.currentView = ViewLogin
	return m, m.authView.Start(false), true
}

// refreshTickets re-reads the store into the list and dashboard views.
// Store reads are synchronous, so views always observe the latest mutation.
func (m *Model) refreshTickets() {
	m.listView.SetTickets(m.state.Tickets.List())
	m.dashView.SetCounts(m.state.Tickets.StatusCounts())
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin, ViewSignup:
		m.authView, cmd = m.authView.Update(msg)
	case ViewTickets:
		m.listView, cmd = m.listView.Update(msg)
	case ViewTicketCreate, ViewTicketEdit:
		m.formView, cmd = m.formView.Update(msg)
	case ViewDashboard, ViewConfirmDelete:
		// Static content; nothing to forward.
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	right := ""
	if u := m.state.Session.Current(); u != nil {
		right = u.Email
	}
	header := m.layout.RenderHeader("TicketDesk", right)

	content := m.renderContent()
	if toast, ok := m.state.Toasts.Current(); ok {
		content = m.layout.RenderToast(toast) + "\n" + content
	}

	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin, ViewSignup:
		return m.authView.View()
	case ViewTickets:
		return m.listView.View()
	case ViewTicketCreate, ViewTicketEdit:
		return m.formView.View()
	case ViewDashboard:
		return m.dashView.View()
	case ViewConfirmDelete:
		return m.renderConfirmDelete()
	default:
		return ""
	}
}

// renderConfirmDelete renders the destructive-action prompt.
func (m Model) renderConfirmDelete() string {
	question := lipgloss.NewStyle().Bold(true).
		Render("Are you sure you want to delete this ticket?")

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		question,
		"",
		theme.StatusStyle(m.deleteTarget.Status).Render(m.deleteTarget.Title),
		"",
		theme.HelpStyle.Render("y delete | n keep"),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(theme.CardStyle.Render(body))
}

// keyHints returns keyboard shortcut hints for the status bar. The huh
// forms and the confirmation prompt own their own keys, so those views get
// a literal hint line; the main views render the shared keymap.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin, ViewSignup:
		return "enter submit | ctrl+s switch mode | ctrl+c quit"
	case ViewTicketCreate, ViewTicketEdit:
		return "enter submit | esc cancel"
	case ViewConfirmDelete:
		return "y delete | n keep"
	default:
		return m.help.View(m.keys)
	}
}
