// Package authform renders the login/signup form with inline field
// validation. Validation happens here, before the session manager is ever
// invoked, so the manager only sees well-formed input.
package authform

import (
	"errors"
	"regexp"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/internal/theme"
)

// emailRe is a permissive anything@anything.anything check; real address
// validation happens nowhere because there is no server to verify against.
var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// SubmitMsg is dispatched when the user submits valid credentials.
type SubmitMsg struct {
	Email    string
	Password string
	Signup   bool
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the Bubble Tea model for the login/signup form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	signup bool
	width  int
	height int
}

// New creates a new auth form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form in login or signup mode.
func (m *Model) Start(signup bool) tea.Cmd {
	m.signup = signup
	m.fb.email = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Signup reports whether the form is in signup mode.
func (m Model) Signup() bool {
	return m.signup
}

// Update handles messages for the auth form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		email := m.fb.email
		password := m.fb.password
		signup := m.signup
		return m, func() tea.Msg {
			return SubmitMsg{Email: email, Password: password, Signup: signup}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the auth form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Welcome Back"
	hint := "ctrl+s switch to signup"
	if m.signup {
		titleText = "Create Account"
		hint = "ctrl+s switch to login"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" +
		m.form.View() + "\n" +
		theme.HelpStyle.Render(hint)

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
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func validateEmail(s string) error {
	if s == "" {
		return errors.New("Email is required")
	}
	if !emailRe.MatchString(s) {
		return errors.New("Email is invalid")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return errors.New("Password is required")
	}
	if len(s) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}
