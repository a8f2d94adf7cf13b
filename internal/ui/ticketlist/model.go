// Package ticketlist renders the newest-first ticket collection.
package ticketlist

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/theme"
)

// Model is the ticket list view component.
type Model struct {
	list   list.Model
	width  int
	height int
}

// New creates a new ticket list model.
func New(width, height int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = theme.SelectedItemStyle
	delegate.Styles.SelectedDesc = theme.SelectedItemStyle.Bold(false)

	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Tickets"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		width:  width,
		height: height,
	}
}

// SetTickets replaces the displayed collection. The store already keeps
// tickets newest-first, so order is preserved as-is.
func (m *Model) SetTickets(tickets []model.Ticket) {
	items := make([]list.Item, len(tickets))
	for i, t := range tickets {
		items[i] = TicketItem{Ticket: t}
	}
	m.list.SetItems(items)
}

// SelectedTicket returns the currently highlighted ticket, if any.
func (m Model) SelectedTicket() (model.Ticket, bool) {
	item, ok := m.list.SelectedItem().(TicketItem)
	if !ok {
		return model.Ticket{}, false
	}
	return item.Ticket, true
}

// Update handles messages for the ticket list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
