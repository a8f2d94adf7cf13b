// Package dashboard renders per-status ticket counts.
package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/theme"
)

// stat pairs a label with the status key it counts. An empty key means the
// total across all statuses.
type stat struct {
	label  string
	status string
}

var stats = []stat{
	{label: "Total Tickets"},
	{label: "Open", status: model.StatusOpen},
	{label: "In Progress", status: model.StatusInProgress},
	{label: "Closed", status: model.StatusClosed},
}

// Model is the dashboard view component.
type Model struct {
	counts map[string]int
	total  int
	width  int
	height int
}

// New creates a new dashboard model.
func New(width, height int) Model {
	return Model{
		counts: map[string]int{},
		width:  width,
		height: height,
	}
}

// SetCounts replaces the per-status counts shown by the dashboard.
func (m *Model) SetCounts(counts map[string]int) {
	m.counts = counts
	m.total = 0
	for _, n := range counts {
		m.total += n
	}
}

// View renders the stat cards side by side.
func (m Model) View() string {
	cards := make([]string, 0, len(stats))
	for _, s := range stats {
		value := m.total
		style := theme.CardStyle
		if s.status != "" {
			value = m.counts[s.status]
			style = style.BorderForeground(
				theme.StatusStyle(s.status).GetForeground())
		}

		card := lipgloss.JoinVertical(
			lipgloss.Center,
			theme.HelpStyle.Render(s.label),
			lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d", value)),
		)
		cards = append(cards, style.Render(card))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(row)
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
