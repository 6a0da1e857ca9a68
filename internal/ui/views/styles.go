// Package views holds the lipgloss style definitions shared by the list
// views.
package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	TabCount     lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Filter       lipgloss.Style
	SelectionBg  lipgloss.Style
	Pending      lipgloss.Style
	Approved     lipgloss.Style
	Rejected     lipgloss.Style
	EmptyState   lipgloss.Style
	LoadingMore  lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1),
		TabCount:    lipgloss.NewStyle().Faint(true),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Approved:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Rejected:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		EmptyState:  lipgloss.NewStyle().Faint(true).Italic(true).MarginTop(1),
		LoadingMore: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Help:        lipgloss.NewStyle().Faint(true),
	}
}
