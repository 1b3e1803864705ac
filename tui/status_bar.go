// ABOUTME: Implements a single-line status bar for the bottom of the editor screen.
// ABOUTME: Displays the proposal name, the edited target and the pending-save indicator.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays the editing context in a single line.
type StatusBarModel struct {
	proposalName string
	targetName   string
	cardCount    int
	groupCount   int
	saving       bool
	width        int
}

// NewStatusBarModel creates a StatusBarModel for the given proposal name.
func NewStatusBarModel(proposalName string) StatusBarModel {
	return StatusBarModel{proposalName: proposalName}
}

// SetProposalName updates the displayed proposal name.
func (m *StatusBarModel) SetProposalName(name string) {
	m.proposalName = name
}

// SetTarget sets the name of the card or group being edited.
func (m *StatusBarModel) SetTarget(name string) {
	m.targetName = name
}

// SetCartCounts updates the cart section tallies.
func (m *StatusBarModel) SetCartCounts(cards, groups int) {
	m.cardCount = cards
	m.groupCount = groups
}

// SetSaving toggles the pending-save indicator.
func (m *StatusBarModel) SetSaving(saving bool) {
	m.saving = saving
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	proposal := m.proposalName
	if proposal == "" {
		proposal = "unnamed"
	}
	state := "saved"
	if m.saving {
		state = "saving..."
	}
	content := fmt.Sprintf("Proposal: %s | Editing: %s | Cart: %d cards, %d groups | %s",
		proposal, m.targetName, m.cardCount, m.groupCount, state)

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
