// ABOUTME: Bubble Tea sub-model summarizing the proposal cart: touched groups and cards.
// ABOUTME: Sections render only when non-empty; the panel overlays the editor when toggled.
package tui

import (
	"strings"

	"github.com/vtes-biased/rulings-website/rulings"
)

// ProposalPanelModel displays the proposal cart summary.
type ProposalPanelModel struct {
	proposal rulings.Proposal
	width    int
}

// NewProposalPanelModel creates a panel over the given proposal snapshot.
func NewProposalPanelModel(p rulings.Proposal) ProposalPanelModel {
	return ProposalPanelModel{proposal: p}
}

// SetProposal replaces the displayed snapshot.
func (m *ProposalPanelModel) SetProposal(p rulings.Proposal) {
	m.proposal = p
}

// Proposal returns the displayed snapshot.
func (m ProposalPanelModel) Proposal() rulings.Proposal { return m.proposal }

// SetWidth sets the available width.
func (m *ProposalPanelModel) SetWidth(w int) { m.width = w }

// View renders the cart: name, description and the non-empty sections.
func (m ProposalPanelModel) View() string {
	var lines []string
	lines = append(lines, TitleStyle.Render("PROPOSAL"))

	name := m.proposal.Name
	if name == "" {
		name = "unnamed"
	}
	lines = append(lines, LabelStyle.Render("Name:")+ValueStyle.Render(name))
	if m.proposal.Description != "" {
		lines = append(lines, LabelStyle.Render("Description:")+ValueStyle.Render(m.proposal.Description))
	}

	if len(m.proposal.Groups) > 0 {
		lines = append(lines, "")
		lines = append(lines, TitleStyle.Render("Groups"))
		for _, nid := range m.proposal.Groups {
			lines = append(lines, "  "+ValueStyle.Render(displayName(nid)))
		}
	}
	if len(m.proposal.Cards) > 0 {
		lines = append(lines, "")
		lines = append(lines, TitleStyle.Render("Cards"))
		for _, nid := range m.proposal.Cards {
			lines = append(lines, "  "+ValueStyle.Render(displayName(nid)))
		}
	}
	if len(m.proposal.Groups) == 0 && len(m.proposal.Cards) == 0 {
		lines = append(lines, "")
		lines = append(lines, ValueStyle.Render("Nothing in the cart yet."))
	}

	style := ModalStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func displayName(nid rulings.NID) string {
	if nid.Name != "" {
		return nid.Name
	}
	return nid.UID
}
