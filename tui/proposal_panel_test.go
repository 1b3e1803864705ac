// ABOUTME: Tests for the proposal cart summary panel.
// ABOUTME: Sections appear only when non-empty; entries show names over uids.
package tui

import (
	"strings"
	"testing"

	"github.com/vtes-biased/rulings-website/rulings"
)

func TestProposalPanelEmptyCart(t *testing.T) {
	m := NewProposalPanelModel(rulings.Proposal{Name: "Errata batch"})
	view := m.View()
	if !strings.Contains(view, "Errata batch") {
		t.Errorf("View() should show the proposal name, got %q", view)
	}
	if strings.Contains(view, "Groups") || strings.Contains(view, "Cards") {
		t.Errorf("empty sections must be hidden, got %q", view)
	}
	if !strings.Contains(view, "Nothing in the cart") {
		t.Errorf("empty cart should say so, got %q", view)
	}
}

func TestProposalPanelSections(t *testing.T) {
	m := NewProposalPanelModel(rulings.Proposal{
		Name:   "Errata batch",
		Groups: []rulings.NID{{UID: "G00000001", Name: "Bleed modifiers"}},
		Cards:  []rulings.NID{{UID: "100038", Name: "Aid from Bats"}},
	})
	view := m.View()
	for _, want := range []string{"Groups", "Bleed modifiers", "Cards", "Aid from Bats"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q, got %q", want, view)
		}
	}
	if strings.Contains(view, "Nothing in the cart") {
		t.Error("non-empty cart should not show the empty notice")
	}
}

func TestProposalPanelFallsBackToUID(t *testing.T) {
	m := NewProposalPanelModel(rulings.Proposal{
		Cards: []rulings.NID{{UID: "100038"}},
	})
	if !strings.Contains(m.View(), "100038") {
		t.Errorf("nameless entry should show its uid, got %q", m.View())
	}
}

func TestProposalPanelSetProposal(t *testing.T) {
	m := NewProposalPanelModel(rulings.Proposal{})
	m.SetProposal(rulings.Proposal{Description: "cleanup pass"})
	if !strings.Contains(m.View(), "cleanup pass") {
		t.Errorf("View() should show the description, got %q", m.View())
	}
}
