// ABOUTME: Tests for the state-to-style mapping used across the editor panels.
// ABOUTME: Verifies each entity state has a distinct style and unknown states fall back safely.
package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vtes-biased/rulings-website/rulings"
)

func TestStyleForStateMapping(t *testing.T) {
	tests := []struct {
		state rulings.State
		want  lipgloss.TerminalColor
	}{
		{rulings.Original, OriginalStyle.GetForeground()},
		{rulings.New, NewStyle.GetForeground()},
		{rulings.Modified, ModifiedStyle.GetForeground()},
		{rulings.Deleted, DeletedStyle.GetForeground()},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := StyleForState(tt.state).GetForeground(); got != tt.want {
				t.Errorf("StyleForState(%s) foreground = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestStyleForStateDeletedStrikesThrough(t *testing.T) {
	if !StyleForState(rulings.Deleted).GetStrikethrough() {
		t.Error("deleted state must render strikethrough")
	}
	if StyleForState(rulings.Original).GetStrikethrough() {
		t.Error("original state must not render strikethrough")
	}
}

func TestStyleForStateUnknownFallsBack(t *testing.T) {
	got := StyleForState(rulings.State("BOGUS"))
	if got.GetStrikethrough() {
		t.Error("fallback style must not strike through")
	}
}

func TestStateDotNeverStrikesThrough(t *testing.T) {
	dot := StateDot(rulings.Deleted)
	if dot == "" {
		t.Fatal("expected a marker")
	}
}
