// ABOUTME: Bubble Tea sub-model listing a target's ruling sessions as state-colored cards.
// ABOUTME: One session is selected for editing; deleted rulings stay visible as strikethrough tombstones.
package tui

import (
	"strings"

	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
)

// RulingListModel displays every ruling session of the current target.
type RulingListModel struct {
	sessions []*editor.Session
	selected int
	width    int
}

// NewRulingListModel creates a list over the given sessions.
func NewRulingListModel(sessions []*editor.Session) RulingListModel {
	return RulingListModel{sessions: sessions}
}

// Sessions returns the underlying sessions.
func (m *RulingListModel) Sessions() []*editor.Session { return m.sessions }

// Add appends a session and selects it.
func (m *RulingListModel) Add(s *editor.Session) {
	m.sessions = append(m.sessions, s)
	m.selected = len(m.sessions) - 1
}

// Selected returns the selected session, nil when the list is empty.
func (m *RulingListModel) Selected() *editor.Session {
	if len(m.sessions) == 0 {
		return nil
	}
	return m.sessions[m.selected]
}

// Next moves the selection down, wrapping around.
func (m *RulingListModel) Next() {
	if len(m.sessions) > 0 {
		m.selected = (m.selected + 1) % len(m.sessions)
	}
}

// Prev moves the selection up, wrapping around.
func (m *RulingListModel) Prev() {
	if len(m.sessions) > 0 {
		m.selected = (m.selected - 1 + len(m.sessions)) % len(m.sessions)
	}
}

// Prune drops sessions whose entity is fully gone, keeping the selection on a
// live session.
func (m *RulingListModel) Prune() {
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if !s.Gone() {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	if m.selected >= len(m.sessions) {
		m.selected = len(m.sessions) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// SetWidth sets the available width.
func (m *RulingListModel) SetWidth(w int) { m.width = w }

// View renders all ruling cards, the selected one with a highlighted border.
func (m RulingListModel) View() string {
	if len(m.sessions) == 0 {
		return ValueStyle.Render("No rulings yet.")
	}
	cards := make([]string, 0, len(m.sessions))
	for i, s := range m.sessions {
		cards = append(cards, m.renderCard(s, i == m.selected))
	}
	return strings.Join(cards, "\n")
}

// renderCard renders a single ruling: state header, the editable text, the
// reference badges and the missing-reference warning.
func (m RulingListModel) renderCard(s *editor.Session, focused bool) string {
	r := s.Ruling()

	var lines []string
	lines = append(lines, StyleForState(r.State).Strikethrough(false).Bold(true).Render(string(r.State)))

	if r.State == rulings.Deleted {
		lines = append(lines, DeletedStyle.Render(RenderNodes(s.Buffer().Nodes())))
	} else {
		lines = append(lines, RenderBuffer(s.Buffer(), focused))
	}

	if badges := ReferenceBadges(r.References); badges != "" {
		lines = append(lines, badges)
	}
	if s.NeedsReference() && r.State != rulings.Deleted {
		lines = append(lines, WarningStyle.Render("! this ruling needs a reference"))
	}

	style := BorderStyle
	if focused {
		style = FocusedBorderStyle
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}
