// ABOUTME: Bubble Tea sub-model for a card group: name editing and per-member prefix rows.
// ABOUTME: Each row shows a state-colored dot, the card name and its editable symbol prefix.
package tui

import (
	"strings"

	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/richtext"
	"github.com/vtes-biased/rulings-website/rulings"
)

// GroupPanelModel displays and edits a group session.
type GroupPanelModel struct {
	session  *editor.GroupSession
	selected int
	width    int
}

// NewGroupPanelModel creates a panel over the given group session.
func NewGroupPanelModel(session *editor.GroupSession) GroupPanelModel {
	return GroupPanelModel{session: session}
}

// Session returns the underlying group session.
func (m *GroupPanelModel) Session() *editor.GroupSession { return m.session }

// SelectedMember returns the uid of the selected member row, empty when the
// group has no members.
func (m *GroupPanelModel) SelectedMember() string {
	cards := m.session.Group().Cards
	if len(cards) == 0 {
		return ""
	}
	if m.selected >= len(cards) {
		return cards[len(cards)-1].UID
	}
	return cards[m.selected].UID
}

// SelectedBuffer returns the prefix buffer of the selected member, nil for
// deleted members.
func (m *GroupPanelModel) SelectedBuffer() *richtext.Buffer {
	uid := m.SelectedMember()
	if uid == "" {
		return nil
	}
	return m.session.Prefix(uid)
}

// Next moves the member selection down, wrapping around.
func (m *GroupPanelModel) Next() {
	if n := len(m.session.Group().Cards); n > 0 {
		m.selected = (m.selected + 1) % n
	}
}

// Prev moves the member selection up, wrapping around.
func (m *GroupPanelModel) Prev() {
	if n := len(m.session.Group().Cards); n > 0 {
		m.selected = (m.selected - 1 + n) % n
	}
}

// SetWidth sets the available width.
func (m *GroupPanelModel) SetWidth(w int) { m.width = w }

// View renders the group header and one row per member.
func (m GroupPanelModel) View() string {
	g := m.session.Group()

	var lines []string
	header := StyleForState(g.State).Strikethrough(false).Bold(true).Render(string(g.State)) +
		" " + TitleStyle.Render(m.session.Name())
	lines = append(lines, header)

	if len(g.Cards) == 0 {
		lines = append(lines, ValueStyle.Render("No cards in this group."))
	}
	for i, member := range g.Cards {
		lines = append(lines, m.renderMember(member, i == m.selected))
	}

	style := BorderStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m GroupPanelModel) renderMember(member rulings.CardInGroup, focused bool) string {
	name := StyleForState(member.State).Render(member.Name)
	prefix := ""
	if member.State == rulings.Deleted {
		prefix = DeletedStyle.Render(member.Prefix)
	} else if buf := m.session.Prefix(member.UID); buf != nil {
		prefix = RenderBuffer(buf, focused)
	}
	row := StateDot(member.State) + " " + name
	if prefix != "" {
		row += "  " + prefix
	}
	return row
}
