// ABOUTME: Card name search field with completion suggestions, used for card tokens and group members.
// ABOUTME: Wraps a bubbles textinput; suggestions arrive asynchronously and stale ones are dropped.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtes-biased/rulings-website/api"
)

// CardSearchModel is a modal card name lookup: a text input plus the current
// completion suggestions.
type CardSearchModel struct {
	input    textinput.Model
	items    []api.CompleteItem
	selected int
	active   bool
	title    string
}

// NewCardSearchModel creates an inactive search field.
func NewCardSearchModel() CardSearchModel {
	input := textinput.New()
	input.Placeholder = "card name"
	input.CharLimit = 80
	return CardSearchModel{input: input}
}

// Activate opens the search field with the given title.
func (m *CardSearchModel) Activate(title string) {
	m.title = title
	m.active = true
	m.items = nil
	m.selected = 0
	m.input.SetValue("")
	m.input.Focus()
}

// Deactivate closes the search field.
func (m *CardSearchModel) Deactivate() {
	m.active = false
	m.input.Blur()
}

// Active reports whether the field is open.
func (m CardSearchModel) Active() bool { return m.active }

// Query returns the current input value.
func (m CardSearchModel) Query() string { return strings.TrimSpace(m.input.Value()) }

// Selected returns the highlighted suggestion, if any.
func (m CardSearchModel) Selected() (api.CompleteItem, bool) {
	if len(m.items) == 0 {
		return api.CompleteItem{}, false
	}
	if m.selected >= len(m.items) {
		return m.items[len(m.items)-1], true
	}
	return m.items[m.selected], true
}

// SetSuggestions installs completion results, ignoring answers for queries the
// user has already typed past.
func (m *CardSearchModel) SetSuggestions(msg SuggestionsMsg) {
	if msg.Query != m.Query() {
		return
	}
	m.items = msg.Items
	if m.selected >= len(m.items) {
		m.selected = 0
	}
}

// Update routes a key to the input and moves the suggestion highlight. It
// returns the updated input command, if any.
func (m *CardSearchModel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "down":
		if m.selected < len(m.items)-1 {
			m.selected++
		}
		return nil
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the search dialog with its suggestion list.
func (m CardSearchModel) View() string {
	var lines []string
	lines = append(lines, TitleStyle.Render(m.title))
	lines = append(lines, m.input.View())
	for i, item := range m.items {
		row := "  " + item.Label
		if i == m.selected {
			row = ToolbarSelectedStyle.Render("> " + item.Label)
		}
		lines = append(lines, row)
	}
	return ModalStyle.Render(strings.Join(lines, "\n"))
}
