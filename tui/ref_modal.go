// ABOUTME: Reference attachment modal: uid and url lookups plus the fixed rulebook list.
// ABOUTME: Exactly one action is ever enabled, mirroring the picker's add-new/add-existing invariant.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
)

// refField identifies which modal input has focus.
type refField int

const (
	refFieldUID refField = iota
	refFieldURL
)

// RefModalModel is the add-reference dialog. It drives an editor.Picker and
// reflects its lookup state.
type RefModalModel struct {
	picker   *editor.Picker
	uidInput textinput.Model
	urlInput textinput.Model
	focus    refField
	rulebook int // index into rulings.RulebookReferences, -1 when none picked
	active   bool
}

// NewRefModalModel creates an inactive modal over the given picker.
func NewRefModalModel(picker *editor.Picker) RefModalModel {
	uid := textinput.New()
	uid.Placeholder = "SRC YYYYMMDD"
	uid.CharLimit = 40
	url := textinput.New()
	url.Placeholder = "https://..."
	url.CharLimit = 200
	return RefModalModel{picker: picker, uidInput: uid, urlInput: url, rulebook: -1}
}

// Activate opens the modal with a blank picker.
func (m *RefModalModel) Activate() {
	m.picker.Reset()
	m.uidInput.SetValue("")
	m.urlInput.SetValue("")
	m.focus = refFieldUID
	m.rulebook = -1
	m.active = true
	m.uidInput.Focus()
	m.urlInput.Blur()
}

// Deactivate closes the modal.
func (m *RefModalModel) Deactivate() {
	m.active = false
	m.uidInput.Blur()
	m.urlInput.Blur()
}

// Active reports whether the modal is open.
func (m RefModalModel) Active() bool { return m.active }

// Picker returns the underlying picker.
func (m *RefModalModel) Picker() *editor.Picker { return m.picker }

// Update routes a key press. Tab switches fields, ctrl+k cycles the rulebook
// list, enter either runs the pending lookup or confirms the enabled action.
func (m *RefModalModel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.toggleFocus()
		return nil
	case "ctrl+k":
		m.cycleRulebook()
		return nil
	case "enter":
		return m.confirm()
	}
	var cmd tea.Cmd
	if m.focus == refFieldUID {
		m.uidInput, cmd = m.uidInput.Update(msg)
	} else {
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return cmd
}

func (m *RefModalModel) toggleFocus() {
	if m.focus == refFieldUID {
		m.focus = refFieldURL
		m.uidInput.Blur()
		m.urlInput.Focus()
	} else {
		m.focus = refFieldUID
		m.urlInput.Blur()
		m.uidInput.Focus()
	}
}

func (m *RefModalModel) cycleRulebook() {
	m.rulebook = (m.rulebook + 1) % len(rulings.RulebookReferences)
	ref := rulings.RulebookReferences[m.rulebook]
	m.picker.SelectRulebook(ref.UID)
	m.uidInput.SetValue(ref.UID)
	m.urlInput.SetValue(ref.URL)
}

// confirm runs the action enter currently maps to: attach when one of the two
// buttons is enabled, otherwise look the focused field up.
func (m *RefModalModel) confirm() tea.Cmd {
	picker := m.picker
	switch {
	case picker.CanAddExisting():
		ref := *picker.Existing()
		return func() tea.Msg { return ReferenceAttachedMsg{Reference: ref} }
	case picker.CanAddNew():
		return func() tea.Msg {
			ref, err := picker.AddNew(context.Background())
			if err != nil {
				if picker.InlineError() == "" {
					return SessionErrorMsg{Err: err}
				}
				return LookupDoneMsg{}
			}
			return ReferenceAttachedMsg{Reference: *ref}
		}
	case m.focus == refFieldUID:
		uid := m.uidInput.Value()
		return func() tea.Msg {
			if err := picker.LookupUID(context.Background(), uid); err != nil {
				return SessionErrorMsg{Err: err}
			}
			return LookupDoneMsg{}
		}
	default:
		url := m.urlInput.Value()
		return func() tea.Msg {
			if err := picker.LookupURL(context.Background(), url); err != nil {
				return SessionErrorMsg{Err: err}
			}
			return LookupDoneMsg{}
		}
	}
}

// View renders the modal: inputs, lookup outcome, inline error and hints.
func (m RefModalModel) View() string {
	var lines []string
	lines = append(lines, TitleStyle.Render("ADD REFERENCE"))
	lines = append(lines, LabelStyle.Render("UID:")+m.uidInput.View())
	lines = append(lines, LabelStyle.Render("URL:")+m.urlInput.View())

	if inlineErr := m.picker.InlineError(); inlineErr != "" {
		lines = append(lines, InlineErrorStyle.Render(inlineErr))
	}
	switch {
	case m.picker.CanAddExisting():
		lines = append(lines, NewStyle.Render("enter: attach "+m.picker.Existing().UID))
	case m.picker.CanAddNew():
		lines = append(lines, NewStyle.Render("enter: create and attach "+m.picker.UID()))
	default:
		lines = append(lines, ToolbarStyle.Render("enter: look up | tab: switch field"))
	}
	lines = append(lines, ToolbarStyle.Render("ctrl+k: rulebook pages | esc: close"))
	return ModalStyle.Render(strings.Join(lines, "\n"))
}
