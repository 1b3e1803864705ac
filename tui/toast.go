// ABOUTME: Shared toast line showing transient notifications and save errors.
// ABOUTME: Every toast auto-expires; a newer toast supersedes the pending expiry of an older one.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 4 * time.Second

// ToastModel is the single shared notification line at the bottom of the
// screen. Errors render on a red background.
type ToastModel struct {
	text  string
	isErr bool
	seq   int
}

// NewToastModel returns an empty toast.
func NewToastModel() ToastModel {
	return ToastModel{}
}

// Show displays a message and returns the command scheduling its expiry.
func (m *ToastModel) Show(text string, isErr bool) tea.Cmd {
	m.text = text
	m.isErr = isErr
	m.seq++
	id := m.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Expire clears the toast if the expiry matches the latest Show call.
func (m *ToastModel) Expire(msg ToastExpiredMsg) {
	if msg.ID == m.seq {
		m.text = ""
	}
}

// Visible reports whether a toast is currently displayed.
func (m ToastModel) Visible() bool { return m.text != "" }

// View renders the toast line, empty when nothing is displayed.
func (m ToastModel) View() string {
	if m.text == "" {
		return ""
	}
	if m.isErr {
		return ToastErrorStyle.Render(m.text)
	}
	return ToastStyle.Render(m.text)
}
