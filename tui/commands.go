// ABOUTME: Bubble Tea commands wrapping the editor's network operations.
// ABOUTME: Each command runs blocking work off the update loop and reports back as a message.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
)

const opTimeout = 10 * time.Second

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func report(err error) tea.Msg {
	if err != nil {
		return SessionErrorMsg{Err: err}
	}
	return SessionAppliedMsg{}
}

// saveRulingCmd flushes a session's pending edits immediately.
func saveRulingCmd(s *editor.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.Save(ctx))
	}
}

// deleteRulingCmd deletes the session's ruling.
func deleteRulingCmd(s *editor.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.Delete(ctx))
	}
}

// restoreRulingCmd reverts the session's ruling to its base version.
func restoreRulingCmd(s *editor.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.Restore(ctx))
	}
}

// newRulingCmd creates an empty ruling on the target and hands the fresh
// session back to the app.
func newRulingCmd(client *api.Client, cart *editor.Cart, target rulings.NID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		s, err := editor.NewRuling(ctx, client, cart, target)
		if err != nil {
			return SessionErrorMsg{Err: err}
		}
		return RulingCreatedMsg{Session: s}
	}
}

// attachReferenceCmd attaches a reference to a session and saves.
func attachReferenceCmd(s *editor.Session, ref rulings.Reference) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.AttachReference(ctx, ref))
	}
}

// removeReferenceCmd detaches a reference from a session and saves.
func removeReferenceCmd(s *editor.Session, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.RemoveReference(ctx, uid))
	}
}

// completeCmd queries card name completion for a search field.
func completeCmd(client *api.Client, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		items, err := client.Complete(ctx, query)
		if err != nil {
			return SessionErrorMsg{Err: err}
		}
		return SuggestionsMsg{Query: query, Items: items}
	}
}

// addGroupCardCmd adds a card to the group and saves.
func addGroupCardCmd(s *editor.GroupSession, uid, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.AddCard(ctx, uid, name))
	}
}

// removeGroupCardCmd removes a member from the group and saves.
func removeGroupCardCmd(s *editor.GroupSession, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.RemoveCard(ctx, uid))
	}
}

// restoreGroupCardCmd reverts one membership to its base version.
func restoreGroupCardCmd(s *editor.GroupSession, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.RestoreCard(ctx, uid))
	}
}

// deleteGroupCmd deletes the whole group.
func deleteGroupCmd(s *editor.GroupSession) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.Delete(ctx))
	}
}

// restoreGroupCmd reverts the group to its base version.
func restoreGroupCmd(s *editor.GroupSession) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return report(s.Restore(ctx))
	}
}
