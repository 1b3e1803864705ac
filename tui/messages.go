// ABOUTME: Bubble Tea message types used in the editor's message loop.
// ABOUTME: Each type wraps a domain event for the tea.Msg interface (which is interface{}).
package tui

import (
	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
)

// SessionAppliedMsg signals that a session applied an authoritative server
// response and its view needs a refresh.
type SessionAppliedMsg struct{}

// SessionErrorMsg carries a save or lookup failure to the shared toast.
type SessionErrorMsg struct {
	Err error
}

// CartChangedMsg carries a fresh cart snapshot after a registration.
type CartChangedMsg struct {
	Proposal rulings.Proposal
}

// ToastExpiredMsg clears the toast after its display window.
type ToastExpiredMsg struct {
	ID int
}

// SuggestionsMsg carries card name completion results for a search field.
type SuggestionsMsg struct {
	Query string
	Items []api.CompleteItem
}

// ReferenceAttachedMsg signals that the reference modal attached a reference
// and can be closed.
type ReferenceAttachedMsg struct {
	Reference rulings.Reference
}

// LookupDoneMsg signals that a picker lookup finished; the modal re-reads the
// picker state to update its buttons.
type LookupDoneMsg struct{}

// RulingCreatedMsg carries a freshly created empty ruling session.
type RulingCreatedMsg struct {
	Session *editor.Session
}
