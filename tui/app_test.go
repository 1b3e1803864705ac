// ABOUTME: Tests for the top-level app model: layout guards, key routing and message handling.
package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/api/apitest"
	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/richtext"
	"github.com/vtes-biased/rulings-website/rulings"
)

func press(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	app, ok := updated.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", updated)
	}
	return app, cmd
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestAppViewGuards(t *testing.T) {
	r := newRig(t)
	m := r.cardApp(t)

	if view := m.View(); !strings.Contains(view, "Initializing") {
		t.Errorf("view before sizing = %q", view)
	}
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 30, Height: 8})
	if view := m.View(); !strings.Contains(view, "Terminal too small (30x8)") {
		t.Errorf("view on tiny terminal = %q", view)
	}
}

func TestAppCardScreen(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	view := m.View()
	if !strings.Contains(view, "Aid from Bats") {
		t.Errorf("view should show the card name, got %q", view)
	}
	if !strings.Contains(view, "The action is undirected.") {
		t.Errorf("view should show the ruling, got %q", view)
	}
	if !strings.Contains(view, "Proposal:") {
		t.Errorf("view should show the status bar, got %q", view)
	}
}

func TestAppTabCyclesRulings(t *testing.T) {
	r := newRig(t)
	r.ix.AddBaseRuling(testCardUID, "Another ruling. [LSJ 20040518]")
	m := sized(t, r.cardApp(t))

	first := m.rulings.Selected().Ruling().UID
	m, _ = press(t, m, key(tea.KeyTab))
	second := m.rulings.Selected().Ruling().UID
	if first == second {
		t.Fatal("tab should change the selected ruling")
	}
	if got := m.pos.Field(); got != "ruling:"+second {
		t.Errorf("caret tracker field = %q, want ruling:%s", got, second)
	}
	m, _ = press(t, m, key(tea.KeyShiftTab))
	if got := m.rulings.Selected().Ruling().UID; got != first {
		t.Errorf("shift+tab should cycle back to %s, got %s", first, got)
	}
}

func TestAppTypingEditsSelectedRuling(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	m, _ = press(t, m, runes("zz"))
	s := m.rulings.Selected()
	if text := RenderNodes(s.Buffer().Nodes()); !strings.Contains(text, "zz") {
		t.Errorf("typed runes missing from buffer, got %q", text)
	}
	if !strings.Contains(m.View(), "saving...") {
		t.Error("typing should show the pending-save indicator")
	}
	m, _ = press(t, m, SessionAppliedMsg{})
	if strings.Contains(m.View(), "saving...") {
		t.Error("applied save should clear the pending-save indicator")
	}
}

func TestAppSymbolInsertion(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	before := len(m.rulings.Selected().Buffer().Nodes())
	m, _ = press(t, m, key(tea.KeyCtrlB))
	if got := len(m.rulings.Selected().Buffer().Nodes()); got != before+1 {
		t.Errorf("ctrl+b should insert an icon node, nodes %d -> %d", before, got)
	}
}

func TestAppProposalOverlay(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	m, _ = press(t, m, key(tea.KeyCtrlP))
	if view := m.View(); !strings.Contains(view, "Nothing in the cart yet.") {
		t.Errorf("proposal overlay = %q", view)
	}
	m, _ = press(t, m, key(tea.KeyEsc))
	if view := m.View(); strings.Contains(view, "Nothing in the cart yet.") {
		t.Errorf("esc should close the overlay, got %q", view)
	}
}

func TestAppRefModal(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	m, _ = press(t, m, key(tea.KeyCtrlR))
	if view := m.View(); !strings.Contains(view, "ADD REFERENCE") {
		t.Errorf("ctrl+r should open the reference modal, got %q", view)
	}
	m, _ = press(t, m, key(tea.KeyEsc))
	if view := m.View(); strings.Contains(view, "ADD REFERENCE") {
		t.Errorf("esc should close the modal, got %q", view)
	}
}

func TestAppCardSearch(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	m, _ = press(t, m, key(tea.KeyCtrlF))
	if view := m.View(); !strings.Contains(view, "INSERT CARD") {
		t.Errorf("ctrl+f should open the card search, got %q", view)
	}

	// Typing a new query schedules a completion request.
	m, cmd := press(t, m, runes("def"))
	if cmd == nil {
		t.Fatal("typing a query should schedule a completion command")
	}

	m, _ = press(t, m, SuggestionsMsg{Query: "def", Items: mustComplete(t, r, "def")})
	m, _ = press(t, m, key(tea.KeyEnter))
	s := m.rulings.Selected()
	if text := RenderNodes(s.Buffer().Nodes()); !strings.Contains(text, "Deflection") {
		t.Errorf("enter should insert the card token, got %q", text)
	}
}

func mustComplete(t *testing.T, r *rig, query string) []api.CompleteItem {
	t.Helper()
	items, err := r.client.Complete(context.Background(), query)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("no completion for %q", query)
	}
	return items
}

func TestAppSessionErrorToast(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	m, cmd := press(t, m, SessionErrorMsg{Err: errors.New("save rejected")})
	if cmd == nil {
		t.Fatal("an error should schedule the toast expiry")
	}
	if view := m.View(); !strings.Contains(view, "save rejected") {
		t.Errorf("view should show the error toast, got %q", view)
	}
}

func TestAppRulingCreated(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	fresh, err := editor.NewRuling(context.Background(), r.client, r.cart,
		rulings.NID{UID: testCardUID, Name: "Aid from Bats"})
	if err != nil {
		t.Fatalf("new ruling: %v", err)
	}
	m, _ = press(t, m, RulingCreatedMsg{Session: fresh})
	if m.rulings.Selected() != fresh {
		t.Fatal("a created ruling should be selected")
	}
}

func TestAppCartChangeUpdatesStatus(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	p := r.cart.Proposal()
	p.Cards = []rulings.NID{{UID: testCardUID, Name: "Aid from Bats"}}
	m, _ = press(t, m, CartChangedMsg{Proposal: p})
	if view := m.View(); !strings.Contains(view, "1 cards") {
		t.Errorf("status bar should count cart cards, got %q", view)
	}
}

func TestAppWireDeliversCartChanges(t *testing.T) {
	r := newRig(t)
	m := r.cardApp(t)

	var got []tea.Msg
	m.Wire(func(msg tea.Msg) { got = append(got, msg) })
	r.cart.Register(rulings.NID{UID: testCardUID, Name: "Aid from Bats"})

	found := false
	for _, msg := range got {
		if _, ok := msg.(CartChangedMsg); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("cart registration should emit CartChangedMsg through the wire")
	}
}

func TestAppGroupScreen(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.groupApp(t))

	view := m.View()
	if !strings.Contains(view, "Bleed modifiers") {
		t.Errorf("view should show the group name, got %q", view)
	}
	if !strings.Contains(view, "Aid from Bats") {
		t.Errorf("view should list group members, got %q", view)
	}

	// Tab moves the member selection.
	first := m.group.SelectedMember()
	m, _ = press(t, m, key(tea.KeyTab))
	if m.group.SelectedMember() == first {
		t.Fatal("tab should change the selected member")
	}

	// Plain typing edits the group name.
	m, _ = press(t, m, runes("!"))
	if got := m.group.Session().Name(); got != "Bleed modifiers!" {
		t.Errorf("group name after typing = %q", got)
	}
	m, _ = press(t, m, key(tea.KeyBackspace))
	if got := m.group.Session().Name(); got != "Bleed modifiers" {
		t.Errorf("group name after backspace = %q", got)
	}
}

func TestAppGroupMemberSearch(t *testing.T) {
	r := newRig(t)
	r.ix.AddCard(apitest.Card{UID: "100404", Name: "Cloak the Gathering", Img: "cloakthegathering.jpg"})
	m := sized(t, r.groupApp(t))

	m, _ = press(t, m, key(tea.KeyCtrlF))
	if view := m.View(); !strings.Contains(view, "ADD CARD TO GROUP") {
		t.Errorf("ctrl+f should open the member search, got %q", view)
	}

	m, _ = press(t, m, runes("clo"))
	m, _ = press(t, m, SuggestionsMsg{Query: "clo", Items: mustComplete(t, r, "clo")})
	_, cmd := press(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter should schedule the add-member command")
	}
	msg := cmd()
	if _, ok := msg.(SessionAppliedMsg); !ok {
		t.Fatalf("add-member result = %T, want SessionAppliedMsg", msg)
	}
	members := m.group.Session().Group().Cards
	found := false
	for _, member := range members {
		if member.UID == "100404" && member.State == rulings.New {
			found = true
		}
	}
	if !found {
		t.Fatalf("new member missing from group, got %+v", members)
	}
}

func TestAppSymbolInsertionAtTrackedCaret(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	// Move the caret to the start; the tracker follows and ctrl+b lands there.
	m, _ = press(t, m, key(tea.KeyHome))
	m, _ = press(t, m, key(tea.KeyCtrlB))
	nodes := m.rulings.Selected().Buffer().Nodes()
	if len(nodes) == 0 || nodes[0].Kind != richtext.KindIcon {
		t.Fatalf("expected the icon at the tracked caret, got %+v", nodes)
	}
}

func TestAppSymbolInsertionIgnoresStaleField(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	before := len(m.rulings.Selected().Buffer().Nodes())
	m.pos.Focus(testCardUID, "ruling:vanished")
	m, _ = press(t, m, key(tea.KeyCtrlB))
	if got := len(m.rulings.Selected().Buffer().Nodes()); got != before {
		t.Errorf("ctrl+b on a vanished field should not edit, nodes %d -> %d", before, got)
	}
}

func TestAppAttachFallsBackOnStaleField(t *testing.T) {
	r := newRig(t)
	r.ix.AddBaseReference(rulings.Reference{
		UID: "RTR 20050101", URL: "https://groups.google.com/d/msg/rtgn/rtr",
		Source: "RTR", Date: "2005-01-01",
	})
	m := sized(t, r.cardApp(t))

	m.pos.Focus(testCardUID, "ruling:vanished")
	ref := rulings.Reference{UID: "RTR 20050101", URL: "https://groups.google.com/d/msg/rtgn/rtr"}
	m, cmd := press(t, m, ReferenceAttachedMsg{Reference: ref})
	if cmd == nil {
		t.Fatal("attach should schedule the session update")
	}
	if got := m.pos.Field(); got != "" {
		t.Errorf("stale field should be dropped, got %q", got)
	}
	if msg := cmd(); msg != (SessionAppliedMsg{}) {
		t.Fatalf("attach result = %#v, want SessionAppliedMsg", msg)
	}
	refs := m.rulings.Selected().Ruling().References
	found := false
	for _, sub := range refs {
		if sub.UID == "RTR 20050101" {
			found = true
		}
	}
	if !found {
		t.Fatalf("reference missing after fallback attach, got %+v", refs)
	}
}

func TestAppDetachReference(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	s := m.rulings.Selected()
	if len(s.Ruling().References) != 1 {
		t.Fatalf("seeded ruling should carry one reference, got %+v", s.Ruling().References)
	}
	m, cmd := press(t, m, key(tea.KeyCtrlE))
	if cmd == nil {
		t.Fatal("ctrl+e should schedule the detach command")
	}
	if msg := cmd(); msg != (SessionAppliedMsg{}) {
		t.Fatalf("detach result = %#v, want SessionAppliedMsg", msg)
	}
	if got := len(s.Ruling().References); got != 0 {
		t.Fatalf("reference still attached after detach, got %d", got)
	}
	m, _ = press(t, m, SessionAppliedMsg{})
	if view := m.View(); !strings.Contains(view, "needs a reference") {
		t.Errorf("detaching the last reference should bring the warning back, got %q", view)
	}
}

func TestAppFlushSavesRulings(t *testing.T) {
	r := newRig(t)
	m := sized(t, r.cardApp(t))

	m, _ = press(t, m, runes("x"))
	m, cmd := press(t, m, key(tea.KeyCtrlS))
	if cmd == nil {
		t.Fatal("ctrl+s should schedule the save commands")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		if len(batch) == 0 {
			t.Fatal("empty save batch")
		}
		msg = batch[0]()
	}
	if msg != (SessionAppliedMsg{}) {
		t.Fatalf("save result = %#v, want SessionAppliedMsg", msg)
	}
	if got := m.rulings.Selected().Ruling().State; got != rulings.Modified {
		t.Errorf("saved ruling state = %s, want %s", got, rulings.Modified)
	}
}

func TestAppGroupRulingEditing(t *testing.T) {
	r := newRig(t)
	r.ix.AddBaseRuling(testGroupUID, "Applies to every member. [LSJ 20040518]")
	m := sized(t, r.groupApp(t))

	name := m.group.Session().Name()
	m, _ = press(t, m, key(tea.KeyCtrlO))
	m, _ = press(t, m, runes("zz"))
	if got := m.group.Session().Name(); got != name {
		t.Errorf("rulings focus should leave the group name alone, got %q", got)
	}
	s := m.rulings.Selected()
	if s == nil {
		t.Fatal("group page should expose its ruling sessions")
	}
	if text := RenderNodes(s.Buffer().Nodes()); !strings.Contains(text, "zz") {
		t.Errorf("typed runes missing from the group ruling, got %q", text)
	}
	if got := m.pos.Field(); got != "ruling:"+s.Ruling().UID {
		t.Errorf("caret tracker field = %q, want ruling:%s", got, s.Ruling().UID)
	}

	// ctrl+n creates the new ruling on the group itself.
	_, cmd := press(t, m, key(tea.KeyCtrlN))
	if cmd == nil {
		t.Fatal("ctrl+n should schedule the new-ruling command")
	}
	msg := cmd()
	created, ok := msg.(RulingCreatedMsg)
	if !ok {
		t.Fatalf("ctrl+n result = %T, want RulingCreatedMsg", msg)
	}
	if got := created.Session.Ruling().Target.UID; got != testGroupUID {
		t.Errorf("new ruling target = %q, want %s", got, testGroupUID)
	}

	// ctrl+o hands the keys back to the member panel.
	m, _ = press(t, m, key(tea.KeyCtrlO))
	m, _ = press(t, m, runes("!"))
	if got := m.group.Session().Name(); got != name+"!" {
		t.Errorf("member focus should edit the group name again, got %q", got)
	}
}
