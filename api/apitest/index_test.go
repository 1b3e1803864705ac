// ABOUTME: Test suite for the overlay semantics of the in-memory index
// ABOUTME: Covers ruling create, upsert, delete, restore and the shadowed listing

package apitest

import (
	"errors"
	"testing"

	"github.com/vtes-biased/rulings-website/rulings"
)

const (
	cardBats       = "100038"
	cardDeflection = "100545"
	refLSJ         = "LSJ 20040518"
	baseText       = "The action is undirected. [LSJ 20040518]"
)

func seededIndex(t *testing.T) *Index {
	t.Helper()
	ix := NewIndex()
	ix.AddCard(Card{UID: cardBats, Name: "Aid from Bats", Img: "aidfrombats.jpg"})
	ix.AddCard(Card{UID: cardDeflection, Name: "Deflection", Img: "deflection.jpg"})
	ix.AddBaseReference(rulings.Reference{
		UID: refLSJ, URL: "https://groups.google.com/d/msg/rtgn/base",
		Source: "LSJ", Date: "2004-05-18",
	})
	return ix
}

func startedIndex(t *testing.T) *Index {
	t.Helper()
	ix := seededIndex(t)
	if _, err := ix.StartProposal("", ""); err != nil {
		t.Fatalf("start proposal: %v", err)
	}
	return ix
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var e *apiError
	if !errors.As(err, &e) {
		t.Fatalf("expected apiError, got %v", err)
	}
	if e.status != status {
		t.Fatalf("expected status %d, got %d (%v)", status, e.status, err)
	}
}

func TestMutationsRequireProposal(t *testing.T) {
	ix := seededIndex(t)
	_, err := ix.CreateRuling(cardBats, baseText)
	assertStatus(t, err, 405)
	_, err = ix.UpsertRuling(cardBats, "abc", baseText)
	assertStatus(t, err, 405)
	_, err = ix.DeleteRuling(cardBats, "abc")
	assertStatus(t, err, 405)
	_, err = ix.InsertReference("ANK 20210301", "https://boardgamegeek.com/thread/1")
	assertStatus(t, err, 405)
	_, err = ix.CreateGroup("Bleed modifiers")
	assertStatus(t, err, 405)
}

func TestCreateRulingStableUID(t *testing.T) {
	ix := startedIndex(t)
	r, err := ix.CreateRuling(cardBats, baseText)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.UID != rulings.StableHash(cardBats+baseText) {
		t.Fatalf("unexpected uid %q", r.UID)
	}
	if r.State != rulings.New {
		t.Fatalf("expected NEW, got %s", r.State)
	}
}

func TestCreateEmptyRulingRandomUID(t *testing.T) {
	ix := startedIndex(t)
	a, err := ix.CreateRuling(cardBats, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := ix.CreateRuling(cardBats, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.UID == b.UID {
		t.Fatal("empty rulings must not collide")
	}
}

func TestCreateRulingUnknownTarget(t *testing.T) {
	ix := startedIndex(t)
	_, err := ix.CreateRuling("999999", baseText)
	assertStatus(t, err, 404)
}

func TestUpsertBaseMarksModified(t *testing.T) {
	ix := startedIndex(t)
	uid := ix.AddBaseRuling(cardBats, baseText)
	r, err := ix.UpsertRuling(cardBats, uid, "Changed. [LSJ 20040518]")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if r.State != rulings.Modified || r.UID != uid {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestUpsertBackToBaseTextDropsOverlay(t *testing.T) {
	ix := startedIndex(t)
	uid := ix.AddBaseRuling(cardBats, baseText)
	if _, err := ix.UpsertRuling(cardBats, uid, "Changed. [LSJ 20040518]"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	r, err := ix.UpsertRuling(cardBats, uid, baseText)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if r.State != rulings.Original {
		t.Fatalf("expected ORIGINAL, got %s", r.State)
	}
	if len(ix.ovRuls[cardBats]) != 0 {
		t.Fatal("overlay entry should be dropped")
	}
}

func TestUpsertNewRecomputesUID(t *testing.T) {
	ix := startedIndex(t)
	r, err := ix.CreateRuling(cardBats, "First. [LSJ 20040518]")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := ix.UpsertRuling(cardBats, r.UID, "Second. [LSJ 20040518]")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if updated.UID == r.UID {
		t.Fatal("expected a recomputed uid")
	}
	if updated.UID != rulings.StableHash(cardBats+"Second. [LSJ 20040518]") {
		t.Fatalf("unexpected uid %q", updated.UID)
	}
	if updated.State != rulings.New {
		t.Fatalf("expected NEW, got %s", updated.State)
	}
	if _, stale := ix.ovRuls[cardBats][r.UID]; stale {
		t.Fatal("old uid should be gone")
	}
}

func TestUpsertUnknownRuling(t *testing.T) {
	ix := startedIndex(t)
	_, err := ix.UpsertRuling(cardBats, "deadbeef", baseText)
	assertStatus(t, err, 404)
}

func TestDeleteNewRulingVanishes(t *testing.T) {
	ix := startedIndex(t)
	r, err := ix.CreateRuling(cardBats, baseText)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := ix.DeleteRuling(cardBats, r.UID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if len(ix.ovRuls[cardBats]) != 0 {
		t.Fatal("overlay entry should be gone")
	}
}

func TestDeleteBaseRulingTombstone(t *testing.T) {
	ix := startedIndex(t)
	uid := ix.AddBaseRuling(cardBats, baseText)
	got, err := ix.DeleteRuling(cardBats, uid)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got == nil || got.State != rulings.Deleted || got.Text != baseText {
		t.Fatalf("unexpected tombstone %+v", got)
	}
}

func TestDeleteModifiedKeepsOverlayText(t *testing.T) {
	ix := startedIndex(t)
	uid := ix.AddBaseRuling(cardBats, baseText)
	edited := "Changed. [LSJ 20040518]"
	if _, err := ix.UpsertRuling(cardBats, uid, edited); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := ix.DeleteRuling(cardBats, uid)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got.Text != edited {
		t.Fatalf("tombstone should keep the edited text, got %q", got.Text)
	}
}

func TestRestoreRevertsToBase(t *testing.T) {
	ix := startedIndex(t)
	uid := ix.AddBaseRuling(cardBats, baseText)
	if _, err := ix.DeleteRuling(cardBats, uid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := ix.RestoreRuling(cardBats, uid)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got == nil || got.State != rulings.Original || got.Text != baseText {
		t.Fatalf("unexpected restore %+v", got)
	}
}

func TestRestoreUnknownRuling(t *testing.T) {
	ix := startedIndex(t)
	_, err := ix.RestoreRuling(cardBats, "deadbeef")
	assertStatus(t, err, 404)
}

func TestTargetRulingsShadowing(t *testing.T) {
	ix := startedIndex(t)
	a := ix.AddBaseRuling(cardBats, baseText)
	b := ix.AddBaseRuling(cardBats, "Another one. [LSJ 20040518]")
	edited := "Changed. [LSJ 20040518]"
	if _, err := ix.UpsertRuling(cardBats, a, edited); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	created, err := ix.CreateRuling(cardBats, "Brand new. [LSJ 20040518]")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := ix.TargetRulings(cardBats)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rulings, got %d", len(list))
	}
	states := make(map[string]rulings.State)
	texts := make(map[string]string)
	for _, r := range list {
		states[r.UID] = r.State
		texts[r.UID] = r.Text
	}
	if states[a] != rulings.Modified || texts[a] != edited {
		t.Fatalf("expected %s MODIFIED with overlay text, got %s %q", a, states[a], texts[a])
	}
	if states[b] != rulings.Original {
		t.Fatalf("expected %s ORIGINAL, got %s", b, states[b])
	}
	if states[created.UID] != rulings.New {
		t.Fatalf("expected %s NEW, got %s", created.UID, states[created.UID])
	}
}

func TestBuildRulingSubstitutionTables(t *testing.T) {
	ix := startedIndex(t)
	text := "Unlike {Deflection}, requires [aus] only. [LSJ 20040518]"
	r, err := ix.CreateRuling(cardBats, text)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(r.Symbols) != 1 || r.Symbols[0].Text != "[aus]" {
		t.Fatalf("unexpected symbols %+v", r.Symbols)
	}
	if len(r.References) != 1 || r.References[0].Reference.UID != refLSJ {
		t.Fatalf("unexpected references %+v", r.References)
	}
	if len(r.Cards) != 1 || r.Cards[0].UID != cardDeflection || r.Cards[0].Text != "{Deflection}" {
		t.Fatalf("unexpected cards %+v", r.Cards)
	}
}
