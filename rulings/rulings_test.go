// ABOUTME: Test suite for lifecycle states, uid routing, reference parsing and hashing
// ABOUTME: Covers the deletable/restorable state sets and the source tenure checks

package rulings

import (
	"strings"
	"testing"
)

func TestStateSets(t *testing.T) {
	cases := []struct {
		state      State
		deletable  bool
		restorable bool
	}{
		{Original, true, false},
		{New, true, false},
		{Modified, true, true},
		{Deleted, false, true},
	}
	for _, c := range cases {
		if c.state.Deletable() != c.deletable {
			t.Fatalf("%s: expected Deletable=%v", c.state, c.deletable)
		}
		if c.state.Restorable() != c.restorable {
			t.Fatalf("%s: expected Restorable=%v", c.state, c.restorable)
		}
	}
}

func TestNIDRouting(t *testing.T) {
	if !(NID{UID: "G00abcdef"}).IsGroup() {
		t.Fatal("G prefix should be a group")
	}
	if !(NID{UID: "P12345678"}).IsGroup() {
		t.Fatal("P prefix should be a group")
	}
	if (NID{UID: "100038"}).IsGroup() {
		t.Fatal("numeric uid should be a card")
	}
}

func TestReferenceFromUID(t *testing.T) {
	ref, err := ReferenceFromUID("LSJ 20040518", "https://groups.google.com/d/msg/x", New)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ref.Source != "LSJ" {
		t.Fatalf("expected source LSJ, got %s", ref.Source)
	}
	if ref.Date != "2004-05-18" {
		t.Fatalf("expected date 2004-05-18, got %s", ref.Date)
	}
	if ref.State != New {
		t.Fatalf("expected state NEW, got %s", ref.State)
	}
}

func TestReferenceFromUIDRulebookHasNoDate(t *testing.T) {
	ref, err := ReferenceFromUID("RBK Rulebook", "https://www.vekn.net/rulebook", Original)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ref.Date != "" {
		t.Fatalf("expected no date, got %s", ref.Date)
	}
}

func TestReferenceFromUIDRejectsBadShapes(t *testing.T) {
	for _, uid := range []string{"", "LSJ", "LSJ20040518", "XXX 20040518", "LSJ 2004"} {
		if _, err := ReferenceFromUID(uid, "", New); err == nil {
			t.Fatalf("expected error for %q", uid)
		}
	}
}

func TestCheckSourceAndDate(t *testing.T) {
	ok, _ := ReferenceFromUID("LSJ 20040518", "", New)
	if err := ok.CheckSourceAndDate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// LSJ's tenure ended 2011-07-06
	late, _ := ReferenceFromUID("LSJ 20120101", "", New)
	if err := late.CheckSourceAndDate(); err == nil {
		t.Fatal("expected error for out-of-tenure date")
	}
	early, _ := ReferenceFromUID("PIB 20100101", "", New)
	if err := early.CheckSourceAndDate(); err == nil {
		t.Fatal("expected error for pre-tenure date")
	}
	rtr, _ := ReferenceFromUID("RTR 20230101", "", New)
	if err := rtr.CheckSourceAndDate(); err != nil {
		t.Fatalf("expected RTR to pass, got %v", err)
	}
}

func TestCheckURL(t *testing.T) {
	ref := Reference{UID: "ANK 20200101", URL: "https://www.vekn.net/forum/x"}
	if err := ref.CheckURL(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ref.URL = "https://example.com/post"
	if err := ref.CheckURL(); err == nil {
		t.Fatal("expected error for unknown domain")
	}
	ref.URL = ""
	if err := ref.CheckURL(); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestStableHash(t *testing.T) {
	h := StableHash("100038some ruling text")
	if len(h) != 8 {
		t.Fatalf("expected 8 characters, got %d: %s", len(h), h)
	}
	if h != StableHash("100038some ruling text") {
		t.Fatal("expected hash to be stable")
	}
	if h == StableHash("100038other text") {
		t.Fatal("expected different texts to hash differently")
	}
}

func TestRandomUID(t *testing.T) {
	a, b := RandomUID(), RandomUID()
	if len(a) != 8 {
		t.Fatalf("expected 8 characters, got %d", len(a))
	}
	if a == b {
		t.Fatal("expected distinct uids")
	}
	if strings.ContainsAny(a, "018") {
		// base32 std alphabet excludes 0, 1 and 8
		t.Fatalf("unexpected characters in %s", a)
	}
}
