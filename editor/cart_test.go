// ABOUTME: Test suite for the proposal cart
// ABOUTME: Covers idempotent registration, prefix routing and insertion order

package editor

import (
	"testing"

	"github.com/vtes-biased/rulings-website/rulings"
)

func TestCartRegisterRoutesByPrefix(t *testing.T) {
	cart := NewCart(rulings.Proposal{UID: "P12345678"})
	cart.Register(rulings.NID{UID: "100038", Name: "Govern the Unaligned"})
	cart.Register(rulings.NID{UID: "G00000001", Name: "Weather Control"})
	cart.Register(rulings.NID{UID: "P00000001", Name: "New Group"})

	p := cart.Proposal()
	if len(p.Cards) != 1 || p.Cards[0].UID != "100038" {
		t.Fatalf("unexpected cards section %+v", p.Cards)
	}
	if len(p.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", p.Groups)
	}
}

func TestCartRegisterIsIdempotent(t *testing.T) {
	cart := NewCart(rulings.Proposal{})
	if !cart.Register(rulings.NID{UID: "100038"}) {
		t.Fatal("expected first registration to report added")
	}
	for i := 0; i < 5; i++ {
		if cart.Register(rulings.NID{UID: "100038"}) {
			t.Fatal("expected repeat registration to be a no-op")
		}
	}
	if p := cart.Proposal(); len(p.Cards) != 1 {
		t.Fatalf("expected a single entry, got %+v", p.Cards)
	}
}

func TestCartPreservesInsertionOrder(t *testing.T) {
	cart := NewCart(rulings.Proposal{})
	for _, uid := range []string{"300", "100", "200"} {
		cart.Register(rulings.NID{UID: uid})
	}
	cart.Register(rulings.NID{UID: "100"})
	p := cart.Proposal()
	for i, want := range []string{"300", "100", "200"} {
		if p.Cards[i].UID != want {
			t.Fatalf("expected %s at index %d, got %+v", want, i, p.Cards)
		}
	}
}

func TestCartOnChangeFiresOnEveryRegister(t *testing.T) {
	cart := NewCart(rulings.Proposal{})
	var seen []int
	cart.OnChange(func(p rulings.Proposal) { seen = append(seen, len(p.Cards)) })
	cart.Register(rulings.NID{UID: "100038"})
	cart.Register(rulings.NID{UID: "100038"})
	if len(seen) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(seen))
	}
	if seen[0] != 1 || seen[1] != 1 {
		t.Fatalf("unexpected snapshots %v", seen)
	}
}

func TestCartSnapshotIsIsolated(t *testing.T) {
	cart := NewCart(rulings.Proposal{})
	cart.Register(rulings.NID{UID: "100038"})
	p := cart.Proposal()
	p.Cards[0].UID = "mutated"
	if cart.Proposal().Cards[0].UID != "100038" {
		t.Fatal("expected snapshot mutation not to leak into the cart")
	}
}
