// ABOUTME: Test suite for yaml fixture parsing and seeding
// ABOUTME: A small inline fixture exercises every section of the seed file shape

package apitest

import (
	"testing"

	"github.com/vtes-biased/rulings-website/rulings"
)

const fixtureYAML = `
cards:
  - uid: "100038"
    name: Aid from Bats
    printed_name: Aid from Bats
    img: aidfrombats.jpg
  - uid: "100545"
    name: Deflection
references:
  - uid: LSJ 20040518
    url: https://groups.google.com/d/msg/rtgn/base
    source: LSJ
    date: "2004-05-18"
groups:
  - uid: G00000001
    name: Bleed modifiers
    cards:
      - uid: "100038"
        prefix: "[dom]"
rulings:
  "100038":
    - "The action is undirected. [LSJ 20040518]"
vekn_posts:
  https://www.vekn.net/forum/rules/123-thread: ANK 20200101
`

func TestParseFixture(t *testing.T) {
	ix, err := ParseFixture([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ix.cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(ix.cards))
	}
	if _, ok := ix.cardsByName["Deflection"]; !ok {
		t.Fatal("card name lookup missing")
	}
	if _, ok := ix.baseRefs["LSJ 20040518"]; !ok {
		t.Fatal("reference not seeded")
	}
	g, ok := ix.baseGroups["G00000001"]
	if !ok {
		t.Fatal("group not seeded")
	}
	if g.State != rulings.Original || len(g.Cards) != 1 {
		t.Fatalf("unexpected group %+v", g)
	}
	if g.Cards[0].Name != "Aid from Bats" {
		t.Fatal("member should be decorated with the card name")
	}
	if len(g.Cards[0].Symbols) != 1 {
		t.Fatalf("member prefix should carry symbol substitutions, got %+v", g.Cards[0].Symbols)
	}
	uid := rulings.StableHash("100038" + "The action is undirected. [LSJ 20040518]")
	if _, ok := ix.baseRulings["100038"][uid]; !ok {
		t.Fatal("ruling not seeded under its stable uid")
	}
	if got := ix.veknPosts["https://www.vekn.net/forum/rules/123-thread"]; got != "ANK 20200101" {
		t.Fatalf("vekn post not seeded, got %q", got)
	}
}

func TestParseFixtureBadYAML(t *testing.T) {
	if _, err := ParseFixture([]byte("cards: [")); err == nil {
		t.Fatal("expected a parse error")
	}
}
