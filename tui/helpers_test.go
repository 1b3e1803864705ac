// ABOUTME: Shared test fixtures for the tui package: a seeded contract server and editor sessions.
// ABOUTME: Mirrors the editor package rigs, seeding one card, one group and one reference.
package tui

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/api/apitest"
	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
)

const (
	testCardUID  = "100038"
	testGroupUID = "G00000001"
	testRefUID   = "LSJ 20040518"
	testText     = "The action is undirected. [LSJ 20040518]"
)

type rig struct {
	ix     *apitest.Index
	client *api.Client
	cart   *editor.Cart
}

func newRig(t *testing.T) *rig {
	t.Helper()
	ix := apitest.NewIndex()
	ix.AddCard(apitest.Card{UID: testCardUID, Name: "Aid from Bats", Img: "aidfrombats.jpg"})
	ix.AddCard(apitest.Card{UID: "100545", Name: "Deflection", Img: "deflection.jpg"})
	ix.AddBaseReference(rulings.Reference{
		UID: testRefUID, URL: "https://groups.google.com/d/msg/rtgn/base",
		Source: "LSJ", Date: "2004-05-18",
	})
	srv := httptest.NewServer(apitest.NewServer(ix))
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL)
	uid, err := client.StartProposal(context.Background(), "", "")
	if err != nil {
		t.Fatalf("start proposal: %v", err)
	}
	return &rig{ix: ix, client: client, cart: editor.NewCart(rulings.Proposal{UID: uid})}
}

func (r *rig) cardApp(t *testing.T) AppModel {
	t.Helper()
	r.ix.AddBaseRuling(testCardUID, testText)
	page, err := r.client.GetCard(context.Background(), testCardUID)
	if err != nil {
		t.Fatalf("get card: %v", err)
	}
	return NewCardApp(r.client, r.cart, page)
}

func (r *rig) groupApp(t *testing.T) AppModel {
	t.Helper()
	r.ix.AddBaseGroup(rulings.Group{
		UID: testGroupUID, Name: "Bleed modifiers",
		Cards: []rulings.CardInGroup{
			{UID: testCardUID, Prefix: "[dom]"},
			{UID: "100545", Prefix: "[dom][aus]"},
		},
	})
	page, err := r.client.GetGroup(context.Background(), testGroupUID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	return NewGroupApp(r.client, r.cart, page)
}

func (r *rig) session(t *testing.T, text string) *editor.Session {
	t.Helper()
	r.ix.AddBaseRuling(testCardUID, text)
	page, err := r.client.GetCard(context.Background(), testCardUID)
	if err != nil {
		t.Fatalf("get card: %v", err)
	}
	for _, ruling := range page.Rulings {
		if ruling.Text == text {
			return editor.NewSession(r.client, r.cart, ruling)
		}
	}
	t.Fatal("seeded ruling not found")
	return nil
}
