// ABOUTME: Page payloads: everything needed to display a card or group with its rulings.
// ABOUTME: The proposal overlay is already folded in server-side, states included.
package api

import (
	"context"
	"net/url"

	"github.com/vtes-biased/rulings-website/rulings"
)

// CardPage is a card with its rulings and the groups it belongs to.
type CardPage struct {
	UID         string           `json:"uid"`
	Name        string           `json:"name"`
	PrintedName string           `json:"printed_name"`
	Img         string           `json:"img"`
	Text        string           `json:"text"`
	Rulings     []rulings.Ruling `json:"rulings"`
	Groups      []rulings.NID    `json:"groups"`
}

// GroupPage is a group with its rulings.
type GroupPage struct {
	rulings.Group
	Rulings []rulings.Ruling `json:"rulings"`
}

// GetCard fetches a card page, rulings decorated with substitution tables.
func (c *Client) GetCard(ctx context.Context, uid string) (*CardPage, error) {
	var ret CardPage
	if err := c.getJSON(ctx, "/card/"+url.PathEscape(uid), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// GetGroup fetches a group page, member states and rulings included.
func (c *Client) GetGroup(ctx context.Context, uid string) (*GroupPage, error) {
	var ret GroupPage
	if err := c.getJSON(ctx, "/group/"+url.PathEscape(uid), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}
