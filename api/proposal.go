// ABOUTME: Proposal lifecycle endpoints: start, update, submit, approve, plus card name completion.
// ABOUTME: Proposals scope a whole editing session; the cart contents come back with every page load.
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vtes-biased/rulings-website/rulings"
)

// StartProposal opens a new proposal session and returns its uid.
func (c *Client) StartProposal(ctx context.Context, name, description string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("description", description)
	var ret struct {
		UID string `json:"uid"`
	}
	if err := c.postForm(ctx, "/proposal", form, &ret); err != nil {
		return "", err
	}
	return ret.UID, nil
}

// UpdateProposal saves the proposal's name and description.
func (c *Client) UpdateProposal(ctx context.Context, name, description string) error {
	payload := map[string]string{"name": name, "description": description}
	return c.sendJSON(ctx, http.MethodPut, "/proposal", payload, nil)
}

// SubmitProposal submits the proposal for review. The server requires a name.
func (c *Client) SubmitProposal(ctx context.Context, name, description string) error {
	payload := map[string]string{"name": name, "description": description}
	return c.sendJSON(ctx, http.MethodPost, "/proposal/submit", payload, nil)
}

// ApproveProposal applies the proposal to the canonical data.
func (c *Client) ApproveProposal(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/proposal/approve", nil, nil)
}

// GetProposal fetches the current proposal cart.
func (c *Client) GetProposal(ctx context.Context, uid string) (*rulings.Proposal, error) {
	var ret rulings.Proposal
	if err := c.getJSON(ctx, "/proposal/"+url.PathEscape(uid), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// CompleteItem is one autocomplete suggestion: display label and target uid.
type CompleteItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Complete queries the card name completion backend.
func (c *Client) Complete(ctx context.Context, query string) ([]CompleteItem, error) {
	var ret []CompleteItem
	if err := c.getJSON(ctx, "/complete/?query="+url.QueryEscape(query), &ret); err != nil {
		return nil, err
	}
	return ret, nil
}
