// ABOUTME: Ruling, group and reference endpoints of the rulings API.
// ABOUTME: Mutating calls return the server's authoritative entity, or nil on an empty body (entity gone).
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vtes-biased/rulings-website/rulings"
)

type textPayload struct {
	Text string `json:"text"`
}

// CreateRuling posts a new ruling to the target's collection. The server
// replies with a NEW ruling carrying its substitution tables.
func (c *Client) CreateRuling(ctx context.Context, target, text string) (*rulings.Ruling, error) {
	var ret rulings.Ruling
	err := c.sendJSON(ctx, http.MethodPost, "/ruling/"+url.PathEscape(target), textPayload{Text: text}, &ret)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// UpdateRuling replaces a ruling's canonical text. The response carries the
// authoritative state and fresh substitution tables.
func (c *Client) UpdateRuling(ctx context.Context, target, uid, text string) (*rulings.Ruling, error) {
	var ret rulings.Ruling
	err := c.sendJSON(ctx, http.MethodPut,
		"/ruling/"+url.PathEscape(target)+"/"+url.PathEscape(uid), textPayload{Text: text}, &ret)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// DeleteRuling deletes a ruling. A nil result with nil error means the ruling
// was NEW and is gone; otherwise the returned ruling is in state DELETED.
func (c *Client) DeleteRuling(ctx context.Context, target, uid string) (*rulings.Ruling, error) {
	var ret rulings.Ruling
	err := c.sendJSON(ctx, http.MethodDelete,
		"/ruling/"+url.PathEscape(target)+"/"+url.PathEscape(uid), nil, &ret)
	if err != nil {
		return nil, err
	}
	if ret.UID == "" {
		return nil, nil
	}
	return &ret, nil
}

// RestoreRuling reverts a DELETED or MODIFIED ruling to its base version. A nil
// result means the ruling was NEW before deletion and cannot be restored.
func (c *Client) RestoreRuling(ctx context.Context, target, uid string) (*rulings.Ruling, error) {
	var ret rulings.Ruling
	err := c.sendJSON(ctx, http.MethodPost,
		"/ruling/"+url.PathEscape(target)+"/"+url.PathEscape(uid)+"/restore", nil, &ret)
	if err != nil {
		return nil, err
	}
	if ret.UID == "" {
		return nil, nil
	}
	return &ret, nil
}

// GroupUpdate is the full-member-map payload of a group save: every non-deleted
// member's uid with its recomputed prefix. Partial updates are not supported.
type GroupUpdate struct {
	Name  string            `json:"name"`
	Cards map[string]string `json:"cards"`
}

// CreateGroup creates a new empty group and returns it in NEW state.
func (c *Client) CreateGroup(ctx context.Context, name string) (*rulings.Group, error) {
	var ret rulings.Group
	err := c.sendJSON(ctx, http.MethodPost, "/group", GroupUpdate{Name: name, Cards: map[string]string{}}, &ret)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// UpdateGroup saves a group's name and entire member map. The server computes
// and returns authoritative per-member state and substitution tables.
func (c *Client) UpdateGroup(ctx context.Context, uid string, update GroupUpdate) (*rulings.Group, error) {
	var ret rulings.Group
	err := c.sendJSON(ctx, http.MethodPut, "/group/"+url.PathEscape(uid), update, &ret)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// DeleteGroup deletes a group. Nil result means it was NEW and is gone.
func (c *Client) DeleteGroup(ctx context.Context, uid string) (*rulings.Group, error) {
	var ret rulings.Group
	err := c.sendJSON(ctx, http.MethodDelete, "/group/"+url.PathEscape(uid), nil, &ret)
	if err != nil {
		return nil, err
	}
	if ret.UID == "" {
		return nil, nil
	}
	return &ret, nil
}

// RestoreGroup reverts a group to its base version. Nil result means gone.
func (c *Client) RestoreGroup(ctx context.Context, uid string) (*rulings.Group, error) {
	var ret rulings.Group
	err := c.sendJSON(ctx, http.MethodPost, "/group/"+url.PathEscape(uid)+"/restore", nil, &ret)
	if err != nil {
		return nil, err
	}
	if ret.UID == "" {
		return nil, nil
	}
	return &ret, nil
}

// RestoreGroupCard reverts a single membership inside a group to its base
// version and returns the updated group.
func (c *Client) RestoreGroupCard(ctx context.Context, uid, cardUID string) (*rulings.Group, error) {
	var ret rulings.Group
	err := c.sendJSON(ctx, http.MethodPost,
		"/group/"+url.PathEscape(uid)+"/restore/"+url.PathEscape(cardUID), nil, &ret)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// CreateReference creates a new reference from its uid and url (form-encoded,
// matching the picker's form submission).
func (c *Client) CreateReference(ctx context.Context, uid, refURL string) (*rulings.Reference, error) {
	form := url.Values{}
	form.Set("uid", uid)
	form.Set("url", refURL)
	var ret rulings.Reference
	if err := c.postForm(ctx, "/reference", form, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// SearchResult is the outcome of a reference lookup: either an existing
// reference, or a computed uid for a reference that can be created.
type SearchResult struct {
	ComputedUID string             `json:"computed_uid,omitempty"`
	Reference   *rulings.Reference `json:"reference,omitempty"`
}

// SearchReference looks a reference up by uid or by url. Exactly one of the
// two should be provided. A 404 means no match either way.
func (c *Client) SearchReference(ctx context.Context, uid, refURL string) (*SearchResult, error) {
	form := url.Values{}
	if uid != "" {
		form.Set("uid", uid)
	}
	if refURL != "" {
		form.Set("url", refURL)
	}
	var ret SearchResult
	if err := c.postForm(ctx, "/reference/search", form, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// CheckReferences runs the server-side reference consistency check and returns
// the list of human-readable errors found, empty when all is consistent.
func (c *Client) CheckReferences(ctx context.Context) ([]string, error) {
	var ret []string
	if err := c.getJSON(ctx, "/check-references", &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// CheckConsistency runs the full consistency check, returning structured error
// descriptors pointing at the offending target and ruling.
func (c *Client) CheckConsistency(ctx context.Context) ([]rulings.ConsistencyError, error) {
	var ret []rulings.ConsistencyError
	if err := c.getJSON(ctx, "/check-consistency", &ret); err != nil {
		return nil, err
	}
	return ret, nil
}
