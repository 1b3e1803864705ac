// ABOUTME: Proposal lifecycle of the test index: start, update, submit, approve, cart view.
// ABOUTME: Approving folds the overlay into the base data and clears the proposal.
package apitest

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vtes-biased/rulings-website/rulings"
)

// StartProposal opens a fresh proposal, discarding any overlay in progress.
func (ix *Index) StartProposal(name, description string) (rulings.Proposal, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.resetOverlay()
	p := rulings.Proposal{
		UID:         "P" + rulings.RandomUID(),
		Name:        name,
		Description: description,
		ChannelID:   uuid.New().String(),
		Cards:       []rulings.NID{},
		Groups:      []rulings.NID{},
	}
	ix.proposal = &p
	return p, nil
}

// UpdateProposal saves the proposal's name and description.
func (ix *Index) UpdateProposal(name, description string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.proposal == nil {
		return errf(404, "no proposal in progress")
	}
	ix.proposal.Name = name
	ix.proposal.Description = description
	return nil
}

// SubmitProposal marks the proposal ready for review; a name is mandatory.
func (ix *Index) SubmitProposal(name, description string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.proposal == nil {
		return errf(404, "no proposal in progress")
	}
	if strings.TrimSpace(name) == "" {
		return errf(400, "a proposal name is required")
	}
	ix.proposal.Name = name
	ix.proposal.Description = description
	return nil
}

// ApproveProposal folds every overlay change into the base data and clears
// the proposal.
func (ix *Index) ApproveProposal() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.proposal == nil {
		return errf(404, "no proposal in progress")
	}
	for targetUID, entries := range ix.ovRuls {
		for uid, entry := range entries {
			if entry.state == rulings.Deleted {
				delete(ix.baseRulings[targetUID], uid)
				continue
			}
			if ix.baseRulings[targetUID] == nil {
				ix.baseRulings[targetUID] = make(map[string]string)
			}
			ix.baseRulings[targetUID][uid] = entry.text
		}
	}
	for uid, g := range ix.ovGroups {
		if g.State == rulings.Deleted {
			delete(ix.baseGroups, uid)
			continue
		}
		approved := rulings.Group{UID: g.UID, Name: g.Name, State: rulings.Original}
		for _, member := range g.Cards {
			if member.State == rulings.Deleted {
				continue
			}
			member.State = rulings.Original
			approved.Cards = append(approved.Cards, member)
		}
		ix.baseGroups[uid] = approved
	}
	for uid, ref := range ix.ovRefs {
		ref.State = rulings.Original
		ix.baseRefs[uid] = ref
	}
	ix.resetOverlay()
	return nil
}

// GetProposal returns the proposal with its cart derived from the overlay:
// touched cards in one section, touched groups in the other.
func (ix *Index) GetProposal(uid string) (rulings.Proposal, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.proposal == nil || ix.proposal.UID != uid {
		return rulings.Proposal{}, errf(404, "unknown proposal %s", uid)
	}
	p := *ix.proposal
	p.Cards = []rulings.NID{}
	p.Groups = []rulings.NID{}
	for targetUID := range ix.ovRuls {
		if len(ix.ovRuls[targetUID]) == 0 {
			continue
		}
		nid, ok := ix.resolveTarget(targetUID)
		if !ok {
			continue
		}
		if nid.IsGroup() {
			p.Groups = append(p.Groups, nid)
		} else {
			p.Cards = append(p.Cards, nid)
		}
	}
	for groupUID, g := range ix.ovGroups {
		if containsNID(p.Groups, groupUID) {
			continue
		}
		p.Groups = append(p.Groups, rulings.NID{UID: groupUID, Name: g.Name})
	}
	sortNIDs(p.Cards)
	sortNIDs(p.Groups)
	return p, nil
}

// Complete returns card name suggestions matching the query, best first.
func (ix *Index) Complete(query string) []CompleteItem {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []CompleteItem{}
	}
	var items []CompleteItem
	for name, uid := range ix.cardsByName {
		if strings.Contains(strings.ToLower(name), query) {
			items = append(items, CompleteItem{Label: name, Value: uid})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(items[i].Label), query)
		pj := strings.HasPrefix(strings.ToLower(items[j].Label), query)
		if pi != pj {
			return pi
		}
		return items[i].Label < items[j].Label
	})
	if len(items) > 10 {
		items = items[:10]
	}
	if items == nil {
		items = []CompleteItem{}
	}
	return items
}

// CompleteItem is one autocomplete suggestion.
type CompleteItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func containsNID(nids []rulings.NID, uid string) bool {
	for _, nid := range nids {
		if nid.UID == uid {
			return true
		}
	}
	return false
}

func sortNIDs(nids []rulings.NID) {
	sort.Slice(nids, func(i, j int) bool { return nids[i].Name < nids[j].Name })
}
