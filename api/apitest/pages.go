// ABOUTME: Card and group page assembly for the test server.
// ABOUTME: Pages fold the proposal overlay in, exactly like a page load in production.
package apitest

import (
	"sort"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/rulings"
)

// CardPage assembles a card with its current rulings and group memberships.
func (ix *Index) CardPage(uid string) (api.CardPage, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.cards[uid]
	if !ok {
		return api.CardPage{}, errf(404, "unknown card %s", uid)
	}
	page := api.CardPage{
		UID:         c.UID,
		Name:        c.Name,
		PrintedName: c.PrintedName,
		Img:         c.Img,
		Text:        c.Text,
		Rulings:     ix.targetRulingsLocked(rulings.NID{UID: c.UID, Name: c.Name}),
		Groups:      []rulings.NID{},
	}
	for _, g := range ix.currentGroupsLocked() {
		for _, member := range g.Cards {
			if member.UID == uid && member.State != rulings.Deleted {
				page.Groups = append(page.Groups, rulings.NID{UID: g.UID, Name: g.Name})
				break
			}
		}
	}
	sort.Slice(page.Groups, func(i, j int) bool { return page.Groups[i].Name < page.Groups[j].Name })
	return page, nil
}

// GroupPage assembles a group with its current rulings.
func (ix *Index) GroupPage(uid string) (api.GroupPage, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var g rulings.Group
	if ov, ok := ix.ovGroups[uid]; ok {
		g = *ov
	} else if base, ok := ix.baseGroups[uid]; ok {
		g = base
	} else {
		return api.GroupPage{}, errf(404, "unknown group %s", uid)
	}
	return api.GroupPage{
		Group:   g,
		Rulings: ix.targetRulingsLocked(rulings.NID{UID: g.UID, Name: g.Name}),
	}, nil
}

// currentGroupsLocked returns the overlay view of every group.
func (ix *Index) currentGroupsLocked() []rulings.Group {
	uids := make(map[string]bool)
	for uid := range ix.baseGroups {
		uids[uid] = true
	}
	for uid := range ix.ovGroups {
		uids[uid] = true
	}
	out := make([]rulings.Group, 0, len(uids))
	for uid := range uids {
		if ov, ok := ix.ovGroups[uid]; ok {
			if ov.State != rulings.Deleted {
				out = append(out, *ov)
			}
			continue
		}
		out = append(out, ix.baseGroups[uid])
	}
	return out
}
