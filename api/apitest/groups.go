// ABOUTME: Group operations of the test index: create, full-map upsert, delete, restore.
// ABOUTME: Member states are recomputed from scratch against the base on every save.
package apitest

import (
	"sort"

	"github.com/vtes-biased/rulings-website/rulings"
)

// CreateGroup adds a NEW empty group to the overlay.
func (ix *Index) CreateGroup(name string) (rulings.Group, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return rulings.Group{}, err
	}
	g := rulings.Group{
		UID:   "P" + rulings.RandomUID(),
		Name:  name,
		State: rulings.New,
		Cards: []rulings.CardInGroup{},
	}
	ix.ovGroups[g.UID] = &g
	return g, nil
}

// UpsertGroup saves a group's name and complete member map, recomputing every
// member's state against the base. Saving a group back to its exact base
// content drops the overlay entry.
func (ix *Index) UpsertGroup(uid, name string, cards map[string]string) (rulings.Group, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return rulings.Group{}, err
	}
	base, hasBase := ix.baseGroups[uid]
	ov, hasOv := ix.ovGroups[uid]
	if !hasBase {
		if !hasOv || ov.State != rulings.New {
			return rulings.Group{}, errf(404, "unknown group %s", uid)
		}
		g := rulings.Group{UID: uid, Name: name, State: rulings.New}
		for _, memberUID := range sortedKeys(cards) {
			member := rulings.CardInGroup{UID: memberUID, Prefix: cards[memberUID], State: rulings.New}
			ix.decorateMember(&member)
			g.Cards = append(g.Cards, member)
		}
		ix.ovGroups[uid] = &g
		return g, nil
	}
	g := ix.computeGroup(base, name, cards)
	if g.State == rulings.Original {
		delete(ix.ovGroups, uid)
		return base, nil
	}
	ix.ovGroups[uid] = &g
	return g, nil
}

// computeGroup diffs the posted member map against the base group. Base
// members keep their base order; additions come last sorted by uid.
func (ix *Index) computeGroup(base rulings.Group, name string, cards map[string]string) rulings.Group {
	g := rulings.Group{UID: base.UID, Name: name}
	modified := name != base.Name
	seen := make(map[string]bool, len(base.Cards))
	for _, baseMember := range base.Cards {
		seen[baseMember.UID] = true
		member := baseMember
		prefix, kept := cards[baseMember.UID]
		switch {
		case !kept:
			member.State = rulings.Deleted
			modified = true
		case prefix != baseMember.Prefix:
			member.Prefix = prefix
			member.State = rulings.Modified
			modified = true
		default:
			member.State = rulings.Original
		}
		ix.decorateMember(&member)
		g.Cards = append(g.Cards, member)
	}
	for _, memberUID := range sortedKeys(cards) {
		if seen[memberUID] {
			continue
		}
		member := rulings.CardInGroup{UID: memberUID, Prefix: cards[memberUID], State: rulings.New}
		ix.decorateMember(&member)
		g.Cards = append(g.Cards, member)
		modified = true
	}
	if modified {
		g.State = rulings.Modified
	} else {
		g.State = rulings.Original
	}
	return g
}

// DeleteGroup deletes a group: a NEW one vanishes, a base one becomes a
// DELETED tombstone keeping its base members.
func (ix *Index) DeleteGroup(uid string) (*rulings.Group, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return nil, err
	}
	base, hasBase := ix.baseGroups[uid]
	ov, hasOv := ix.ovGroups[uid]
	switch {
	case hasOv && ov.State == rulings.New:
		delete(ix.ovGroups, uid)
		return nil, nil
	case hasBase:
		g := base
		g.Cards = append([]rulings.CardInGroup(nil), base.Cards...)
		g.State = rulings.Deleted
		ix.ovGroups[uid] = &g
		return &g, nil
	default:
		return nil, errf(404, "unknown group %s", uid)
	}
}

// RestoreGroup reverts a group to its base version.
func (ix *Index) RestoreGroup(uid string) (*rulings.Group, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return nil, err
	}
	base, hasBase := ix.baseGroups[uid]
	_, hasOv := ix.ovGroups[uid]
	if !hasBase && !hasOv {
		return nil, errf(404, "unknown group %s", uid)
	}
	delete(ix.ovGroups, uid)
	if !hasBase {
		return nil, nil
	}
	return &base, nil
}

// RestoreGroupCard reverts a single membership to its base version and
// returns the recomputed group.
func (ix *Index) RestoreGroupCard(uid, cardUID string) (*rulings.Group, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return nil, err
	}
	base, hasBase := ix.baseGroups[uid]
	ov, hasOv := ix.ovGroups[uid]
	if !hasOv {
		if !hasBase {
			return nil, errf(404, "unknown group %s", uid)
		}
		return &base, nil
	}
	cards := make(map[string]string, len(ov.Cards))
	for _, member := range ov.Cards {
		if member.State == rulings.Deleted {
			continue
		}
		cards[member.UID] = member.Prefix
	}
	basePrefix, inBase := baseMemberPrefix(base, cardUID)
	if inBase {
		cards[cardUID] = basePrefix
	} else {
		delete(cards, cardUID)
	}
	g := ix.computeGroup(base, ov.Name, cards)
	if g.State == rulings.Original {
		delete(ix.ovGroups, uid)
		return &base, nil
	}
	ix.ovGroups[uid] = &g
	return &g, nil
}

// CurrentGroup returns the overlay view of a group, falling back to base.
func (ix *Index) CurrentGroup(uid string) (rulings.Group, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ov, ok := ix.ovGroups[uid]; ok {
		return *ov, nil
	}
	if base, ok := ix.baseGroups[uid]; ok {
		return base, nil
	}
	return rulings.Group{}, errf(404, "unknown group %s", uid)
}

func baseMemberPrefix(g rulings.Group, uid string) (string, bool) {
	for _, member := range g.Cards {
		if member.UID == uid {
			return member.Prefix, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
