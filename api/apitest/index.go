// ABOUTME: In-memory rulings index backing the test server: canonical base data plus a proposal overlay.
// ABOUTME: Mutations land in the overlay; approving the proposal folds the overlay into the base.
package apitest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vtes-biased/rulings-website/rulings"
	"github.com/vtes-biased/rulings-website/symbol"
)

// Card is a card database entry.
type Card struct {
	UID         string `yaml:"uid"`
	Name        string `yaml:"name"`
	PrintedName string `yaml:"printed_name"`
	Img         string `yaml:"img"`
	Text        string `yaml:"text"`
}

type overlayRuling struct {
	text  string
	state rulings.State
}

// Index holds the canonical data and the single active proposal's overlay.
// Base data never changes except through Approve.
type Index struct {
	mu          sync.RWMutex
	cards       map[string]Card
	cardsByName map[string]string
	baseRulings map[string]map[string]string // target uid -> ruling uid -> text
	baseGroups  map[string]rulings.Group
	baseRefs    map[string]rulings.Reference

	veknPosts map[string]string // forum url -> uid the scraper would compute

	proposal *rulings.Proposal
	ovRuls   map[string]map[string]overlayRuling
	ovGroups map[string]*rulings.Group
	ovRefs   map[string]rulings.Reference
}

// NewIndex returns an empty index with no proposal.
func NewIndex() *Index {
	ix := &Index{
		cards:       make(map[string]Card),
		cardsByName: make(map[string]string),
		baseRulings: make(map[string]map[string]string),
		baseGroups:  make(map[string]rulings.Group),
		baseRefs:    make(map[string]rulings.Reference),
	}
	ix.resetOverlay()
	for _, ref := range rulings.RulebookReferences {
		ix.baseRefs[ref.UID] = ref
	}
	return ix
}

func (ix *Index) resetOverlay() {
	ix.proposal = nil
	ix.ovRuls = make(map[string]map[string]overlayRuling)
	ix.ovGroups = make(map[string]*rulings.Group)
	ix.ovRefs = make(map[string]rulings.Reference)
}

// apiError carries the status and message list of the error contract.
type apiError struct {
	status   int
	messages []string
}

func (e *apiError) Error() string { return strings.Join(e.messages, "; ") }

func errf(status int, format string, args ...any) *apiError {
	return &apiError{status: status, messages: []string{fmt.Sprintf(format, args...)}}
}

// requireProposal guards mutations: without an active proposal there is no
// overlay to write into.
func (ix *Index) requireProposal() error {
	if ix.proposal == nil {
		return errf(405, "no proposal in progress")
	}
	return nil
}

// AddCard seeds a card in the base data.
func (ix *Index) AddCard(c Card) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.cards[c.UID] = c
	ix.cardsByName[c.Name] = c.UID
	if c.PrintedName != "" && c.PrintedName != c.Name {
		ix.cardsByName[c.PrintedName] = c.UID
	}
}

// AddBaseRuling seeds an ORIGINAL ruling on a target and returns its uid.
func (ix *Index) AddBaseRuling(target, text string) string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	uid := rulings.StableHash(target + text)
	if ix.baseRulings[target] == nil {
		ix.baseRulings[target] = make(map[string]string)
	}
	ix.baseRulings[target][uid] = text
	return uid
}

// AddBaseGroup seeds an ORIGINAL group, normalizing member states.
func (ix *Index) AddBaseGroup(g rulings.Group) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	g.State = rulings.Original
	for i := range g.Cards {
		g.Cards[i].State = rulings.Original
		ix.decorateMember(&g.Cards[i])
	}
	ix.baseGroups[g.UID] = g
}

// AddBaseReference seeds an ORIGINAL reference.
func (ix *Index) AddBaseReference(ref rulings.Reference) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ref.State = rulings.Original
	ix.baseRefs[ref.UID] = ref
}

func (ix *Index) resolveTarget(uid string) (rulings.NID, bool) {
	if c, ok := ix.cards[uid]; ok {
		return rulings.NID{UID: c.UID, Name: c.Name}, true
	}
	if g, ok := ix.ovGroups[uid]; ok {
		return rulings.NID{UID: g.UID, Name: g.Name}, true
	}
	if g, ok := ix.baseGroups[uid]; ok {
		return rulings.NID{UID: g.UID, Name: g.Name}, true
	}
	return rulings.NID{}, false
}

// buildRuling decorates a canonical text with its substitution tables the way
// the production backend does, so clients can redecorate identically.
func (ix *Index) buildRuling(target rulings.NID, uid, text string, state rulings.State) rulings.Ruling {
	r := rulings.Ruling{
		UID:        uid,
		Target:     target,
		Text:       text,
		State:      state,
		Symbols:    symbol.Substitutions(text),
		References: []rulings.ReferenceSubstitution{},
		Cards:      []rulings.CardSubstitution{},
	}
	for _, token := range bracketTokens(text) {
		if ref, ok := ix.lookupRef(token.inner); ok {
			r.References = append(r.References, rulings.ReferenceSubstitution{
				Reference: ref,
				Text:      token.literal,
			})
		}
	}
	for _, token := range braceTokens(text) {
		if cardUID, ok := ix.cardsByName[token.inner]; ok {
			c := ix.cards[cardUID]
			r.Cards = append(r.Cards, rulings.CardSubstitution{
				UID:         c.UID,
				Name:        c.Name,
				PrintedName: c.PrintedName,
				Img:         c.Img,
				Text:        token.literal,
			})
		}
	}
	return r
}

func (ix *Index) lookupRef(uid string) (rulings.Reference, bool) {
	if ref, ok := ix.ovRefs[uid]; ok {
		return ref, true
	}
	ref, ok := ix.baseRefs[uid]
	return ref, ok
}

func (ix *Index) decorateMember(member *rulings.CardInGroup) {
	if c, ok := ix.cards[member.UID]; ok {
		member.Name = c.Name
		member.PrintedName = c.PrintedName
		member.Img = c.Img
	}
	member.Symbols = symbol.Substitutions(member.Prefix)
}

type token struct {
	literal string
	inner   string
}

func scanTokens(text string, open, close byte) []token {
	var tokens []token
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		end := strings.IndexByte(text[i+1:], close)
		if end < 0 {
			break
		}
		inner := text[i+1 : i+1+end]
		tokens = append(tokens, token{literal: text[i : i+2+end], inner: inner})
		i += 1 + end
	}
	return tokens
}

func bracketTokens(text string) []token { return scanTokens(text, '[', ']') }
func braceTokens(text string) []token   { return scanTokens(text, '{', '}') }

// CreateRuling adds a NEW ruling to the overlay.
func (ix *Index) CreateRuling(targetUID, text string) (rulings.Ruling, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return rulings.Ruling{}, err
	}
	target, ok := ix.resolveTarget(targetUID)
	if !ok {
		return rulings.Ruling{}, errf(404, "unknown target %s", targetUID)
	}
	uid := rulings.RandomUID()
	if text != "" {
		uid = rulings.StableHash(targetUID + text)
	}
	if ix.ovRuls[targetUID] == nil {
		ix.ovRuls[targetUID] = make(map[string]overlayRuling)
	}
	ix.ovRuls[targetUID][uid] = overlayRuling{text: text, state: rulings.New}
	return ix.buildRuling(target, uid, text, rulings.New), nil
}

// UpsertRuling replaces a ruling's text. Updating a base ruling back to its
// base text drops the modification; updating a NEW ruling recomputes its uid.
func (ix *Index) UpsertRuling(targetUID, uid, text string) (rulings.Ruling, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return rulings.Ruling{}, err
	}
	target, ok := ix.resolveTarget(targetUID)
	if !ok {
		return rulings.Ruling{}, errf(404, "unknown target %s", targetUID)
	}
	baseText, hasBase := ix.baseRulings[targetUID][uid]
	ov, hasOv := ix.ovRuls[targetUID][uid]
	switch {
	case hasBase && text == baseText:
		delete(ix.ovRuls[targetUID], uid)
		return ix.buildRuling(target, uid, baseText, rulings.Original), nil
	case hasBase:
		if ix.ovRuls[targetUID] == nil {
			ix.ovRuls[targetUID] = make(map[string]overlayRuling)
		}
		ix.ovRuls[targetUID][uid] = overlayRuling{text: text, state: rulings.Modified}
		return ix.buildRuling(target, uid, text, rulings.Modified), nil
	case hasOv && ov.state == rulings.New:
		newUID := rulings.StableHash(targetUID + text)
		delete(ix.ovRuls[targetUID], uid)
		ix.ovRuls[targetUID][newUID] = overlayRuling{text: text, state: rulings.New}
		return ix.buildRuling(target, newUID, text, rulings.New), nil
	default:
		return rulings.Ruling{}, errf(404, "unknown ruling %s on %s", uid, targetUID)
	}
}

// DeleteRuling deletes a ruling. A NEW ruling vanishes (nil result); a base
// ruling becomes a DELETED tombstone.
func (ix *Index) DeleteRuling(targetUID, uid string) (*rulings.Ruling, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return nil, err
	}
	target, ok := ix.resolveTarget(targetUID)
	if !ok {
		return nil, errf(404, "unknown target %s", targetUID)
	}
	baseText, hasBase := ix.baseRulings[targetUID][uid]
	ov, hasOv := ix.ovRuls[targetUID][uid]
	switch {
	case hasOv && ov.state == rulings.New:
		delete(ix.ovRuls[targetUID], uid)
		return nil, nil
	case hasBase:
		text := baseText
		if hasOv {
			text = ov.text
		}
		if ix.ovRuls[targetUID] == nil {
			ix.ovRuls[targetUID] = make(map[string]overlayRuling)
		}
		ix.ovRuls[targetUID][uid] = overlayRuling{text: text, state: rulings.Deleted}
		r := ix.buildRuling(target, uid, text, rulings.Deleted)
		return &r, nil
	default:
		return nil, errf(404, "unknown ruling %s on %s", uid, targetUID)
	}
}

// RestoreRuling reverts to the base version, dropping the overlay entry.
func (ix *Index) RestoreRuling(targetUID, uid string) (*rulings.Ruling, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return nil, err
	}
	target, ok := ix.resolveTarget(targetUID)
	if !ok {
		return nil, errf(404, "unknown target %s", targetUID)
	}
	baseText, hasBase := ix.baseRulings[targetUID][uid]
	_, hasOv := ix.ovRuls[targetUID][uid]
	if !hasBase && !hasOv {
		return nil, errf(404, "unknown ruling %s on %s", uid, targetUID)
	}
	delete(ix.ovRuls[targetUID], uid)
	if !hasBase {
		return nil, nil
	}
	r := ix.buildRuling(target, uid, baseText, rulings.Original)
	return &r, nil
}

// TargetRulings lists the current view of a target's rulings: base entries
// shadowed by the overlay, then overlay-only NEW entries (sorted by uid).
func (ix *Index) TargetRulings(targetUID string) ([]rulings.Ruling, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	target, ok := ix.resolveTarget(targetUID)
	if !ok {
		return nil, errf(404, "unknown target %s", targetUID)
	}
	return ix.targetRulingsLocked(target), nil
}

func (ix *Index) targetRulingsLocked(target rulings.NID) []rulings.Ruling {
	base := ix.baseRulings[target.UID]
	ov := ix.ovRuls[target.UID]
	uids := make([]string, 0, len(base)+len(ov))
	for uid := range base {
		uids = append(uids, uid)
	}
	for uid := range ov {
		if _, shadowed := base[uid]; !shadowed {
			uids = append(uids, uid)
		}
	}
	sort.Strings(uids)
	out := make([]rulings.Ruling, 0, len(uids))
	for _, uid := range uids {
		if entry, ok := ov[uid]; ok {
			out = append(out, ix.buildRuling(target, uid, entry.text, entry.state))
			continue
		}
		out = append(out, ix.buildRuling(target, uid, base[uid], rulings.Original))
	}
	return out
}
