// ABOUTME: Domain model for the rulings proposal workflow: states, identifiers, rulings, references, groups.
// ABOUTME: Substitution tables mirror the API wire format so a canonical text can be redecorated identically on every render.
package rulings

import (
	"strings"

	"github.com/vtes-biased/rulings-website/symbol"
)

// State is the lifecycle state of an entity within the current proposal.
// It is server-authoritative: every mutating call returns the new state.
type State string

const (
	Original State = "ORIGINAL"
	New      State = "NEW"
	Modified State = "MODIFIED"
	Deleted  State = "DELETED"
)

// Deletable reports whether an entity in this state can be deleted.
// Deleting a NEW entity removes it outright, deleting ORIGINAL or MODIFIED
// transitions it to DELETED.
func (s State) Deletable() bool {
	return s == Original || s == New || s == Modified
}

// Restorable reports whether an entity in this state can be restored to its
// canonical (base) version.
func (s State) Restorable() bool {
	return s == Deleted || s == Modified
}

// NID is a named identifier. The uid prefix is load-bearing: G and P prefixes
// denote groups (approved and proposed respectively), everything else is a card.
type NID struct {
	UID  string `json:"uid" yaml:"uid"`
	Name string `json:"name" yaml:"name"`
}

// IsGroup reports whether the identifier denotes a group rather than a card.
func (n NID) IsGroup() bool {
	return strings.HasPrefix(n.UID, "G") || strings.HasPrefix(n.UID, "P")
}

// Reference is a citation source (rulebook page, forum post, errata) attachable
// to one or more rulings. Two references are the same entity iff uids match.
type Reference struct {
	UID    string `json:"uid" yaml:"uid"`
	URL    string `json:"url" yaml:"url"`
	Source string `json:"source" yaml:"source"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
	State  State  `json:"state" yaml:"state"`
}

// SymbolSubstitution maps a literal token of a canonical text to its glyph.
type SymbolSubstitution = symbol.Substitution

// CardSubstitution maps a literal `{Name}` token to the card it references.
type CardSubstitution struct {
	UID         string `json:"uid" yaml:"uid"`
	Name        string `json:"name" yaml:"name"`
	PrintedName string `json:"printed_name" yaml:"printed_name"`
	Img         string `json:"img" yaml:"img"`
	Text        string `json:"text" yaml:"text"`
}

// ReferenceSubstitution maps a literal `[UID]` token to its reference.
// Reference tokens are stripped from the decoded text and rendered as footer links.
type ReferenceSubstitution struct {
	Reference `yaml:",inline"`
	Text      string `json:"text" yaml:"text"`
}

// Ruling is a rules clarification attached to a card or group. Text is the
// canonical encoded form; the substitution tables describe how to decorate it.
type Ruling struct {
	UID        string                  `json:"uid" yaml:"uid"`
	Target     NID                     `json:"target" yaml:"target"`
	Text       string                  `json:"text" yaml:"text"`
	State      State                   `json:"state" yaml:"state"`
	Symbols    []SymbolSubstitution    `json:"symbols" yaml:"symbols"`
	References []ReferenceSubstitution `json:"references" yaml:"references"`
	Cards      []CardSubstitution      `json:"cards" yaml:"cards"`
}

// CardInGroup is a card's membership in a group, with the prefix describing its
// role. The prefix is canonical text restricted to symbol tokens.
type CardInGroup struct {
	UID         string               `json:"uid" yaml:"uid"`
	Name        string               `json:"name" yaml:"name"`
	PrintedName string               `json:"printed_name" yaml:"printed_name"`
	Img         string               `json:"img" yaml:"img"`
	Prefix      string               `json:"prefix" yaml:"prefix"`
	State       State                `json:"state" yaml:"state"`
	Symbols     []SymbolSubstitution `json:"symbols" yaml:"symbols"`
}

// Group is a named collection of cards, ordered, each with a role prefix.
type Group struct {
	UID   string        `json:"uid" yaml:"uid"`
	Name  string        `json:"name" yaml:"name"`
	State State         `json:"state" yaml:"state"`
	Cards []CardInGroup `json:"cards" yaml:"cards"`
}

// Proposal is the session-scoped cart of touched entities. Membership is by
// uid, insertion order is preserved, duplicates are forbidden.
type Proposal struct {
	UID         string `json:"uid" yaml:"uid"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ChannelID   string `json:"channel_id" yaml:"channel_id"`
	Cards       []NID  `json:"cards" yaml:"cards"`
	Groups      []NID  `json:"groups" yaml:"groups"`
}

// ConsistencyError describes a cross-entity inconsistency found by the server
// reference and consistency checks.
type ConsistencyError struct {
	Target    NID    `json:"target"`
	RulingUID string `json:"ruling_uid"`
	Error     string `json:"error"`
}
