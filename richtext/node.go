// ABOUTME: Tagged node model for decoded rich text: plain runs, icon markers, card references.
// ABOUTME: Every renderable node carries an explicit kind so no layer has to inspect the view to decide a node's role.
package richtext

import (
	"github.com/vtes-biased/rulings-website/rulings"
)

// Kind discriminates the node variants produced by Parse. Only the rendering
// layer translates kinds into concrete visual elements.
type Kind int

const (
	KindText Kind = iota
	KindIcon
	KindCard
)

// Node is one element of a decoded rich-text sequence.
type Node struct {
	Kind  Kind
	Text  string // KindText: literal content
	Code  string // KindIcon: trigram, e.g. "abo"
	Glyph string // KindIcon: rendered glyph
	Name  string // KindCard: card name
}

// TextNode builds a plain text node.
func TextNode(s string) Node { return Node{Kind: KindText, Text: s} }

// IconNode builds an icon node from its trigram and glyph.
func IconNode(code, glyph string) Node { return Node{Kind: KindIcon, Code: code, Glyph: glyph} }

// CardNode builds an inline card reference node.
func CardNode(name string) Node { return Node{Kind: KindCard, Name: name} }

// Atomic reports whether the node is indivisible under editing: the caret can
// sit before or after it, never inside.
func (n Node) Atomic() bool {
	return n.Kind != KindText
}

// Content holds a parsed ruling: the inline node sequence plus the references
// stripped from the text, to be rendered as footer links.
type Content struct {
	Nodes      []Node
	References []rulings.ReferenceSubstitution
}
