// ABOUTME: Editable buffer over a node sequence with an explicit caret, the engine behind the text fields.
// ABOUTME: Icon and card nodes are atomic: the caret moves over them, edits land before or after, never inside.
package richtext

import (
	"strings"
	"sync"
)

// Caret addresses an insertion point: a node index and a rune offset within
// that node's text. For atomic nodes the only valid offset is 0 (before the
// node); the position after an atomic node is the start of the next index.
type Caret struct {
	Node   int
	Offset int
}

// Buffer is an editable rich-text field: a node sequence plus a caret.
// It carries its own lock so the UI loop and the save loop can share it.
type Buffer struct {
	mu    sync.Mutex
	nodes []Node
	caret Caret
}

// NewBuffer builds a buffer over the given nodes with the caret at the end.
func NewBuffer(nodes []Node) *Buffer {
	b := &Buffer{nodes: nodes}
	b.moveEnd()
	return b
}

// Nodes returns a copy of the current node sequence.
func (b *Buffer) Nodes() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Caret returns the current caret position.
func (b *Buffer) Caret() Caret {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.caret
}

// Empty reports whether the buffer holds no content.
func (b *Buffer) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes) == 0
}

// SetCaret moves the caret, clamping to valid positions.
func (b *Buffer) SetCaret(node, offset int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if node < 0 {
		node = 0
	}
	if node >= len(b.nodes) {
		b.moveEnd()
		return
	}
	max := 0
	if b.nodes[node].Kind == KindText {
		max = len([]rune(b.nodes[node].Text))
	}
	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	b.caret = Caret{Node: node, Offset: offset}
}

// MoveEnd places the caret after the last node.
func (b *Buffer) MoveEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moveEnd()
}

func (b *Buffer) moveEnd() {
	if len(b.nodes) == 0 {
		b.caret = Caret{}
		return
	}
	last := len(b.nodes) - 1
	if b.nodes[last].Kind == KindText {
		b.caret = Caret{Node: last, Offset: len([]rune(b.nodes[last].Text))}
	} else {
		b.caret = Caret{Node: last + 1}
	}
}

// MoveStart places the caret before the first node.
func (b *Buffer) MoveStart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caret = Caret{}
}

// MoveLeft moves the caret one position left, hopping over atomic nodes.
func (b *Buffer) MoveLeft() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.caret.Offset > 0 {
		b.caret.Offset--
		return
	}
	if b.caret.Node == 0 {
		return
	}
	prev := b.caret.Node - 1
	if b.nodes[prev].Kind == KindText {
		runes := len([]rune(b.nodes[prev].Text))
		if runes > 0 {
			b.caret = Caret{Node: prev, Offset: runes - 1}
		} else {
			b.caret = Caret{Node: prev}
		}
	} else {
		b.caret = Caret{Node: prev}
	}
}

// MoveRight moves the caret one position right, hopping over atomic nodes.
func (b *Buffer) MoveRight() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.caret.Node >= len(b.nodes) {
		return
	}
	node := b.nodes[b.caret.Node]
	if node.Kind == KindText {
		runes := len([]rune(node.Text))
		if b.caret.Offset < runes {
			b.caret.Offset++
			if b.caret.Offset == runes && b.caret.Node < len(b.nodes)-1 {
				b.caret = Caret{Node: b.caret.Node + 1}
			}
			return
		}
	}
	b.caret = Caret{Node: b.caret.Node + 1}
}

// InsertText inserts literal text at the caret and leaves the caret after it.
func (b *Buffer) InsertText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertText(s)
}

func (b *Buffer) insertText(s string) {
	if s == "" {
		return
	}
	if b.caret.Node < len(b.nodes) && b.nodes[b.caret.Node].Kind == KindText {
		runes := []rune(b.nodes[b.caret.Node].Text)
		inserted := []rune(s)
		out := make([]rune, 0, len(runes)+len(inserted))
		out = append(out, runes[:b.caret.Offset]...)
		out = append(out, inserted...)
		out = append(out, runes[b.caret.Offset:]...)
		b.nodes[b.caret.Node].Text = string(out)
		b.caret.Offset += len(inserted)
		return
	}
	b.spliceNodes(b.caret.Node, TextNode(s))
	b.caret = Caret{Node: b.caret.Node, Offset: len([]rune(s))}
	b.normalize()
}

// InsertRune inserts a single rune at the caret.
func (b *Buffer) InsertRune(r rune) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertText(string(r))
}

// InsertIcon inserts an icon node at the caret, caret ending immediately after
// the inserted element.
func (b *Buffer) InsertIcon(code, glyph string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertAtomic(IconNode(code, glyph))
}

// InsertCard inserts an inline card reference at the caret, caret ending
// immediately after the inserted element.
func (b *Buffer) InsertCard(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertAtomic(CardNode(name))
}

func (b *Buffer) insertAtomic(node Node) {
	idx := b.caret.Node
	if idx < len(b.nodes) && b.nodes[idx].Kind == KindText && b.caret.Offset > 0 {
		runes := []rune(b.nodes[idx].Text)
		if b.caret.Offset < len(runes) {
			// split the text node around the caret
			left := string(runes[:b.caret.Offset])
			right := string(runes[b.caret.Offset:])
			b.nodes[idx].Text = left
			b.spliceNodes(idx+1, node, TextNode(right))
			b.caret = Caret{Node: idx + 2}
			return
		}
		idx++
	}
	b.spliceNodes(idx, node)
	b.caret = Caret{Node: idx + 1}
}

// Backspace removes the rune or atomic node immediately before the caret.
func (b *Buffer) Backspace() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.caret.Node < len(b.nodes) && b.nodes[b.caret.Node].Kind == KindText && b.caret.Offset > 0 {
		runes := []rune(b.nodes[b.caret.Node].Text)
		out := append(append([]rune{}, runes[:b.caret.Offset-1]...), runes[b.caret.Offset:]...)
		b.nodes[b.caret.Node].Text = string(out)
		b.caret.Offset--
		b.normalize()
		return
	}
	if b.caret.Node == 0 {
		return
	}
	prev := b.caret.Node - 1
	if b.nodes[prev].Atomic() {
		b.nodes = append(b.nodes[:prev], b.nodes[prev+1:]...)
		b.caret = Caret{Node: prev}
		b.normalize()
		return
	}
	runes := []rune(b.nodes[prev].Text)
	if len(runes) == 0 {
		b.nodes = append(b.nodes[:prev], b.nodes[prev+1:]...)
		b.caret = Caret{Node: prev}
	} else {
		b.nodes[prev].Text = string(runes[:len(runes)-1])
		b.caret = Caret{Node: prev, Offset: len(runes) - 1}
	}
	b.normalize()
}

// spliceNodes inserts nodes at index i.
func (b *Buffer) spliceNodes(i int, nodes ...Node) {
	if i > len(b.nodes) {
		i = len(b.nodes)
	}
	out := make([]Node, 0, len(b.nodes)+len(nodes))
	out = append(out, b.nodes[:i]...)
	out = append(out, nodes...)
	out = append(out, b.nodes[i:]...)
	b.nodes = out
}

// Position returns the caret as a flat offset over the buffer content, where
// each text rune and each atomic node counts for one. Stable across normalize
// and across re-renders of equivalent content.
func (b *Buffer) Position() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position()
}

func (b *Buffer) position() int {
	pos := 0
	for i, n := range b.nodes {
		if i == b.caret.Node {
			return pos + b.caret.Offset
		}
		if n.Kind == KindText {
			pos += len([]rune(n.Text))
		} else {
			pos++
		}
	}
	return pos
}

// SetPosition places the caret at the given flat offset, clamping to content.
func (b *Buffer) SetPosition(pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setPosition(pos)
}

func (b *Buffer) setPosition(pos int) {
	if pos < 0 {
		pos = 0
	}
	for i, n := range b.nodes {
		width := 1
		if n.Kind == KindText {
			width = len([]rune(n.Text))
		}
		if n.Kind == KindText && pos <= width {
			b.caret = Caret{Node: i, Offset: pos}
			return
		}
		if n.Atomic() && pos == 0 {
			b.caret = Caret{Node: i}
			return
		}
		pos -= width
	}
	b.moveEnd()
}

// normalize merges adjacent text nodes and drops empty ones, keeping the caret
// at the equivalent flat position.
func (b *Buffer) normalize() {
	pos := b.position()
	out := make([]Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		if n.Kind == KindText && n.Text == "" {
			continue
		}
		if n.Kind == KindText && len(out) > 0 && out[len(out)-1].Kind == KindText {
			out[len(out)-1].Text += n.Text
			continue
		}
		out = append(out, n)
	}
	b.nodes = out
	b.setPosition(pos)
}

// String renders the buffer's visible content: plain text with glyphs and card
// names inline, used for display widths and debugging.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, n := range b.nodes {
		switch n.Kind {
		case KindText:
			sb.WriteString(n.Text)
		case KindIcon:
			sb.WriteString(n.Glyph)
		case KindCard:
			sb.WriteString(n.Name)
		}
	}
	return sb.String()
}
