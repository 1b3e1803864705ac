// ABOUTME: One-pass tokenizer turning a canonical encoded string plus substitution tables into typed nodes.
// ABOUTME: Replaces the literal replace-all decoding of earlier iterations to eliminate order-dependent overlap bugs.
package richtext

import (
	"strings"

	"github.com/vtes-biased/rulings-website/rulings"
)

// Parse decodes a canonical text using the substitution tables served with it.
// Symbol tokens become icon nodes, card tokens become card nodes, reference
// tokens are removed from the inline stream and collected separately. Bracketed
// or braced content absent from every table stays literal text.
func Parse(text string, symbols []rulings.SymbolSubstitution, cards []rulings.CardSubstitution, refs []rulings.ReferenceSubstitution) Content {
	symbolTable := make(map[string]rulings.SymbolSubstitution, len(symbols))
	for _, s := range symbols {
		symbolTable[s.Text] = s
	}
	cardTable := make(map[string]rulings.CardSubstitution, len(cards))
	for _, c := range cards {
		cardTable[c.Text] = c
	}
	refTable := make(map[string]rulings.ReferenceSubstitution, len(refs))
	for _, r := range refs {
		refTable[r.Text] = r
	}

	var content Content
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			content.Nodes = append(content.Nodes, TextNode(plain.String()))
			plain.Reset()
		}
	}

	for i := 0; i < len(text); {
		var closing byte
		switch text[i] {
		case '[':
			closing = ']'
		case '{':
			closing = '}'
		default:
			plain.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i:], closing)
		if end < 0 {
			plain.WriteByte(text[i])
			i++
			continue
		}
		token := text[i : i+end+1]
		if sub, ok := symbolTable[token]; ok {
			flush()
			content.Nodes = append(content.Nodes, IconNode(strings.Trim(sub.Text, "[]"), sub.Symbol))
		} else if sub, ok := cardTable[token]; ok {
			flush()
			content.Nodes = append(content.Nodes, CardNode(sub.Name))
		} else if sub, ok := refTable[token]; ok {
			flush()
			content.References = append(content.References, sub)
		} else {
			// not a known token, keep the opening byte literal and rescan
			plain.WriteByte(text[i])
			i++
			continue
		}
		i += end + 1
	}
	flush()
	content.trimEdges()
	return content
}

// trimEdges drops the whitespace left around reference tokens and at the text
// boundaries, so the decoded content matches what reserializing would produce.
func (c *Content) trimEdges() {
	if len(c.Nodes) > 0 && c.Nodes[0].Kind == KindText {
		c.Nodes[0].Text = strings.TrimLeft(c.Nodes[0].Text, " \t\n")
		if c.Nodes[0].Text == "" {
			c.Nodes = c.Nodes[1:]
		}
	}
	if len(c.Nodes) > 0 {
		last := len(c.Nodes) - 1
		if c.Nodes[last].Kind == KindText {
			c.Nodes[last].Text = strings.TrimRight(c.Nodes[last].Text, " \t\n")
			if c.Nodes[last].Text == "" {
				c.Nodes = c.Nodes[:last]
			}
		}
	}
}
