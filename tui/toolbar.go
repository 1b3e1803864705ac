// ABOUTME: Symbol toolbar cycling through the discipline trigrams for insertion at the caret.
// ABOUTME: Lower and upper case variants sit side by side; selection wraps around.
package tui

import (
	"sort"
	"strings"

	"github.com/vtes-biased/rulings-website/symbol"
)

// ToolbarModel is the symbol insertion toolbar. It holds the full trigram
// table in a stable order and one selected entry.
type ToolbarModel struct {
	codes    []string
	selected int
	width    int
}

// NewToolbarModel builds the toolbar from the symbol table, trigram codes
// first in alphabetical order, word codes after.
func NewToolbarModel() ToolbarModel {
	var trigrams, words []string
	for code := range symbol.Glyphs {
		if len(code) == 3 {
			trigrams = append(trigrams, code)
		} else {
			words = append(words, code)
		}
	}
	sort.Strings(trigrams)
	sort.Strings(words)
	return ToolbarModel{codes: append(trigrams, words...)}
}

// Selected returns the selected code and its glyph.
func (m ToolbarModel) Selected() (code, glyph string) {
	code = m.codes[m.selected]
	glyph = symbol.Glyphs[code]
	return code, glyph
}

// Next moves the selection right, wrapping around.
func (m *ToolbarModel) Next() {
	m.selected = (m.selected + 1) % len(m.codes)
}

// Prev moves the selection left, wrapping around.
func (m *ToolbarModel) Prev() {
	m.selected = (m.selected - 1 + len(m.codes)) % len(m.codes)
}

// SetWidth sets the available width.
func (m *ToolbarModel) SetWidth(w int) { m.width = w }

// View renders a window of the toolbar centered on the selection.
func (m ToolbarModel) View() string {
	perSide := 8
	if m.width > 0 {
		if fit := m.width / 12; fit > 1 && fit/2 < perSide {
			perSide = fit / 2
		}
	}
	var b strings.Builder
	b.WriteString(ToolbarStyle.Render("Symbol: "))
	for i := m.selected - perSide; i <= m.selected+perSide; i++ {
		idx := (i%len(m.codes) + len(m.codes)) % len(m.codes)
		code := m.codes[idx]
		entry := symbol.Glyphs[code] + " " + code
		if idx == m.selected {
			b.WriteString(ToolbarSelectedStyle.Render("[" + entry + "]"))
		} else {
			b.WriteString(ToolbarStyle.Render(" " + entry + " "))
		}
	}
	return b.String()
}
