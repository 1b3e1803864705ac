// ABOUTME: Bidirectional mapping between ankha trigram tokens and their display glyphs.
// ABOUTME: Covers disciplines (inferior and superior), virtues, card types and misc markers.
package symbol

import (
	"fmt"
	"strings"
)

// Glyphs maps a trigram (or card-type word) to the single glyph rendered by the
// ankha font. Case matters: upper-case discipline codes denote superior variants.
var Glyphs = map[string]string{
	"abo": "w", "ani": "i", "aus": "a", "cel": "c", "chi": "k",
	"dai": "y", "dem": "e", "dom": "d", "for": "f", "mal": "<",
	"mel": "m", "myt": "x", "nec": "n", "obe": "b", "obf": "o",
	"obt": "$", "pot": "p", "pre": "r", "pro": "j", "qui": "q",
	"san": "g", "ser": "s", "spi": "z", "str": "+", "tem": "?",
	"thn": "h", "tha": "t", "val": "l", "vic": "v", "vis": "u",
	"ABO": "W", "ANI": "I", "AUS": "A", "CEL": "C", "CHI": "K",
	"DAI": "Y", "DEM": "E", "DOM": "D", "FOR": "F", "MAL": ">",
	"MEL": "M", "MYT": "X", "NEC": "N", "OBE": "B", "OBF": "O",
	"OBT": "£", "POT": "P", "PRE": "R", "PRO": "J", "QUI": "Q",
	"SAN": "G", "SER": "S", "SPI": "Z", "STR": "=", "TEM": "!",
	"THN": "H", "THA": "T", "VAL": "L", "VIC": "V", "VIS": "U",
	"viz": ")", "def": "@", "jud": "%", "inn": "#", "mar": "&",
	"ven": "(", "red": "*",
	"ACTION":           "0",
	"POLITICAL":        "2",
	"POLITICAL ACTION": "2",
	"ALLY":             "3",
	"RETAINER":         "8",
	"EQUIPMENT":        "5",
	"MODIFIER":         "1",
	"ACTION MODIFIER":  "1",
	"REACTION":         "7",
	"COMBAT":           "4",
	"REFLEX":           "6",
	"POWER":            "§",
	"FLIGHT":           "^",
	"flight":           "^",
	"MERGED":           "µ",
	"CONVICTION":       "¤",
}

// codes is the reverse map, glyph to trigram. Where several codes share a glyph
// (POLITICAL/POLITICAL ACTION, FLIGHT/flight) the first map-ordered insert wins,
// so it is built explicitly to keep the canonical code deterministic.
var codes = buildReverse()

func buildReverse() map[string]string {
	ret := make(map[string]string, len(Glyphs))
	for code, glyph := range Glyphs {
		prev, ok := ret[glyph]
		if !ok || len(code) < len(prev) || (len(code) == len(prev) && code < prev) {
			ret[glyph] = code
		}
	}
	return ret
}

// Glyph returns the glyph for a trigram token content (without brackets).
func Glyph(code string) (string, bool) {
	g, ok := Glyphs[code]
	return g, ok
}

// Code returns the canonical trigram for a glyph. Used when encoding a rendered
// icon back into its `[abo]` form.
func Code(glyph string) (string, bool) {
	c, ok := codes[glyph]
	return c, ok
}

// Token wraps a trigram in brackets, producing the canonical text form.
func Token(code string) string {
	return "[" + code + "]"
}

// Substitution pairs the literal token found in a canonical text with the glyph
// it renders to. It mirrors the symbol substitution tables served by the API.
type Substitution struct {
	Text   string `json:"text" yaml:"text"`
	Symbol string `json:"symbol" yaml:"symbol"`
}

// Substitutions scans a canonical text for `[xyz]` tokens and returns one
// substitution per occurrence, in scan order. Bracketed content that is not a
// known symbol (ruling references, stray brackets) is skipped: only the
// opening bracket is consumed so overlapping candidates are still found.
func Substitutions(text string) []Substitution {
	var ret []Substitution
	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '[')
		if open < 0 {
			break
		}
		open += i
		closing := strings.IndexByte(text[open:], ']')
		if closing < 0 {
			break
		}
		closing += open
		code := text[open+1 : closing]
		glyph, ok := Glyphs[code]
		if !ok {
			i = open + 1
			continue
		}
		ret = append(ret, Substitution{Text: Token(code), Symbol: glyph})
		i = closing + 1
	}
	return ret
}

// PrefixSubstitutions parses a group member prefix, which may only contain
// symbol tokens. Any bracketed content that is not a known symbol is an error.
func PrefixSubstitutions(prefix string) ([]Substitution, error) {
	var ret []Substitution
	rest := prefix
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			return ret, nil
		}
		closing := strings.IndexByte(rest[open:], ']')
		if closing < 0 {
			return nil, fmt.Errorf("unterminated symbol token in prefix %q", prefix)
		}
		code := rest[open+1 : open+closing]
		glyph, ok := Glyphs[code]
		if !ok {
			return nil, fmt.Errorf("unknown symbol %q", Token(code))
		}
		ret = append(ret, Substitution{Text: Token(code), Symbol: glyph})
		rest = rest[open+closing+1:]
	}
}

// EncodeGlyphs converts a run of glyphs back into bracketed trigrams, in order.
// This is the prefix encoding used when a group member row is saved.
func EncodeGlyphs(glyphs string) (string, error) {
	var b strings.Builder
	for _, r := range glyphs {
		code, ok := Code(string(r))
		if !ok {
			return "", fmt.Errorf("unknown symbol glyph %q", string(r))
		}
		b.WriteString(Token(code))
	}
	return b.String(), nil
}
