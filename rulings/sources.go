// ABOUTME: Registry of valid ruling reference sources with their office date ranges.
// ABOUTME: Provides uid parsing and validation for reference identifiers like "LSJ 20040518".
package rulings

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// Source describes one valid origin of ruling references: the successive Rules
// Directors, the Rules Team, and the rulebook.
type Source struct {
	Name string
	From string // inclusive ISO date, empty when unbounded
	To   string // exclusive ISO date, empty when unbounded
}

// Sources is the registry of valid reference uid prefixes.
var Sources = map[string]Source{
	"TOM": {Name: "Thomas R Wylie", From: "1994-12-15", To: "1996-07-29"},
	"SFC": {Name: "Shawn F. Carnes", From: "1996-07-29", To: "1996-10-18"},
	"JON": {Name: "Jon Wilkie", From: "1996-10-18", To: "1997-02-24"},
	"LSJ": {Name: "L. Scott Johnson", From: "1997-02-24", To: "2011-07-06"},
	"PIB": {Name: "Pascal Bertrand", From: "2011-07-06", To: "2016-12-04"},
	"ANK": {Name: `Vincent "Ankha" Ripoll`, From: "2016-12-04"},
	"RTR": {Name: "Rules Team Ruling"},
	"RBK": {Name: "Rulebook"},
}

// ReferenceFromUID builds a Reference from its uid, deriving source and date
// from the uid structure (`SRC YYYYMMDD[-n]`, or `RBK xxx` for rulebook pages).
func ReferenceFromUID(uid, url string, state State) (Reference, error) {
	if len(uid) < 4 || uid[3] != ' ' {
		return Reference{}, fmt.Errorf("reference must have a space after its prefix: %q", uid)
	}
	source := uid[:3]
	if _, ok := Sources[source]; !ok {
		return Reference{}, fmt.Errorf("unknown reference source %q", source)
	}
	ref := Reference{UID: uid, URL: url, Source: source, State: state}
	if source != "RBK" {
		if len(uid) < 12 {
			return Reference{}, fmt.Errorf("reference %q has no date", uid)
		}
		date, err := time.Parse("20060102", uid[4:12])
		if err != nil {
			return Reference{}, fmt.Errorf("invalid date in reference %q: %w", uid, err)
		}
		ref.Date = date.Format("2006-01-02")
	}
	return ref, nil
}

// CheckSourceAndDate verifies the reference date falls inside its source's
// tenure. Sources without date bounds (RTR, RBK) always pass.
func (r Reference) CheckSourceAndDate() error {
	src, ok := Sources[r.Source]
	if !ok {
		return fmt.Errorf("unknown reference source %q", r.Source)
	}
	if src.From == "" && src.To == "" {
		return nil
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return fmt.Errorf("invalid reference date %q: %w", r.Date, err)
	}
	if src.From != "" {
		from, _ := time.Parse("2006-01-02", src.From)
		if date.Before(from) {
			return fmt.Errorf("%s was not Rules Director yet on %s", src.Name, r.Date)
		}
	}
	if src.To != "" {
		to, _ := time.Parse("2006-01-02", src.To)
		if date.After(to) {
			return fmt.Errorf("%s was not Rules Director anymore on %s", src.Name, r.Date)
		}
	}
	return nil
}

// CheckURL verifies the reference URL belongs to a recognized archive domain.
func (r Reference) CheckURL() error {
	if r.URL == "" {
		return fmt.Errorf("reference %s has no URL", r.UID)
	}
	for _, domain := range []string{
		"https://boardgamegeek.com/",
		"https://www.boardgamegeek.com/",
		"https://groups.google.com/",
		"https://www.vekn.net/",
	} {
		if strings.HasPrefix(r.URL, domain) {
			return nil
		}
	}
	return fmt.Errorf("ruling URL not from a reference domain: %s", r.URL)
}

// RulebookReferences is the fixed list of canonical rulebook references offered
// by the reference picker. New RBK references cannot be created.
var RulebookReferences = []Reference{
	{UID: "RBK Rulebook", URL: "https://www.vekn.net/rulebook", Source: "RBK", State: Original},
	{UID: "RBK Imbued", URL: "https://www.vekn.net/images/stories/downloads/2018/imbued_rules.pdf", Source: "RBK", State: Original},
}

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// StableHash returns a short stable identifier for a ruling text. Five bytes of
// digest give an 8 character base32 string, enough below 100k items.
func StableHash(s string) string {
	digest := sha256.Sum256([]byte(s))
	return b32.EncodeToString(digest[:5])
}

// RandomUID returns a random 8 character base32 identifier, used for rulings
// created with empty text where no stable hash is possible yet.
func RandomUID() string {
	var buf [5]byte
	_, _ = rand.Read(buf[:])
	return b32.EncodeToString(buf[:])
}
