// ABOUTME: YAML fixtures seeding the test index with cards, groups, rulings and references.
// ABOUTME: Tests load a fixture file or inline yaml instead of hand-building base data.
package apitest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vtes-biased/rulings-website/rulings"
)

// Fixture is the yaml shape of a seed file.
type Fixture struct {
	Cards      []Card               `yaml:"cards"`
	Groups     []rulings.Group      `yaml:"groups"`
	Rulings    map[string][]string  `yaml:"rulings"` // target uid -> canonical texts
	References []rulings.Reference  `yaml:"references"`
	VeknPosts  map[string]string    `yaml:"vekn_posts"` // forum url -> scraped uid
}

// LoadFixture reads a yaml seed file into a fresh index.
func LoadFixture(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture seeds a fresh index from yaml bytes.
func ParseFixture(data []byte) (*Index, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	ix := NewIndex()
	ix.Seed(fx)
	return ix, nil
}

// Seed loads fixture content into the base data.
func (ix *Index) Seed(fx Fixture) {
	for _, c := range fx.Cards {
		ix.AddCard(c)
	}
	for _, ref := range fx.References {
		ix.AddBaseReference(ref)
	}
	for _, g := range fx.Groups {
		ix.AddBaseGroup(g)
	}
	for target, texts := range fx.Rulings {
		for _, text := range texts {
			ix.AddBaseRuling(target, text)
		}
	}
	for url, uid := range fx.VeknPosts {
		ix.AddVeknPost(url, uid)
	}
}
