// ABOUTME: Proposal cart: the running list of entities touched by the current proposal.
// ABOUTME: Registration is idempotent and routes by uid prefix into card and group sections.
package editor

import (
	"sync"

	"github.com/vtes-biased/rulings-website/rulings"
)

// Cart accumulates the entities modified during a proposal session. Every
// mutating action registers its owning entity; registering the same entity
// again is a no-op so the cart never grows duplicates.
type Cart struct {
	mu       sync.Mutex
	proposal rulings.Proposal
	onChange func(rulings.Proposal)
}

// NewCart wraps a proposal, usually one freshly started or resumed from the
// server.
func NewCart(p rulings.Proposal) *Cart {
	return &Cart{proposal: p}
}

// OnChange installs a callback invoked with a snapshot after every Register,
// whether or not the entity was new. The panel re-renders on each call.
func (c *Cart) OnChange(fn func(rulings.Proposal)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Register adds an entity to the cart unless it is already listed. Group and
// proposal uids go to the groups section, everything else to cards. It reports
// whether the entity was newly added.
func (c *Cart) Register(nid rulings.NID) bool {
	c.mu.Lock()
	section := &c.proposal.Cards
	if nid.IsGroup() {
		section = &c.proposal.Groups
	}
	added := true
	for _, existing := range *section {
		if existing.UID == nid.UID {
			added = false
			break
		}
	}
	if added {
		*section = append(*section, nid)
	}
	fn := c.onChange
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
	return added
}

// Proposal returns a copy of the current proposal contents.
func (c *Cart) Proposal() rulings.Proposal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetDescription updates the proposal name and description, typically before
// an update or submit call.
func (c *Cart) SetDescription(name, description string) {
	c.mu.Lock()
	c.proposal.Name = name
	c.proposal.Description = description
	c.mu.Unlock()
}

func (c *Cart) snapshotLocked() rulings.Proposal {
	p := c.proposal
	p.Cards = append([]rulings.NID(nil), c.proposal.Cards...)
	p.Groups = append([]rulings.NID(nil), c.proposal.Groups...)
	return p
}
