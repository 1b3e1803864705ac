// ABOUTME: Group editing session: the group name, its member list and one prefix buffer per member.
// ABOUTME: Every save sends the complete member map; the server recomputes each member's state.
package editor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/richtext"
	"github.com/vtes-biased/rulings-website/rulings"
)

// GroupSession holds one group under edition. Members marked DELETED stay in
// the list so they can be restored, but they are excluded from the saved map.
type GroupSession struct {
	mu       sync.RWMutex
	id       ulid.ULID
	client   *api.Client
	cart     *Cart
	group    rulings.Group
	name     string
	prefixes map[string]*richtext.Buffer
	bounce   map[string]*Debouncer
	seq      uint64
	applied  uint64
	pending  bool // membership changed locally since the last applied save
	gone     bool

	OnApply func()
	OnError func(error)
}

// NewGroupSession wraps an existing group for edition.
func NewGroupSession(client *api.Client, cart *Cart, g rulings.Group) *GroupSession {
	s := &GroupSession{
		id:     ulid.Make(),
		client: client,
		cart:   cart,
		bounce: make(map[string]*Debouncer),
	}
	s.applyLocked(g)
	return s
}

// NewGroup creates an empty group on the server and returns a session editing
// it.
func NewGroup(ctx context.Context, client *api.Client, cart *Cart, name string) (*GroupSession, error) {
	g, err := client.CreateGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	s := NewGroupSession(client, cart, *g)
	if cart != nil {
		cart.Register(rulings.NID{UID: g.UID, Name: g.Name})
	}
	return s, nil
}

// ID returns the session identifier.
func (s *GroupSession) ID() ulid.ULID { return s.id }

// Group returns a copy of the current group data.
func (s *GroupSession) Group() rulings.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.group
	g.Cards = append([]rulings.CardInGroup(nil), s.group.Cards...)
	return g
}

// Name returns the editable group name.
func (s *GroupSession) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName updates the editable name and schedules a save.
func (s *GroupSession) SetName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	s.Touched("name")
}

// Prefix returns the edit buffer for a member's prefix, nil for unknown uids.
func (s *GroupSession) Prefix(uid string) *richtext.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefixes[uid]
}

// Gone reports whether the group was removed server-side.
func (s *GroupSession) Gone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gone
}

// Editable reports whether the group accepts edits.
func (s *GroupSession) Editable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.gone && s.group.State != rulings.Deleted
}

// CanDelete reports whether the group delete control applies.
func (s *GroupSession) CanDelete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.gone && s.group.State.Deletable()
}

// CanRestore reports whether the group restore control applies.
func (s *GroupSession) CanRestore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.gone && s.group.State.Restorable()
}

// Touched schedules a debounced save for a field. Each editable field, the
// name and every member prefix, keeps its own timer so rapid edits in one
// field never delay another field's save.
func (s *GroupSession) Touched(field string) {
	s.mu.Lock()
	d, ok := s.bounce[field]
	if !ok {
		d = NewDebouncer(DefaultDebounce)
		s.bounce[field] = d
	}
	s.mu.Unlock()
	d.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Save(ctx); err != nil {
			s.reportError(err)
		}
	})
}

// Flush fires every pending debounced save immediately.
func (s *GroupSession) Flush() {
	s.mu.RLock()
	pending := make([]*Debouncer, 0, len(s.bounce))
	for _, d := range s.bounce {
		pending = append(pending, d)
	}
	s.mu.RUnlock()
	for _, d := range pending {
		d.Flush()
	}
}

// Save sends the group name and the full map of non-deleted members with
// their serialized prefixes, then reconciles the local list against the
// server's answer. Unchanged content skips the call.
func (s *GroupSession) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.gone || s.group.State == rulings.Deleted {
		s.mu.Unlock()
		return nil
	}
	update := api.GroupUpdate{Name: s.name, Cards: make(map[string]string)}
	dirty := s.pending || s.name != s.group.Name
	for _, member := range s.group.Cards {
		if member.State == rulings.Deleted {
			continue
		}
		buf := s.prefixes[member.UID]
		prefix := ""
		if buf != nil {
			prefix = richtext.Serialize(buf.Nodes(), nil)
		}
		update.Cards[member.UID] = prefix
		if prefix != member.Prefix {
			dirty = true
		}
	}
	if !dirty {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	uid := s.group.UID
	s.mu.Unlock()

	updated, err := s.client.UpdateGroup(ctx, uid, update)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if seq < s.applied {
		log.Printf("group session %s: discarding stale save response (seq %d < %d)", s.id, seq, s.applied)
		s.mu.Unlock()
		return nil
	}
	s.applied = seq
	s.applyLocked(*updated)
	s.mu.Unlock()

	s.registerSelf()
	s.notifyApply()
	return nil
}

// AddCard puts a card in the group. A member already present and marked
// DELETED is revived instead of duplicated.
func (s *GroupSession) AddCard(ctx context.Context, uid, name string) error {
	s.mu.Lock()
	if s.gone || s.group.State == rulings.Deleted {
		s.mu.Unlock()
		return nil
	}
	found := false
	for i, member := range s.group.Cards {
		if member.UID == uid {
			if member.State != rulings.Deleted {
				s.mu.Unlock()
				return nil
			}
			s.group.Cards[i].State = rulings.Original
			s.ensureBufferLocked(s.group.Cards[i])
			s.pending = true
			found = true
			break
		}
	}
	if !found {
		member := rulings.CardInGroup{UID: uid, Name: name, State: rulings.New}
		s.group.Cards = append(s.group.Cards, member)
		s.ensureBufferLocked(member)
		s.pending = true
	}
	s.mu.Unlock()
	return s.Save(ctx)
}

// RemoveCard marks a member deleted and saves; the member drops out of the
// sent map so the server records the removal.
func (s *GroupSession) RemoveCard(ctx context.Context, uid string) error {
	s.mu.Lock()
	if s.gone || s.group.State == rulings.Deleted {
		s.mu.Unlock()
		return nil
	}
	for i, member := range s.group.Cards {
		if member.UID == uid {
			s.group.Cards[i].State = rulings.Deleted
			delete(s.prefixes, uid)
			s.pending = true
			break
		}
	}
	s.mu.Unlock()
	return s.Save(ctx)
}

// RestoreCard cancels a member's pending removal or prefix change.
func (s *GroupSession) RestoreCard(ctx context.Context, uid string) error {
	s.mu.RLock()
	if s.gone {
		s.mu.RUnlock()
		return nil
	}
	groupUID := s.group.UID
	s.mu.RUnlock()

	updated, err := s.client.RestoreGroupCard(ctx, groupUID, uid)
	if err != nil {
		return err
	}
	s.finish(updated)
	s.registerSelf()
	s.notifyApply()
	return nil
}

// Delete marks the whole group deleted.
func (s *GroupSession) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.gone || !s.group.State.Deletable() {
		log.Printf("group session %s: delete ignored in state %s", s.id, s.group.State)
		s.mu.Unlock()
		return nil
	}
	uid := s.group.UID
	s.mu.Unlock()
	s.cancelAll()

	deleted, err := s.client.DeleteGroup(ctx, uid)
	if err != nil {
		return err
	}
	s.finish(deleted)
	s.registerSelf()
	s.notifyApply()
	return nil
}

// Restore cancels the group's pending deletion or modification.
func (s *GroupSession) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.gone || !s.group.State.Restorable() {
		log.Printf("group session %s: restore ignored in state %s", s.id, s.group.State)
		s.mu.Unlock()
		return nil
	}
	uid := s.group.UID
	s.mu.Unlock()
	s.cancelAll()

	restored, err := s.client.RestoreGroup(ctx, uid)
	if err != nil {
		return err
	}
	s.finish(restored)
	s.registerSelf()
	s.notifyApply()
	return nil
}

// applyLocked replaces the local group with the server's version, rebuilding
// prefix buffers while keeping each caret where it was.
func (s *GroupSession) applyLocked(g rulings.Group) {
	positions := make(map[string]int, len(s.prefixes))
	for uid, buf := range s.prefixes {
		positions[uid] = buf.Position()
	}
	s.group = g
	s.name = g.Name
	s.pending = false
	s.prefixes = make(map[string]*richtext.Buffer, len(g.Cards))
	for _, member := range g.Cards {
		if member.State == rulings.Deleted {
			continue
		}
		buf := s.buildBuffer(member)
		if pos, ok := positions[member.UID]; ok {
			buf.SetPosition(pos)
		}
		s.prefixes[member.UID] = buf
	}
}

func (s *GroupSession) buildBuffer(member rulings.CardInGroup) *richtext.Buffer {
	content := richtext.Parse(member.Prefix, member.Symbols, nil, nil)
	return richtext.NewBuffer(content.Nodes)
}

func (s *GroupSession) ensureBufferLocked(member rulings.CardInGroup) {
	if _, ok := s.prefixes[member.UID]; !ok {
		s.prefixes[member.UID] = s.buildBuffer(member)
	}
}

func (s *GroupSession) finish(g *rulings.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g == nil {
		s.gone = true
		return
	}
	s.applyLocked(*g)
}

func (s *GroupSession) cancelAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.bounce {
		d.Cancel()
	}
}

func (s *GroupSession) registerSelf() {
	if s.cart == nil {
		return
	}
	s.mu.RLock()
	nid := rulings.NID{UID: s.group.UID, Name: s.group.Name}
	s.mu.RUnlock()
	s.cart.Register(nid)
}

func (s *GroupSession) notifyApply() {
	if s.OnApply != nil {
		s.OnApply()
	}
}

func (s *GroupSession) reportError(err error) {
	log.Printf("group session %s: save failed: %v", s.id, err)
	if s.OnError != nil {
		s.OnError(err)
	}
}
