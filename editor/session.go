// ABOUTME: Ruling editing session: one in-memory ruling, its edit buffer, and its autosave loop.
// ABOUTME: The server response is authoritative; every save re-applies it and re-derives the buffer.
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

// Session holds one ruling under edition. Ruling data is guarded by the
// session lock; the buffer carries its own lock so the UI loop can type into
// it while a background save serializes or repositions it.
type Session struct {
	mu       sync.RWMutex
	id       ulid.ULID
	client   *api.Client
	cart     *Cart
	ruling   rulings.Ruling
	buffer   *richtext.Buffer
	debounce *Debouncer
	seq      uint64 // last save request issued
	applied  uint64 // last save response applied
	gone     bool   // entity fully removed server-side

	// OnApply is called after a server response replaces the local state,
	// OnError when a background save fails. Both may be nil.
	OnApply func()
	OnError func(error)
}

// NewSession wraps an existing ruling for edition.
func NewSession(client *api.Client, cart *Cart, r rulings.Ruling) *Session {
	s := &Session{
		id:       ulid.Make(),
		client:   client,
		cart:     cart,
		debounce: NewDebouncer(DefaultDebounce),
	}
	s.applyLocked(r)
	return s
}

// NewRuling creates an empty ruling on target and returns a session editing it.
func NewRuling(ctx context.Context, client *api.Client, cart *Cart, target rulings.NID) (*Session, error) {
	r, err := client.CreateRuling(ctx, target.UID, "")
	if err != nil {
		return nil, err
	}
	s := NewSession(client, cart, *r)
	if cart != nil {
		cart.Register(target)
	}
	return s, nil
}

// ID returns the session identifier, used to correlate log lines.
func (s *Session) ID() ulid.ULID { return s.id }

// Ruling returns a copy of the current ruling data.
func (s *Session) Ruling() rulings.Ruling {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ruling
}

// Buffer exposes the edit buffer. The buffer is safe to mutate from any
// goroutine; callers edit it and then call Touched to schedule the save.
func (s *Session) Buffer() *richtext.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer
}

// Gone reports whether the entity was removed server-side; a gone session must
// be dropped from the view.
func (s *Session) Gone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gone
}

// Editable reports whether the ruling text accepts input.
func (s *Session) Editable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.gone && s.ruling.State != rulings.Deleted
}

// CanDelete reports whether the delete control applies in the current state.
func (s *Session) CanDelete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.gone && s.ruling.State.Deletable()
}

// CanRestore reports whether the restore control applies in the current state.
func (s *Session) CanRestore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.gone && s.ruling.State.Restorable()
}

// NeedsReference reports whether the ruling has no reference attached. Such a
// ruling cannot be part of a valid proposal and the view flags it.
func (s *Session) NeedsReference() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ruling.References) == 0
}

// Touched schedules a debounced save. Each call during the quiet window
// cancels the previous schedule.
func (s *Session) Touched() {
	s.debounce.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Save(ctx); err != nil {
			s.reportError(err)
		}
	})
}

// Flush runs any pending debounced save immediately.
func (s *Session) Flush() { s.debounce.Flush() }

// Save serializes the buffer and sends it to the server if it differs from the
// last known text. Responses arriving out of order are discarded so the most
// recent request always wins.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.gone || s.ruling.State == rulings.Deleted {
		s.mu.Unlock()
		return nil
	}
	text := richtext.Serialize(s.buffer.Nodes(), s.ruling.References)
	if text == s.ruling.Text {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	target := s.ruling.Target
	uid := s.ruling.UID
	s.mu.Unlock()

	updated, err := s.client.UpdateRuling(ctx, target.UID, uid, text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if seq < s.applied {
		// A later request already applied; this response is stale.
		log.Printf("session %s: discarding stale save response (seq %d < %d)", s.id, seq, s.applied)
		s.mu.Unlock()
		return nil
	}
	s.applied = seq
	if updated.Text == text {
		// The server kept our serialization verbatim: the live buffer stays,
		// so keystrokes typed while the request was in flight survive. The
		// next debounced save will pick them up.
		s.ruling = *updated
	} else {
		s.applyLocked(*updated)
	}
	s.mu.Unlock()

	s.registerOwner(target)
	s.notifyApply()
	return nil
}

// Delete marks the ruling deleted. Depending on its state the server answers
// with a replacement tombstone or with nothing at all; in the latter case the
// ruling is forgotten entirely.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.gone || !s.ruling.State.Deletable() {
		log.Printf("session %s: delete ignored in state %s", s.id, s.ruling.State)
		s.mu.Unlock()
		return nil
	}
	target := s.ruling.Target
	uid := s.ruling.UID
	s.mu.Unlock()
	s.debounce.Cancel()

	deleted, err := s.client.DeleteRuling(ctx, target.UID, uid)
	if err != nil {
		return err
	}
	s.finish(deleted)
	s.registerOwner(target)
	s.notifyApply()
	return nil
}

// Restore cancels a pending deletion or modification, reverting to the
// original text. A restored NEW ruling no longer exists and the session goes
// gone.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.gone || !s.ruling.State.Restorable() {
		log.Printf("session %s: restore ignored in state %s", s.id, s.ruling.State)
		s.mu.Unlock()
		return nil
	}
	target := s.ruling.Target
	uid := s.ruling.UID
	s.mu.Unlock()
	s.debounce.Cancel()

	restored, err := s.client.RestoreRuling(ctx, target.UID, uid)
	if err != nil {
		return err
	}
	s.finish(restored)
	s.registerOwner(target)
	s.notifyApply()
	return nil
}

// AttachReference prepends a reference to the ruling and saves. Attaching a
// reference already present is a no-op.
func (s *Session) AttachReference(ctx context.Context, ref rulings.Reference) error {
	s.mu.Lock()
	if s.gone || s.ruling.State == rulings.Deleted {
		s.mu.Unlock()
		return nil
	}
	for _, existing := range s.ruling.References {
		if existing.UID == ref.UID {
			s.mu.Unlock()
			return nil
		}
	}
	sub := rulings.ReferenceSubstitution{Reference: ref, Text: "[" + ref.UID + "]"}
	s.ruling.References = append([]rulings.ReferenceSubstitution{sub}, s.ruling.References...)
	s.mu.Unlock()
	return s.Save(ctx)
}

// RemoveReference detaches a reference by uid and saves.
func (s *Session) RemoveReference(ctx context.Context, uid string) error {
	s.mu.Lock()
	if s.gone || s.ruling.State == rulings.Deleted {
		s.mu.Unlock()
		return nil
	}
	kept := s.ruling.References[:0]
	for _, ref := range s.ruling.References {
		if ref.UID != uid {
			kept = append(kept, ref)
		}
	}
	s.ruling.References = kept
	s.mu.Unlock()
	return s.Save(ctx)
}

// applyLocked replaces the local ruling with the server's version and rebuilds
// the buffer, keeping the caret where it was.
func (s *Session) applyLocked(r rulings.Ruling) {
	content := richtext.Parse(r.Text, r.Symbols, r.Cards, r.References)
	if s.buffer == nil {
		s.ruling = r
		s.buffer = richtext.NewBuffer(content.Nodes)
		return
	}
	pos := s.buffer.Position()
	s.ruling = r
	s.buffer = richtext.NewBuffer(content.Nodes)
	s.buffer.SetPosition(pos)
}

// finish applies a terminal server answer: a replacement entity or, when the
// body was empty, full removal.
func (s *Session) finish(r *rulings.Ruling) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.gone = true
		return
	}
	s.applyLocked(*r)
}

func (s *Session) registerOwner(target rulings.NID) {
	if s.cart != nil {
		s.cart.Register(target)
	}
}

func (s *Session) notifyApply() {
	if s.OnApply != nil {
		s.OnApply()
	}
}

func (s *Session) reportError(err error) {
	log.Printf("session %s: save failed: %v", s.id, err)
	if s.OnError != nil {
		s.OnError(err)
	}
}
