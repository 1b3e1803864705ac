// ABOUTME: Shared editing position: which entity and field hold the focus, and where the caret sits.
// ABOUTME: Constructed once per page and passed by reference; only one field is active at a time.
package editor

// Position tracks the last known text-insertion point across all editable
// fields of a page. Focus events set the active field; selection events within
// that field record the caret. Selection events outside the active field are
// ignored on purpose: toolbar interaction momentarily moves the focus away and
// the last in-field position must survive that.
type Position struct {
	target string // uid of the entity root containing the focused field
	field  string // id of the focused editable field (ruling uid, member uid, name)
	node   int
	offset int
}

// Focus marks a field of an entity as the active editing target and resets the
// recorded caret.
func (p *Position) Focus(target, field string) {
	if p.target == target && p.field == field {
		return
	}
	p.target = target
	p.field = field
	p.node = 0
	p.offset = 0
}

// Observe records a selection change. Out-of-field selections are ignored and
// the stale position is retained; it reports whether the event was recorded.
func (p *Position) Observe(field string, node, offset int) bool {
	if field != p.field || p.field == "" {
		return false
	}
	p.node = node
	p.offset = offset
	return true
}

// Target returns the uid of the entity owning the focused field, empty when
// nothing has been focused yet.
func (p *Position) Target() string { return p.target }

// Field returns the id of the focused editable field.
func (p *Position) Field() string { return p.field }

// Caret returns the last recorded node index and offset.
func (p *Position) Caret() (node, offset int) { return p.node, p.offset }

// Retarget switches the position to an entity root without a field focus, used
// by the add-reference path when the tracked field is stale or belongs to
// another entity.
func (p *Position) Retarget(target string) {
	p.target = target
	p.field = ""
	p.node = 0
	p.offset = 0
}
