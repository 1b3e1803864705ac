// ABOUTME: Reference picker: the lookup flow behind the add-reference modal.
// ABOUTME: Exactly one of add-new or add-existing is available after a lookup, never both.
package editor

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/rulings"
)

// Picker drives the reference selection dialog. The caller feeds it uid or
// url lookups; the picker decides whether the result is an existing reference
// to attach directly or a new one to create first.
type Picker struct {
	client      *api.Client
	uid         string
	url         string
	computedUID string
	existing    *rulings.Reference
	inlineErr   string
}

// NewPicker returns a picker in its blank state.
func NewPicker(client *api.Client) *Picker {
	return &Picker{client: client}
}

// Reset clears all lookup state, typically when the dialog closes.
func (p *Picker) Reset() {
	p.uid = ""
	p.url = ""
	p.computedUID = ""
	p.existing = nil
	p.inlineErr = ""
}

// InlineError returns the validation message from the last lookup, empty when
// the lookup succeeded. Validation failures are shown inside the dialog, not
// as toasts.
func (p *Picker) InlineError() string { return p.inlineErr }

// Existing returns the matched reference when the lookup found one.
func (p *Picker) Existing() *rulings.Reference { return p.existing }

// UID returns the uid a new reference would be created with.
func (p *Picker) UID() string {
	if p.uid != "" {
		return p.uid
	}
	return p.computedUID
}

// URL returns the url entered or matched by the last lookup.
func (p *Picker) URL() string { return p.url }

// CanAddExisting reports whether the lookup matched a known reference.
func (p *Picker) CanAddExisting() bool {
	return p.existing != nil && p.inlineErr == ""
}

// CanAddNew reports whether a new reference can be created from the lookup:
// a uid with no match, plus a url to back it.
func (p *Picker) CanAddNew() bool {
	return p.existing == nil && p.inlineErr == "" && p.UID() != "" && p.url != ""
}

// LookupUID searches for a reference by uid. A miss enables creation with the
// typed uid, a hit enables direct attachment.
func (p *Picker) LookupUID(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	p.uid = uid
	p.computedUID = ""
	p.existing = nil
	p.inlineErr = ""
	if uid == "" {
		return nil
	}
	res, err := p.client.SearchReference(ctx, uid, "")
	if err != nil {
		return p.absorb(err)
	}
	if res.Reference != nil {
		p.existing = res.Reference
		p.url = res.Reference.URL
	}
	return nil
}

// LookupURL searches for a reference by url. A hit attaches the existing
// reference; a miss on a recognized forum yields a computed uid for creation.
func (p *Picker) LookupURL(ctx context.Context, refURL string) error {
	refURL = strings.TrimSpace(refURL)
	p.url = refURL
	p.computedUID = ""
	p.existing = nil
	p.inlineErr = ""
	if refURL == "" {
		return nil
	}
	res, err := p.client.SearchReference(ctx, "", refURL)
	if err != nil {
		return p.absorb(err)
	}
	if res.Reference != nil {
		p.existing = res.Reference
		p.uid = res.Reference.UID
		return nil
	}
	p.computedUID = res.ComputedUID
	return nil
}

// SelectRulebook picks one of the fixed rulebook references; they always
// exist and attach directly.
func (p *Picker) SelectRulebook(uid string) bool {
	for i := range rulings.RulebookReferences {
		ref := rulings.RulebookReferences[i]
		if ref.UID == uid {
			p.uid = ref.UID
			p.url = ref.URL
			p.computedUID = ""
			p.existing = &ref
			p.inlineErr = ""
			return true
		}
	}
	return false
}

// AddNew creates the reference built from the current lookup state.
func (p *Picker) AddNew(ctx context.Context) (*rulings.Reference, error) {
	if !p.CanAddNew() {
		return nil, errors.New("no new reference to add")
	}
	ref, err := p.client.CreateReference(ctx, p.UID(), p.url)
	if err != nil {
		if absorbed := p.absorb(err); absorbed != nil {
			return nil, absorbed
		}
		return nil, err
	}
	return ref, nil
}

// absorb turns a client-side validation failure into an inline message and
// swallows it; other errors pass through.
func (p *Picker) absorb(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			// A miss is a normal lookup outcome.
			return nil
		case http.StatusBadRequest:
			p.inlineErr = apiErr.Message
			return nil
		}
	}
	return err
}
