// ABOUTME: Reference operations of the test index: lookup, creation with uid suffixing, checks.
// ABOUTME: The vekn forum scraper is replaced by a fixture map from url to computed uid.
package apitest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vtes-biased/rulings-website/rulings"
)

const veknForumPrefix = "https://www.vekn.net/forum/"

// AddVeknPost registers a forum url with the uid the scraper would compute
// for it. Urls not registered here fail the computed-uid lookup.
func (ix *Index) AddVeknPost(url, uid string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.veknPosts == nil {
		ix.veknPosts = make(map[string]string)
	}
	ix.veknPosts[url] = uid
}

// SearchReference finds a reference by uid or url. A url miss on the vekn
// forum yields a computed uid instead; any other miss is a 404.
func (ix *Index) SearchReference(uid, url string) (*rulings.Reference, string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if uid != "" {
		if ref, ok := ix.lookupRef(uid); ok {
			return &ref, "", nil
		}
		return nil, "", errf(404, "unknown reference %s", uid)
	}
	for _, ref := range ix.ovRefs {
		if ref.URL == url {
			return &ref, "", nil
		}
	}
	for _, ref := range ix.baseRefs {
		if ref.URL == url {
			return &ref, "", nil
		}
	}
	if strings.HasPrefix(url, veknForumPrefix) {
		if computed, ok := ix.veknPosts[url]; ok {
			return nil, computed, nil
		}
		return nil, "", errf(400, "could not identify post author and date for %s", url)
	}
	return nil, "", errf(404, "unknown reference url %s", url)
}

// InsertReference creates a NEW reference after validating uid format, source,
// date and url domain. Same-day uids get a numeric suffix; an identical url
// under the same day is a duplicate.
func (ix *Index) InsertReference(uid, url string) (rulings.Reference, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.requireProposal(); err != nil {
		return rulings.Reference{}, err
	}
	if uid == "" {
		return rulings.Reference{}, errf(400, "a reference ID is required")
	}
	if len(uid) < 4 || uid[3] != ' ' {
		return rulings.Reference{}, errf(400, "reference must have a space after prefix: %s", uid)
	}
	if _, taken := ix.lookupRef(uid); taken {
		resolved := ""
		for i := 2; i < 100; i++ {
			try := fmt.Sprintf("%s-%d", uid, i)
			if existing, ok := ix.lookupRef(try); ok {
				if existing.URL == url {
					return rulings.Reference{}, errf(400, "reference exists already")
				}
				continue
			}
			resolved = try
			break
		}
		if resolved == "" {
			return rulings.Reference{}, errf(400, "too many references on that day already")
		}
		uid = resolved
	}
	ref, err := rulings.ReferenceFromUID(uid, url, rulings.New)
	if err != nil {
		return rulings.Reference{}, errf(400, "%s", err)
	}
	if ref.Source == "RBK" {
		return rulings.Reference{}, errf(400, "new RBK references cannot be added, they are all listed already")
	}
	if err := ref.CheckURL(); err != nil {
		return rulings.Reference{}, errf(400, "%s", err)
	}
	if err := ref.CheckSourceAndDate(); err != nil {
		return rulings.Reference{}, errf(400, "%s", err)
	}
	ix.ovRefs[ref.UID] = ref
	return ref, nil
}

// CheckReferences verifies every ruling cites at least one known reference
// and no two references share a url. It returns human-readable findings.
func (ix *Index) CheckReferences() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	errors := []string{}
	for _, r := range ix.allRulingsLocked() {
		refs := 0
		for _, tok := range bracketTokens(r.Text) {
			if _, ok := ix.lookupRef(tok.inner); ok {
				refs++
			} else if looksLikeReference(tok.inner) {
				errors = append(errors, fmt.Sprintf(
					"%s ruling #%s has invalid reference %s", r.Target.Name, r.UID, tok.inner))
			}
		}
		if refs == 0 {
			errors = append(errors, fmt.Sprintf(
				"%s ruling #%s has no reference", r.Target.Name, r.UID))
		}
	}
	byURL := make(map[string][]string)
	for uid, ref := range ix.ovRefs {
		byURL[ref.URL] = append(byURL[ref.URL], uid)
	}
	for url, uids := range byURL {
		if len(uids) > 1 {
			sort.Strings(uids)
			errors = append(errors, fmt.Sprintf(
				"duplicated url %s for %s", url, strings.Join(uids, ", ")))
		}
	}
	sort.Strings(errors)
	return errors
}

// CheckConsistency reports rulings citing unknown cards or lacking references
// as structured errors.
func (ix *Index) CheckConsistency() []rulings.ConsistencyError {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	errors := []rulings.ConsistencyError{}
	for _, r := range ix.allRulingsLocked() {
		for _, tok := range braceTokens(r.Text) {
			if _, ok := ix.cardsByName[tok.inner]; !ok {
				errors = append(errors, rulings.ConsistencyError{
					Target:    r.Target,
					RulingUID: r.UID,
					Error:     fmt.Sprintf("unknown card %s", tok.literal),
				})
			}
		}
		if len(r.References) == 0 {
			errors = append(errors, rulings.ConsistencyError{
				Target:    r.Target,
				RulingUID: r.UID,
				Error:     "no reference",
			})
		}
	}
	return errors
}

// allRulingsLocked walks every target's current rulings, skipping deleted ones.
func (ix *Index) allRulingsLocked() []rulings.Ruling {
	targets := make(map[string]bool)
	for uid := range ix.baseRulings {
		targets[uid] = true
	}
	for uid := range ix.ovRuls {
		targets[uid] = true
	}
	uids := make([]string, 0, len(targets))
	for uid := range targets {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	var out []rulings.Ruling
	for _, uid := range uids {
		target, ok := ix.resolveTarget(uid)
		if !ok {
			continue
		}
		for _, r := range ix.targetRulingsLocked(target) {
			if r.State == rulings.Deleted {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

// looksLikeReference spots bracket tokens shaped like a reference uid, as
// opposed to symbol tokens, so typos get reported instead of ignored.
func looksLikeReference(inner string) bool {
	return len(inner) >= 12 && inner[3] == ' '
}
