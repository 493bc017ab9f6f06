package fixtures

import (
	"strings"

	"certledger/pkg/domain"
)

// Matcher maps well-known demo certificate filenames to their seeded
// fingerprints. The original demo matched uploads by filename substring
// instead of hashing content, which silently produces false positives; that
// behavior is kept only here, for seeding convenience, and is never consulted
// by the production hashing path.
type Matcher struct {
	byName map[string]domain.Fingerprint
}

// NewMatcher builds the demo filename matcher from the fixture records.
func NewMatcher() *Matcher {
	m := &Matcher{byName: make(map[string]domain.Fingerprint)}
	for _, rec := range Records() {
		m.byName[strings.ToLower(rec.RecordID.String())] = rec.Fingerprint
	}
	return m
}

// Match returns the seeded fingerprint whose record ID appears in the
// filename, if any.
func (m *Matcher) Match(filename string) (domain.Fingerprint, bool) {
	name := strings.ToLower(filename)
	for key, fp := range m.byName {
		if strings.Contains(name, key) {
			return fp, true
		}
	}
	return "", false
}
