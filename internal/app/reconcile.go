package app

import (
	"strings"

	"tripscout/internal/domain"
)

// Reconciler decides whether two providers returned the same physical
// place. Address evidence is checked before names: chain businesses and
// generic names make name-only matching a common false positive.
type Reconciler struct {
	// NameTokenThreshold is how many shared significant name tokens count
	// as a name match. Tuned, not derived.
	NameTokenThreshold int
}

func NewReconciler() *Reconciler { return &Reconciler{NameTokenThreshold: 2} }

var addressStopwords = map[string]struct{}{"the": {}, "and": {}, "at": {}}

var streetSuffixes = [][2]string{
	{" street", " st"},
	{" avenue", " ave"},
	{" road", " rd"},
	{" boulevard", " blvd"},
}

// Reconcile is pure and never fails; with one or both inputs absent the
// verdict is trivially "same place".
func (rc *Reconciler) Reconcile(a, b *domain.PlaceResult) domain.ReconciliationVerdict {
	v := domain.ReconciliationVerdict{SamePlace: true, Google: a, Advisor: b, Basis: domain.MatchNone}
	if a == nil || b == nil {
		return v
	}

	aAddr := normalizeAddress(deref(a.Address))
	bAddr := normalizeAddress(deref(b.Address))

	aNum, aStreet := extractStreet(aAddr)
	bNum, bStreet := extractStreet(bAddr)

	switch {
	case aNum != "" && bNum != "":
		// Primary rule: equal street numbers plus one shared significant
		// street-name token.
		if aNum == bNum && len(sharedTokens(aStreet, bStreet, 2)) > 0 {
			v.Basis = domain.MatchAddress
			return v
		}
	case aAddr != "" && bAddr != "":
		// Secondary rule: no street numbers on one or both sides; two
		// shared significant address tokens are enough.
		if len(sharedTokens(addressTokens(aAddr), addressTokens(bAddr), 3)) >= 2 {
			v.Basis = domain.MatchAddress
			return v
		}
	}

	// Name tie-break: addresses absent or inconclusive.
	aName := tokenize(strings.ToLower(a.Name))
	bName := tokenize(strings.ToLower(b.Name))
	if len(sharedTokens(aName, bName, 3)) >= rc.NameTokenThreshold {
		v.Basis = domain.MatchName
		return v
	}

	v.SamePlace = false
	return v
}

// normalizeAddress lowercases, abbreviates street suffixes, strips periods,
// and collapses whitespace. Commas survive so the street segment can still
// be cut off the front.
func normalizeAddress(addr string) string {
	if addr == "" {
		return ""
	}
	s := strings.ToLower(addr)
	for _, suf := range streetSuffixes {
		s = strings.ReplaceAll(s, suf[0], suf[1])
	}
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

// extractStreet returns the street number and the significant street-name
// tokens of a normalized address, when the segment before the first comma
// starts with a number.
func extractStreet(addr string) (string, []string) {
	if addr == "" {
		return "", nil
	}
	seg := addr
	if i := strings.IndexByte(seg, ','); i >= 0 {
		seg = seg[:i]
	}
	words := strings.Fields(seg)
	if len(words) == 0 || !isNumeric(words[0]) {
		return "", nil
	}
	name := make([]string, 0, len(words)-1)
	for _, w := range words[1:] {
		switch w {
		case "st", "ave", "rd", "blvd":
			continue
		}
		name = append(name, w)
	}
	return words[0], name
}

func addressTokens(addr string) []string {
	return tokenize(strings.ReplaceAll(addr, ",", " "))
}

func tokenize(s string) []string { return strings.Fields(s) }

// sharedTokens returns the tokens both sides contain, keeping only words
// longer than minLen and outside the stopword set.
func sharedTokens(a, b []string, minLen int) []string {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, w := range b {
		if len(w) <= minLen {
			continue
		}
		if _, stop := addressStopwords[w]; stop {
			continue
		}
		if _, ok := set[w]; !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
