// Package matcher selects stored credentials for the page being visited.
//
// An entry matches when its website is a substring of the page domain or the
// page domain is a substring of its website. Comparison is case-sensitive and
// the first matching entry wins, with no preference for exact hosts. The rule
// is loose: an entry for "pal.com" is offered on "paypal.com".
package matcher

import (
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/models"
)

// Matches reports whether website and domain satisfy the containment rule.
// An empty domain never matches.
func Matches(website, domain string) bool {
	if domain == "" {
		return false
	}
	return strings.Contains(domain, website) || strings.Contains(website, domain)
}

// Match returns the first entry matching domain.
func Match(entries []models.VaultEntry, domain string) (models.VaultEntry, bool) {
	for _, e := range entries {
		if Matches(e.Website, domain) {
			return e, true
		}
	}
	return models.VaultEntry{}, false
}

// MatchAll returns every entry matching domain, in input order.
func MatchAll(entries []models.VaultEntry, domain string) []models.VaultEntry {
	var out []models.VaultEntry
	for _, e := range entries {
		if Matches(e.Website, domain) {
			out = append(out, e)
		}
	}
	return out
}

// SearchMatches reports whether term occurs, ignoring case, in the entry's
// website, identifier or group. An empty term matches every entry.
func SearchMatches(e models.VaultEntry, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Website), t) ||
		strings.Contains(strings.ToLower(e.Identifier), t) ||
		(e.Group != "" && strings.Contains(strings.ToLower(e.Group), t))
}

// Search returns the entries matching term, in input order.
func Search(entries []models.VaultEntry, term string) []models.VaultEntry {
	var out []models.VaultEntry
	for _, e := range entries {
		if SearchMatches(e, term) {
			out = append(out, e)
		}
	}
	return out
}
