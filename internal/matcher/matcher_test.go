package matcher

import (
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, website string) models.VaultEntry {
	return models.VaultEntry{ID: id, Website: website, Identifier: id + "@x.com", Password: "p-" + id}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.VaultEntry
		domain  string
		wantID  string
		wantOK  bool
	}{
		{
			name:    "subdomain contains stored website",
			entries: []models.VaultEntry{entry("1", "example.com")},
			domain:  "login.example.com",
			wantID:  "1", wantOK: true,
		},
		{
			name:    "exact",
			entries: []models.VaultEntry{entry("1", "paypal.com")},
			domain:  "paypal.com",
			wantID:  "1", wantOK: true,
		},
		{
			name:    "stored website contains domain",
			entries: []models.VaultEntry{entry("1", "https://accounts.google.com/signin")},
			domain:  "accounts.google.com",
			wantID:  "1", wantOK: true,
		},
		{
			name:    "empty list",
			entries: nil,
			domain:  "paypal.com",
		},
		{
			name:    "no containment",
			entries: []models.VaultEntry{entry("1", "bank.com"), entry("2", "mail.org")},
			domain:  "paypal.com",
		},
		{
			name:    "case sensitive",
			entries: []models.VaultEntry{entry("1", "PayPal.com")},
			domain:  "paypal.com",
		},
		{
			name:    "first match wins over exact host",
			entries: []models.VaultEntry{entry("loose", "pal.com"), entry("exact", "paypal.com")},
			domain:  "paypal.com",
			wantID:  "loose", wantOK: true,
		},
		{
			name:    "empty domain",
			entries: []models.VaultEntry{entry("1", "bank.com")},
			domain:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.entries, tt.domain)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, got.ID)
			} else {
				assert.Equal(t, models.VaultEntry{}, got)
			}
		})
	}
}

func TestMatchAll_PreservesOrder(t *testing.T) {
	entries := []models.VaultEntry{
		entry("a", "example.com"),
		entry("b", "other.net"),
		entry("c", "login.example.com"),
	}

	got := MatchAll(entries, "login.example.com")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Empty(t, MatchAll(entries, "nothing.io"))
}

func TestSearch(t *testing.T) {
	entries := []models.VaultEntry{
		{ID: "1", Website: "Bank.com", Identifier: "alice"},
		{ID: "2", Website: "mail.com", Identifier: "Bob@Work.io"},
		{ID: "3", Website: "git.io", Identifier: "carol", Group: "WorkStuff"},
		{ID: "4", Website: "shop.com", Identifier: "dave"},
	}

	ids := func(es []models.VaultEntry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	tests := []struct {
		term string
		want []string
	}{
		{term: "bank", want: []string{"1"}},
		{term: "WORK", want: []string{"2", "3"}},
		{term: ".io", want: []string{"2", "3"}},
		{term: "", want: []string{"1", "2", "3", "4"}},
		{term: "nothing", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(entries, tt.term)))
		})
	}

	require.True(t, SearchMatches(entries[0], "ALI"))
}
