// Package models defines the vault's data types shared by services,
// repositories and transports.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// VaultEntry is one stored website credential.
//
// Password holds a ciphertext blob inside the record store and plaintext
// everywhere the engine hands an entry to a caller.
type VaultEntry struct {
	ID         string `json:"id"`
	Website    string `json:"website"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Group      string `json:"group,omitempty"`
	Note       string `json:"note,omitempty"`
}

// Draft is the caller-supplied part of a new entry. The engine assigns the ID.
type Draft struct {
	Website    string
	Identifier string
	Password   string
	Group      string
	Note       string
}

// Validate rejects drafts without a website. An empty website would be a
// substring of every page domain and autofill everywhere.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Website) == "" {
		return fmt.Errorf("%w: website is required", common.ErrInvalidEntry)
	}
	return nil
}

// Entry builds a VaultEntry with the given id from the draft.
func (d Draft) Entry(id string) VaultEntry {
	return VaultEntry{
		ID:         id,
		Website:    strings.TrimSpace(d.Website),
		Identifier: d.Identifier,
		Password:   d.Password,
		Group:      d.Group,
		Note:       d.Note,
	}
}

// Draft returns the editable fields of e.
func (e VaultEntry) Draft() Draft {
	return Draft{Website: e.Website, Identifier: e.Identifier, Password: e.Password, Group: e.Group, Note: e.Note}
}

// DecryptFailure describes an entry whose password could not be decrypted.
type DecryptFailure struct {
	ID         string
	Website    string
	Identifier string
	Err        error
}

// SaveCredentials are credentials observed from a submitted login form.
type SaveCredentials struct {
	Website    string `json:"website"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate requires a website and a password.
func (s SaveCredentials) Validate() error {
	if strings.TrimSpace(s.Website) == "" {
		return fmt.Errorf("%w: website is required", common.ErrInvalidEntry)
	}
	if s.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrInvalidEntry)
	}
	return nil
}

// Draft converts the observed credentials into a new entry draft.
func (s SaveCredentials) Draft() Draft {
	return Draft{Website: s.Website, Identifier: s.Identifier, Password: s.Password}
}
