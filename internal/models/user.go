package models

// VaultUserRecord is the single account record created at setup.
type VaultUserRecord struct {
	Identifier         string
	VerificationSecret []byte
}
