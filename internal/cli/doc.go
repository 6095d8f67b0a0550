// Package cli implements the interactive vault shell.
//
// Before setup only "setup" is useful; afterwards the vault starts locked
// and "unlock" opens it. Entry commands take an optional id argument and
// prompt for it otherwise. Passwords are read without echo.
package cli
