// Package config loads runtime configuration for the vault and the autofill
// client.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-e string   record store driver: sqlite or postgres
//	-d string   record store DSN (a file path for sqlite)
//	-k string   bbolt cache file; empty keeps the cache in memory
//	-a string   loopback address of the bridge
//	-f string   file the bridge token is written to
//	-t int      bridge token lifetime in minutes
//	-r float    bridge calls per second, per method
//	-b int      bridge burst size
//	-i int      PBKDF2 iterations (at least 100000)
//	-l string   log level: debug, info, warn, error
//
// JSON durations accept "15m" or integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "vault.db",
//	  "bridge_token_ttl": "15m",
//	  "bridge_rate_limit": 5
//	}
//
// Invalid values panic at startup.
package config
